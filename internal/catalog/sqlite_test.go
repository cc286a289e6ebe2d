package catalog

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedTestProducts(t *testing.T, st *SQLiteStore) {
	t.Helper()
	products := []Product{
		{ID: "P001", Name: "Monitor LG UltraGear 27", Description: "Monitor gamer de 27 pulgadas, 144 hz", Currency: "PEN", Price: 1299, Family: "Computo", Subfamily: "Monitores", Active: true},
		{ID: "P002", Name: "Laptop Lenovo IdeaPad 3", Description: "Laptop de 15.6 pulgadas con 8 GB de RAM", Currency: "PEN", Price: 1899, Family: "Computo", Subfamily: "Laptops", Active: true},
		{ID: "P003", Name: "Audífonos Sony WH-CH520", Description: "Audífonos inalámbricos con 50 horas de batería", Currency: "PEN", Price: 249, Family: "Audio", Subfamily: "Audífonos", Active: true},
		{ID: "P004", Name: "Monitor Samsung Viejo", Description: "Descontinuado", Currency: "PEN", Price: 499, Family: "Computo", Subfamily: "Monitores", Active: false},
		{ID: "P005", Name: "Teclado Logitech K380", Description: "Teclado inalámbrico multidispositivo", Currency: "PEN", Price: 159, Family: "Computo", Subfamily: "Teclados", Active: true},
	}
	for _, p := range products {
		if err := st.Insert(context.Background(), p); err != nil {
			t.Fatalf("inserting %s: %v", p.ID, err)
		}
	}
}

func TestSearchMatchesNameCaseInsensitive(t *testing.T) {
	st := newTestStore(t)
	seedTestProducts(t, st)

	got, err := st.Search(context.Background(), "monitor", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 active monitor, got %d", len(got))
	}
	if got[0].ID != "P001" {
		t.Errorf("expected P001, got %s", got[0].ID)
	}
}

func TestSearchMatchesDescriptionFamilySubfamily(t *testing.T) {
	st := newTestStore(t)
	seedTestProducts(t, st)

	tests := []struct {
		name   string
		term   string
		wantID string
	}{
		{"description", "batería", "P003"},
		{"family", "audio", "P003"},
		{"subfamily", "teclados", "P005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.Search(context.Background(), tt.term, 5)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if len(got) != 1 || got[0].ID != tt.wantID {
				t.Errorf("Search(%q) = %v, want single product %s", tt.term, got, tt.wantID)
			}
		})
	}
}

func TestSearchExcludesInactive(t *testing.T) {
	st := newTestStore(t)
	seedTestProducts(t, st)

	got, err := st.Search(context.Background(), "samsung", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results for inactive product, got %d", len(got))
	}
}

func TestSearchEmptyTermMatchesAllActive(t *testing.T) {
	st := newTestStore(t)
	seedTestProducts(t, st)

	got, err := st.Search(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected all 4 active products, got %d", len(got))
	}
	for _, p := range got {
		if !p.Active {
			t.Errorf("inactive product %s leaked into results", p.ID)
		}
	}
}

func TestSearchOrdersByNameAndHonorsLimit(t *testing.T) {
	st := newTestStore(t)
	seedTestProducts(t, st)

	got, err := st.Search(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
	if got[0].Name > got[1].Name {
		t.Errorf("results not ordered by name: %q before %q", got[0].Name, got[1].Name)
	}
}

func TestInsertReplacesExistingRow(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := Product{ID: "P010", Name: "Parlante JBL", Currency: "PEN", Price: 300, Active: true}
	if err := st.Insert(ctx, p); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	p.Price = 280
	if err := st.Insert(ctx, p); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	got, err := st.Search(ctx, "parlante", 5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", len(got))
	}
	if got[0].Price != 280 {
		t.Errorf("expected updated price 280, got %v", got[0].Price)
	}
}
