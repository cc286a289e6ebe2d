// Package catalog provides read access to the product table the assistant
// answers from. Rows are created and maintained by an external catalog
// manager; the assistant only ever reads active ones.
package catalog

import "context"

// Product is one catalog row.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
	Price       float64 `json:"price"`
	Family      string  `json:"family"`
	Subfamily   string  `json:"subfamily"`
	MinStock    int     `json:"min_stock"`
	Active      bool    `json:"active"`
	PhotoURL    string  `json:"photo_url,omitempty"`
}

// Store is the read-only search contract the orchestrator depends on.
// Search matches term case-insensitively as a substring of name,
// description, family, or subfamily over active rows, ordered by name and
// truncated to limit. An empty term matches every active product.
type Store interface {
	Search(ctx context.Context, term string, limit int) ([]Product, error)
	Close() error
}
