package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"catalog-assistant/internal/cache"
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/chat"
	"catalog-assistant/internal/speech"
)

func newTestAssistant(st catalog.Store, ans chat.Answerer, tr speech.Transcriber, c cache.Cache) *Assistant {
	return New(Params{
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:       st,
		Answerer:    ans,
		Transcriber: tr,
		Cache:       c,
	})
}

func TestHandleEmptyQuestion(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	a := newTestAssistant(mockStore, mockAnswerer, nil, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := a.Handle(context.Background(), q)
		if !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("Handle(%q): expected ErrEmptyQuestion, got %v", q, err)
		}
	}

	mockStore.AssertNotCalled(t, "Search")
	mockAnswerer.AssertNotCalled(t, "Ask")
}

func TestHandleNoMatchSkipsModel(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	a := newTestAssistant(mockStore, mockAnswerer, nil, nil)

	// End-to-end no-match scenario: the extractor reduces the question to
	// its last content token and the catalog has nothing for it.
	question := "¿Tienes audífonos con 20 horas de batería?"
	mockStore.On("Search", mock.Anything, "batería", DefaultSearchLimit).
		Return([]catalog.Product{}, nil).Once()

	turn, err := a.Handle(context.Background(), question)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if turn.Answer != NoMatchAnswer {
		t.Errorf("expected fixed fallback answer, got %q", turn.Answer)
	}
	if len(turn.Products) != 0 {
		t.Errorf("expected no products, got %d", len(turn.Products))
	}
	mockAnswerer.AssertNotCalled(t, "Ask")
	mockStore.AssertExpectations(t)
}

func TestHandlePassesProductsUnmodified(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	a := newTestAssistant(mockStore, mockAnswerer, nil, nil)

	products := []catalog.Product{
		{ID: "P001", Name: "Laptop Lenovo", Price: 1899, Currency: "PEN", Active: true},
		{ID: "P002", Name: "Laptop HP", Price: 2099, Currency: "PEN", Active: true},
	}
	question := "¿Tienes laptops?"

	mockStore.On("Search", mock.Anything, "laptop", DefaultSearchLimit).
		Return(products, nil).Once()
	mockAnswerer.On("Ask", mock.Anything, question, products).
		Return("Sí, tenemos dos laptops disponibles.", nil).Once()

	turn, err := a.Handle(context.Background(), question)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if turn.Answer != "Sí, tenemos dos laptops disponibles." {
		t.Errorf("unexpected answer: %q", turn.Answer)
	}
	if len(turn.Products) != 2 || turn.Products[0].ID != "P001" || turn.Products[1].ID != "P002" {
		t.Errorf("products not passed through unmodified: %v", turn.Products)
	}
	if turn.Term != "laptop" {
		t.Errorf("expected term 'laptop', got %q", turn.Term)
	}

	mockStore.AssertExpectations(t)
	mockAnswerer.AssertExpectations(t)
}

func TestHandleStoreErrorPropagates(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	a := newTestAssistant(mockStore, mockAnswerer, nil, nil)

	mockStore.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("database gone")).Once()

	_, err := a.Handle(context.Background(), "¿Tienes monitores?")
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	mockAnswerer.AssertNotCalled(t, "Ask")
}

func TestHandleAudio(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	mockTranscriber := new(speech.MockTranscriber)
	a := newTestAssistant(mockStore, mockAnswerer, mockTranscriber, nil)

	products := []catalog.Product{{ID: "P001", Name: "Laptop Lenovo", Active: true}}
	mockTranscriber.On("Transcribe", mock.Anything, mock.Anything, "pregunta.wav", "audio/wav").
		Return("¿Tienes laptops?", nil).Once()
	mockStore.On("Search", mock.Anything, "laptop", DefaultSearchLimit).
		Return(products, nil).Once()
	mockAnswerer.On("Ask", mock.Anything, "¿Tienes laptops?", products).
		Return("Sí, tenemos la Laptop Lenovo.", nil).Once()

	turn, err := a.HandleAudio(context.Background(), strings.NewReader("fake-audio"), "pregunta.wav", "audio/wav")
	if err != nil {
		t.Fatalf("HandleAudio failed: %v", err)
	}
	if turn.Question != "¿Tienes laptops?" {
		t.Errorf("expected transcript as question, got %q", turn.Question)
	}

	mockTranscriber.AssertExpectations(t)
	mockStore.AssertExpectations(t)
	mockAnswerer.AssertExpectations(t)
}

func TestHandleAudioEmptyTranscript(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockTranscriber := new(speech.MockTranscriber)
	a := newTestAssistant(mockStore, nil, mockTranscriber, nil)

	mockTranscriber.On("Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("   ", nil).Once()

	_, err := a.HandleAudio(context.Background(), strings.NewReader(""), "silencio.wav", "audio/wav")
	if !errors.Is(err, ErrEmptyTranscript) {
		t.Errorf("expected ErrEmptyTranscript, got %v", err)
	}
	mockStore.AssertNotCalled(t, "Search")
}

func TestHandleAudioTranscriberError(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockTranscriber := new(speech.MockTranscriber)
	a := newTestAssistant(mockStore, nil, mockTranscriber, nil)

	mockTranscriber.On("Transcribe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("upstream 500")).Once()

	_, err := a.HandleAudio(context.Background(), strings.NewReader(""), "roto.wav", "audio/wav")
	if err == nil {
		t.Fatal("expected error from failing transcriber")
	}
	mockStore.AssertNotCalled(t, "Search")
}

func TestLastTurnOverwritten(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	a := newTestAssistant(mockStore, mockAnswerer, nil, nil)

	if _, ok := a.LastTurn(); ok {
		t.Fatal("expected no last turn before any query")
	}

	mockStore.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]catalog.Product{}, nil).Twice()

	first, _ := a.Handle(context.Background(), "¿Tienes drones?")
	second, _ := a.Handle(context.Background(), "¿Tienes impresoras?")

	last, ok := a.LastTurn()
	if !ok {
		t.Fatal("expected a last turn")
	}
	if last.ID != second.ID {
		t.Errorf("last turn should be the second query, got %v (first was %v)", last.ID, first.ID)
	}
	if last.Question != "¿Tienes impresoras?" {
		t.Errorf("unexpected last question: %q", last.Question)
	}
}

func TestHandleCacheHitSkipsSearchAndModel(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	mockCache := new(cache.MockCache)
	a := newTestAssistant(mockStore, mockAnswerer, nil, mockCache)

	products := []catalog.Product{{ID: "P001", Name: "Laptop Lenovo"}}
	mockCache.On("GetAnswer", mock.Anything, mock.Anything).
		Return(&cache.Answer{Text: "Respuesta guardada.", Products: products}, nil).Once()

	turn, err := a.Handle(context.Background(), "¿Tienes laptops?")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !turn.Cached {
		t.Error("expected cached turn")
	}
	if turn.Answer != "Respuesta guardada." {
		t.Errorf("unexpected answer: %q", turn.Answer)
	}
	mockStore.AssertNotCalled(t, "Search")
	mockAnswerer.AssertNotCalled(t, "Ask")
	mockCache.AssertExpectations(t)
}

func TestHandleGroundedAnswerIsCached(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	mockCache := new(cache.MockCache)
	a := newTestAssistant(mockStore, mockAnswerer, nil, mockCache)

	products := []catalog.Product{{ID: "P001", Name: "Laptop Lenovo"}}
	mockCache.On("GetAnswer", mock.Anything, mock.Anything).Return(nil, nil).Once()
	mockStore.On("Search", mock.Anything, "laptop", DefaultSearchLimit).Return(products, nil).Once()
	mockAnswerer.On("Ask", mock.Anything, mock.Anything, products).Return("Sí, hay una laptop.", nil).Once()
	mockCache.On("SetAnswer", mock.Anything, mock.Anything, mock.MatchedBy(func(ans *cache.Answer) bool {
		return ans.Text == "Sí, hay una laptop." && len(ans.Products) == 1
	}), mock.Anything).Return(nil).Once()

	if _, err := a.Handle(context.Background(), "¿Tienes laptops?"); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	mockCache.AssertExpectations(t)
}

func TestHandleFallbackNotCached(t *testing.T) {
	mockStore := new(catalog.MockStore)
	mockAnswerer := new(chat.MockAnswerer)
	mockCache := new(cache.MockCache)
	a := newTestAssistant(mockStore, mockAnswerer, nil, mockCache)

	mockCache.On("GetAnswer", mock.Anything, mock.Anything).Return(nil, nil).Once()
	mockStore.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]catalog.Product{}, nil).Once()

	turn, err := a.Handle(context.Background(), "¿Tienes drones?")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if turn.Answer != NoMatchAnswer {
		t.Errorf("expected fallback answer, got %q", turn.Answer)
	}
	mockCache.AssertNotCalled(t, "SetAnswer")
}

func TestTurnTimestamps(t *testing.T) {
	mockStore := new(catalog.MockStore)
	a := newTestAssistant(mockStore, nil, nil, nil)

	mockStore.On("Search", mock.Anything, mock.Anything, mock.Anything).
		Return([]catalog.Product{}, nil).Once()

	before := time.Now()
	turn, err := a.Handle(context.Background(), "¿Tienes parlantes?")
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if turn.AskedAt.Before(before) {
		t.Error("turn timestamp predates the query")
	}
}
