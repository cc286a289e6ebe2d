// Package assistant sequences one product question end to end: extract a
// keyword, search the catalog, and phrase an answer grounded in the
// retrieved records.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog-assistant/internal/cache"
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/chat"
	"catalog-assistant/internal/extract"
	"catalog-assistant/internal/speech"
)

// DefaultSearchLimit caps how many products back an answer.
const DefaultSearchLimit = 5

// NoMatchAnswer is the fixed fallback when the catalog has nothing to say.
// It is produced without calling the model, so answers never invent
// products.
const NoMatchAnswer = "No encontré productos que coincidan con lo que me comentas. " +
	"Prueba preguntando por otra característica o nombre de producto."

var (
	// ErrEmptyQuestion rejects blank input before any downstream call.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrEmptyTranscript means the recording produced no usable text and
	// the interaction should be retried, not answered.
	ErrEmptyTranscript = errors.New("transcription came back empty")
)

// Turn is one completed interaction, kept in memory only for redisplay.
type Turn struct {
	ID       uuid.UUID         `json:"turn_id"`
	Question string            `json:"question"`
	Term     string            `json:"term"`
	Products []catalog.Product `json:"products"`
	Answer   string            `json:"answer"`
	Cached   bool              `json:"cached"`
	AskedAt  time.Time         `json:"asked_at"`
}

// Params collects the collaborators an Assistant needs.
type Params struct {
	Log         *slog.Logger
	Store       catalog.Store
	Answerer    chat.Answerer
	Transcriber speech.Transcriber
	Cache       cache.Cache
	SearchLimit int
	CacheTTL    time.Duration
}

// Assistant orchestrates extractor, catalog, transcriber, and answerer.
// Each question is processed to completion before the next; the only shared
// state is the last-turn slot, which is overwritten per query.
type Assistant struct {
	log         *slog.Logger
	store       catalog.Store
	answerer    chat.Answerer
	transcriber speech.Transcriber
	cache       cache.Cache
	cacheTTL    time.Duration
	limit       int

	mu   sync.Mutex
	last *Turn
}

// New builds an Assistant, applying defaults for limit and cache.
func New(p Params) *Assistant {
	if p.SearchLimit <= 0 {
		p.SearchLimit = DefaultSearchLimit
	}
	if p.Cache == nil {
		p.Cache = cache.NewNoOpCache()
	}
	if p.Log == nil {
		p.Log = slog.Default()
	}
	return &Assistant{
		log:         p.Log,
		store:       p.Store,
		answerer:    p.Answerer,
		transcriber: p.Transcriber,
		cache:       p.Cache,
		cacheTTL:    p.CacheTTL,
		limit:       p.SearchLimit,
	}
}

// Handle answers one typed question. The answer is only ever produced from
// the retrieved products; an empty result set short-circuits to the fixed
// fallback without touching the model.
func (a *Assistant) Handle(ctx context.Context, rawQuestion string) (Turn, error) {
	question := strings.TrimSpace(rawQuestion)
	if question == "" {
		return Turn{}, ErrEmptyQuestion
	}

	term := extract.Keyword(question)

	key := cache.Key(question, term, a.limit)
	if cached, err := a.cache.GetAnswer(ctx, key); err == nil && cached != nil {
		a.log.Info("answer cache hit", "term", term)
		return a.finish(Turn{Question: question, Term: term, Products: cached.Products, Answer: cached.Text, Cached: true}), nil
	}

	products, err := a.store.Search(ctx, term, a.limit)
	if err != nil {
		return Turn{}, fmt.Errorf("searching catalog: %w", err)
	}

	if len(products) == 0 {
		a.log.Warn("no catalog match", "term", term)
		return a.finish(Turn{Question: question, Term: term, Answer: NoMatchAnswer}), nil
	}

	answer, err := a.answerer.Ask(ctx, question, products)
	if err != nil {
		return Turn{}, fmt.Errorf("asking model: %w", err)
	}

	// Only grounded answers are cached; the fallback is cheap to recompute.
	if err := a.cache.SetAnswer(ctx, key, &cache.Answer{Text: answer, Products: products}, a.cacheTTL); err != nil {
		a.log.Warn("failed to cache answer", "err", err)
	}

	return a.finish(Turn{Question: question, Term: term, Products: products, Answer: answer}), nil
}

// HandleAudio transcribes a recording, then answers it like typed text.
func (a *Assistant) HandleAudio(ctx context.Context, audio io.Reader, filename, mimeType string) (Turn, error) {
	text, err := a.transcriber.Transcribe(ctx, audio, filename, mimeType)
	if err != nil {
		return Turn{}, fmt.Errorf("transcribing audio: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return Turn{}, ErrEmptyTranscript
	}
	return a.Handle(ctx, text)
}

// LastTurn returns the most recent completed turn for redisplay.
func (a *Assistant) LastTurn() (Turn, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil {
		return Turn{}, false
	}
	return *a.last, true
}

// finish stamps the turn and overwrites the last-turn slot.
func (a *Assistant) finish(t Turn) Turn {
	t.ID = uuid.New()
	t.AskedAt = time.Now()
	a.mu.Lock()
	a.last = &t
	a.mu.Unlock()
	return t
}
