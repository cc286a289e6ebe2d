// Package chat phrases answers about catalog products, constrained to the
// records the caller retrieved.
package chat

import (
	"context"

	"catalog-assistant/internal/catalog"
)

// Answerer is a minimal LLM interface to allow pluggable providers.
// Implementations must answer only from the supplied product list.
type Answerer interface {
	Ask(ctx context.Context, question string, products []catalog.Product) (string, error)
}
