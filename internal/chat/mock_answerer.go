package chat

import (
	"context"

	"github.com/stretchr/testify/mock"

	"catalog-assistant/internal/catalog"
)

// MockAnswerer is a mock implementation of Answerer using testify/mock.
type MockAnswerer struct {
	mock.Mock
}

func (m *MockAnswerer) Ask(ctx context.Context, question string, products []catalog.Product) (string, error) {
	args := m.Called(ctx, question, products)
	return args.String(0), args.Error(1)
}
