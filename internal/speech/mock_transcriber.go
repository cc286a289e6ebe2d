package speech

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber is a mock implementation of Transcriber using testify/mock.
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, mimeType string) (string, error) {
	args := m.Called(ctx, audio, filename, mimeType)
	return args.String(0), args.Error(1)
}
