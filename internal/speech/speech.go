// Package speech turns recorded audio into question text.
package speech

import (
	"context"
	"io"
)

// Transcriber is the speech-to-text contract. The transcript comes back
// trimmed; an empty transcript means the user should record again, never a
// valid silent question.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, mimeType string) (string, error)
}
