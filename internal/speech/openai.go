package speech

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// The assistant only serves Spanish speakers; the target language is fixed.
const transcriptionLanguage = "es"

const defaultTranscribeTimeout = 60 * time.Second

// OpenAITranscriber calls OpenAI's audio transcription API.
type OpenAITranscriber struct {
	model  openai.AudioModel
	client *openai.Client
}

// NewOpenAITranscriber builds a transcriber with defaults against
// api.openai.com.
func NewOpenAITranscriber(apiKey string, model openai.AudioModel) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.AudioModelWhisper1
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAITranscriber{
		model:  model,
		client: &cli,
	}, nil
}

// Transcribe sends the audio bytes as a multipart upload and returns the
// trimmed transcript. Failures carry the upstream status code and body via
// the SDK error.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, mimeType string) (string, error) {
	if t == nil || t.client == nil {
		return "", fmt.Errorf("nil openai transcriber")
	}
	if filename == "" {
		filename = "audio.wav"
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultTranscribeTimeout)
	defer cancel()

	resp, err := t.client.Audio.Transcriptions.New(reqCtx, openai.AudioTranscriptionNewParams{
		Model:          t.model,
		File:           openai.File(audio, filename, mimeType),
		Language:       openai.String(transcriptionLanguage),
		ResponseFormat: openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
