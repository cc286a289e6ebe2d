package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"catalog-assistant/internal/catalog"
)

type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

// turnResponse mirrors the turn payload the service returns.
type turnResponse struct {
	ID       string            `json:"turn_id"`
	Question string            `json:"question"`
	Term     string            `json:"term"`
	Products []catalog.Product `json:"products"`
	Answer   string            `json:"answer"`
	Cached   bool              `json:"cached"`
	AskedAt  time.Time         `json:"asked_at"`
}

func newAPIClient() *apiClient {
	return &apiClient{
		baseURL: serverURL,
		// Transcription plus a chat completion can take a while.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *apiClient) askText(ctx context.Context, question string) (*turnResponse, error) {
	data, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.doTurn(req)
}

func (c *apiClient) askAudio(ctx context.Context, path string) (*turnResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query/audio", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.doTurn(req)
}

func (c *apiClient) lastTurn(ctx context.Context) (*turnResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/session/last", nil)
	if err != nil {
		return nil, err
	}
	return c.doTurn(req)
}

func (c *apiClient) doTurn(req *http.Request) (*turnResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable, is the assistant running? (%w)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var turn turnResponse
	if err := json.NewDecoder(resp.Body).Decode(&turn); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &turn, nil
}
