package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"catalog-assistant/internal/app"
	"catalog-assistant/internal/assistant"
	"catalog-assistant/internal/httputil"
)

type queryRequest struct {
	Question string `json:"question" validate:"required,max=500"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Store.Close()
	defer deps.Cache.Close()

	r := httputil.NewRouter(deps.Log)
	r.Post("/api/query", queryHandler(deps))
	r.Post("/api/query/audio", audioHandler(deps))
	r.Get("/api/session/last", lastTurnHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("assistant listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		deps.Log.Error("assistant stopped", "err", err)
	}
}

func queryHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		turn, err := deps.Assistant.Handle(r.Context(), req.Question)
		if err != nil {
			writeTurnError(deps, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, turn)
	}
}

func audioHandler(deps app.Deps) http.HandlerFunc {
	maxAudioSize := deps.Config.MaxAudioSize

	return func(w http.ResponseWriter, r *http.Request) {
		// Reject on the declared length early; chunked uploads declare
		// none, so the body itself is capped as well.
		if r.ContentLength > maxAudioSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("recording too large (max %d bytes)", maxAudioSize), nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxAudioSize)

		file, header, err := r.FormFile("audio")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				httputil.Fail(deps.Log, w, fmt.Sprintf("recording too large (max %d bytes)", maxAudioSize), err, http.StatusBadRequest)
				return
			}
			httputil.Fail(deps.Log, w, "audio file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxAudioSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("recording too large (max %d bytes)", maxAudioSize), nil, http.StatusBadRequest)
			return
		}

		turn, err := deps.Assistant.HandleAudio(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			writeTurnError(deps, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, turn)
	}
}

func lastTurnHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turn, ok := deps.Assistant.LastTurn()
		if !ok {
			httputil.Fail(deps.Log, w, "no previous answer", nil, http.StatusNotFound)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, turn)
	}
}

// writeTurnError maps orchestrator errors: bad input is the user's to fix,
// everything else is an upstream failure.
func writeTurnError(deps app.Deps, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		httputil.Fail(deps.Log, w, "question must not be empty", err, http.StatusBadRequest)
	case errors.Is(err, assistant.ErrEmptyTranscript):
		httputil.Fail(deps.Log, w, "the transcription came back empty; please record again", err, http.StatusBadRequest)
	default:
		httputil.Fail(deps.Log, w, "query failed", err, http.StatusInternalServerError)
	}
}
