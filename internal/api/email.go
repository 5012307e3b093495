package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"comm-agent/internal/llm"
	"comm-agent/internal/prompt"
	"comm-agent/pkg/api"
)

// EmailService generates formatted email replies to customer messages.
type EmailService struct {
	client   llm.Client
	settings api.GenerationSettings
}

func NewEmailService(client llm.Client, settings api.GenerationSettings) *EmailService {
	return &EmailService{client: client, settings: settings}
}

func (s *EmailService) AddRoutes(r chi.Router) {
	r.Post("/email/respond", RestHandler(s.RespondToEmail))
}

func (s *EmailService) RespondToEmail(r *http.Request) (any, error) {
	req, err := ParseRequest[api.EmailRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.CustomerMessage) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "customer_message is required")
	}

	tone := req.Tone
	var detection *api.ToneDetection
	if tone == "" {
		detected, meta := prompt.DetectTone(req.CustomerMessage, req.Context)
		tone = detected
		detection = &meta
		slog.Info("auto-detected tone", "tone", tone, "confidence", meta.Confidence)
	} else if !tone.Valid() {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid tone: %q", req.Tone)
	}

	promptText, err := prompt.BuildEmailPrompt(req.CustomerMessage, tone, req.Context, req.MaxLength)
	if err != nil {
		return nil, CodedError(http.StatusBadRequest, err)
	}

	start := time.Now()
	raw, err := s.client.Complete(r.Context(), promptText)
	if err != nil {
		slog.Error("error generating email response",
			"endpoint", "email/respond",
			"input", truncate(req.CustomerMessage, 80),
			"elapsed", time.Since(start),
			"error", err)
		return nil, llmError(err)
	}
	message := llm.Clean(raw)
	elapsed := time.Since(start)

	return api.EmailResponse{
		Message:         message,
		StatusCode:      http.StatusOK,
		ExecutionTimeMs: float64(elapsed.Microseconds()) / 1000.0,
		Metadata: api.EmailResponseMetadata{
			ToneUsed:           tone,
			ContextLength:      len(promptText),
			GenerationSettings: s.settings,
			ToneDetection:      detection,
			Timestamp:          time.Now().UTC(),
		},
	}, nil
}
