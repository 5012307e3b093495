package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"comm-agent/internal/llm"
	"comm-agent/pkg/api"
)

const Version = "1.0.0"

// StatusService reports service and upstream model health.
type StatusService struct {
	client llm.Client
}

func NewStatusService(client llm.Client) *StatusService {
	return &StatusService{client: client}
}

func (s *StatusService) AddRoutes(r chi.Router) {
	r.Get("/status", RestHandler(s.GetStatus))
}

func (s *StatusService) GetStatus(r *http.Request) (any, error) {
	if err := s.client.Ping(r.Context()); err != nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "model endpoint is not responding: %v", err)
	}

	return api.StatusResponse{Status: "running", Version: Version, Timestamp: time.Now().UTC()}, nil
}

// HealthHandler serves the root liveness check. It does not touch the model
// endpoint.
func HealthHandler() http.HandlerFunc {
	return RestHandler(func(r *http.Request) (any, error) {
		return api.HealthResponse{Status: "healthy", Message: "Communication Agent API is running"}, nil
	})
}

// llmError maps completion client failures onto response codes: unreachable
// upstream is 503, anything else during generation is 500.
func llmError(err error) error {
	if errors.Is(err, llm.ErrUnavailable) {
		return CodedError(http.StatusServiceUnavailable, err)
	}
	return CodedError(http.StatusInternalServerError, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
