package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"comm-agent/internal/chat"
	"comm-agent/pkg/api"
)

// ChatService exposes the stateful chat surface over the session manager.
type ChatService struct {
	manager *chat.Manager
}

func NewChatService(manager *chat.Manager) *ChatService {
	return &ChatService{manager: manager}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", RestHandler(s.SendMessage))
		r.Get("/history", RestHandler(s.GetHistory))
		r.Post("/clear", RestHandler(s.ClearHistory))
	})
}

func (s *ChatService) SendMessage(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "content is required")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = chat.DefaultSessionID
	}

	start := time.Now()
	reply, err := s.manager.Chat(r.Context(), sessionID, req.Content)
	if err != nil {
		slog.Error("error processing chat message",
			"endpoint", "chat",
			"session_id", sessionID,
			"input", truncate(req.Content, 80),
			"elapsed", time.Since(start),
			"error", err)
		return nil, llmError(err)
	}

	return reply, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	query, err := ParseRequestQueryParams[api.ChatSessionQuery](r)
	if err != nil {
		return nil, err
	}

	sessionID := query.SessionID
	if sessionID == "" {
		sessionID = chat.DefaultSessionID
	}

	return s.manager.History(sessionID), nil
}

func (s *ChatService) ClearHistory(r *http.Request) (any, error) {
	query, err := ParseRequestQueryParams[api.ChatSessionQuery](r)
	if err != nil {
		return nil, err
	}

	sessionID := query.SessionID
	if sessionID == "" {
		sessionID = chat.DefaultSessionID
	}

	s.manager.Clear(sessionID)
	slog.Info("conversation cleared", "session_id", sessionID)

	return api.StatusResponse{Status: "conversation cleared", Version: Version, Timestamp: time.Now().UTC()}, nil
}
