package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comm-agent/internal/llm"
	"comm-agent/pkg/api"
)

func getHistory(t *testing.T, router chi.Router, sessionID string) []api.ChatMessage {
	t.Helper()
	path := "/chat/history"
	if sessionID != "" {
		path += "?session_id=" + sessionID
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []api.ChatMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	return history
}

func TestChatRoundTrip(t *testing.T) {
	mock := &mockLLM{reply: "<think>x</think>Hello! How can I help?"}
	router := newRouter(mock)

	rec := postJSON(t, router, "/chat", api.ChatRequest{Content: "Hi there"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var reply api.ChatMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reply))
	assert.Equal(t, api.RoleAssistant, reply.Role)
	assert.Equal(t, "Hello! How can I help?", reply.Content)
	assert.False(t, reply.Timestamp.IsZero())

	history := getHistory(t, router, "")
	require.Len(t, history, 2)
	assert.Equal(t, api.RoleUser, history[0].Role)
	assert.Equal(t, "Hi there", history[0].Content)
	assert.Equal(t, api.RoleAssistant, history[1].Role)
	assert.Equal(t, reply.Content, history[1].Content)
}

func TestChat_EmptyContent(t *testing.T) {
	mock := &mockLLM{}
	router := newRouter(mock)

	rec := postJSON(t, router, "/chat", api.ChatRequest{Content: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, mock.calls)
	assert.Empty(t, getHistory(t, router, ""))
}

func TestChat_UpstreamFailureLeavesHistoryUntouched(t *testing.T) {
	mock := &mockLLM{err: fmt.Errorf("%w: dial tcp: connection refused", llm.ErrUnavailable)}
	router := newRouter(mock)

	rec := postJSON(t, router, "/chat", api.ChatRequest{Content: "Hi"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, getHistory(t, router, ""))
}

func TestChat_SessionsPartitionHistory(t *testing.T) {
	mock := &mockLLM{reply: "ok"}
	router := newRouter(mock)

	rec := postJSON(t, router, "/chat", api.ChatRequest{Content: "alpha says", SessionID: "alpha"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = postJSON(t, router, "/chat", api.ChatRequest{Content: "beta says", SessionID: "beta"})
	require.Equal(t, http.StatusOK, rec.Code)

	alpha := getHistory(t, router, "alpha")
	beta := getHistory(t, router, "beta")
	require.Len(t, alpha, 2)
	require.Len(t, beta, 2)
	assert.Equal(t, "alpha says", alpha[0].Content)
	assert.Equal(t, "beta says", beta[0].Content)
	assert.Empty(t, getHistory(t, router, ""))
}

func TestChatClear(t *testing.T) {
	mock := &mockLLM{reply: "ok"}
	router := newRouter(mock)

	for i := 0; i < 3; i++ {
		rec := postJSON(t, router, "/chat", api.ChatRequest{Content: "msg"})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Len(t, getHistory(t, router, ""), 6)

	req := httptest.NewRequest(http.MethodPost, "/chat/clear", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status api.StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "conversation cleared", status.Status)

	assert.Empty(t, getHistory(t, router, ""))

	// Clear is idempotent.
	req = httptest.NewRequest(http.MethodPost, "/chat/clear", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatClear_ScopedToSession(t *testing.T) {
	mock := &mockLLM{reply: "ok"}
	router := newRouter(mock)

	rec := postJSON(t, router, "/chat", api.ChatRequest{Content: "keep me", SessionID: "keep"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = postJSON(t, router, "/chat", api.ChatRequest{Content: "drop me", SessionID: "drop"})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/chat/clear?session_id=drop", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.Empty(t, getHistory(t, router, "drop"))
	assert.Len(t, getHistory(t, router, "keep"), 2)
}
