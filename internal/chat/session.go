package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"comm-agent/internal/llm"
	"comm-agent/pkg/api"
)

// DefaultSessionID is used for callers that do not supply a session id.
const DefaultSessionID = "default"

// Session holds one conversation transcript. The mutex serializes chat calls
// against the same session; history is append-only except for Clear.
type Session struct {
	mu       sync.Mutex
	messages []api.ChatMessage
}

// Manager owns all chat sessions, keyed by caller-supplied session id.
// History lives in memory only and does not survive a restart.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	client   llm.Client
}

func NewManager(client llm.Client) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		client:   client,
	}
}

func (m *Manager) session(sessionID string) *Session {
	m.mu.RLock()
	session, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return session
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[sessionID]; ok {
		return session
	}
	session = &Session{}
	m.sessions[sessionID] = session
	return session
}

// Chat sends the session's transcript plus the new user message to the model
// and returns the cleaned assistant reply. On success exactly two messages
// are appended to the history; a failed completion appends nothing.
func (m *Manager) Chat(ctx context.Context, sessionID, content string) (api.ChatMessage, error) {
	session := m.session(sessionID)

	session.mu.Lock()
	defer session.mu.Unlock()

	transcript := make([]llm.Message, 0, len(session.messages)+1)
	for _, msg := range session.messages {
		transcript = append(transcript, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	transcript = append(transcript, llm.Message{Role: api.RoleUser, Content: content})

	raw, err := m.client.CompleteChat(ctx, transcript)
	if err != nil {
		return api.ChatMessage{}, fmt.Errorf("error completing chat: %w", err)
	}

	reply := api.ChatMessage{
		ID:        uuid.New(),
		Role:      api.RoleAssistant,
		Content:   llm.Clean(raw),
		Timestamp: time.Now().UTC(),
	}

	session.messages = append(session.messages, api.ChatMessage{
		ID:        uuid.New(),
		Role:      api.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}, reply)

	return reply, nil
}

// History returns an ordered copy of the session's transcript. Unknown
// sessions have an empty history.
func (m *Manager) History(sessionID string) []api.ChatMessage {
	session := m.session(sessionID)

	session.mu.Lock()
	defer session.mu.Unlock()

	history := make([]api.ChatMessage, len(session.messages))
	copy(history, session.messages)
	return history
}

// Clear resets the session's transcript. Clearing an empty or unknown
// session is a no-op.
func (m *Manager) Clear(sessionID string) {
	session := m.session(sessionID)

	session.mu.Lock()
	defer session.mu.Unlock()

	session.messages = nil
}
