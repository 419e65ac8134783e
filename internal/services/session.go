package services

import (
	"sync"

	"github.com/simonolocco/bot-wasap/internal/models"
)

// SessionRegistry owns the per-chat conversation records. Sessions are
// created implicitly on first contact and retained for the process lifetime.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
	locks    map[string]*sync.Mutex
}

// NewSessionRegistry creates an empty session registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*models.ChatSession),
		locks:    make(map[string]*sync.Mutex),
	}
}

// LockChat acquires the mutex for one chat, serializing near-simultaneous
// webhook deliveries for the same chat id. The caller must unlock the
// returned mutex when the event is fully handled.
func (r *SessionRegistry) LockChat(chatID string) *sync.Mutex {
	r.mu.Lock()
	l, ok := r.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[chatID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l
}

// GetOrCreate returns the session for a chat, creating a fresh one on first
// contact. Callers mutate the session while holding the chat lock.
func (r *SessionRegistry) GetOrCreate(chatID string) *models.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[chatID]
	if !exists {
		session = &models.ChatSession{ChatID: chatID, State: models.ChatStateNew}
		r.sessions[chatID] = session
	}
	return session
}

// Count returns the number of tracked sessions (for monitoring).
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
