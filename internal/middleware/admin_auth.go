package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminCookieName is the session cookie the admin panel authenticates with.
const AdminCookieName = "admin_session"

const adminSessionTTL = 12 * time.Hour

// AdminSessionStore holds the active admin panel sessions in memory. Tokens
// are opaque uuids; restarting the process logs everyone out.
type AdminSessionStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

// NewAdminSessionStore creates an empty admin session store
func NewAdminSessionStore() *AdminSessionStore {
	return &AdminSessionStore{tokens: make(map[string]time.Time)}
}

// Create issues a new session token.
func (s *AdminSessionStore) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = time.Now().Add(adminSessionTTL)
	return token
}

// Valid reports whether the token belongs to a live session.
func (s *AdminSessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.RLock()
	expiresAt, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		s.Revoke(token)
		return false
	}
	return true
}

// Revoke removes a session token.
func (s *AdminSessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// RequireAdminSession rejects requests that do not carry a valid admin
// session cookie.
func RequireAdminSession(sessions *AdminSessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sessions.Valid(c.Cookies(AdminCookieName)) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No autorizado",
			})
		}
		return c.Next()
	}
}
