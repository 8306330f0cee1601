package auth

import (
	"sync"
	"time"
)

// ResetToken is a pending password reset correlated to an email address.
type ResetToken struct {
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token's window has passed.
func (rt ResetToken) Expired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ResetTokenStore holds pending reset tokens. Implementations must be safe
// for concurrent use. Tokens are not required to survive a process restart;
// losing in-flight resets on restart is acceptable.
type ResetTokenStore interface {
	Put(token string, rt ResetToken)
	Get(token string) (ResetToken, bool)
	Delete(token string)
}

// MemoryResetTokenStore is the default in-process store.
type MemoryResetTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]ResetToken
}

func NewMemoryResetTokenStore() *MemoryResetTokenStore {
	return &MemoryResetTokenStore{tokens: make(map[string]ResetToken)}
}

func (s *MemoryResetTokenStore) Put(token string, rt ResetToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = rt
}

func (s *MemoryResetTokenStore) Get(token string) (ResetToken, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.tokens[token]
	return rt, ok
}

func (s *MemoryResetTokenStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}
