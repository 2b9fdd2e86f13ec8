package auth

import (
	"sync"
	"time"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
)

// Token is a stored bearer credential with its expiry hint.
type Token struct {
	AccessToken string    `yaml:"access_token"`
	ExpiresAt   time.Time `yaml:"expires_at,omitempty"`
	StoredAt    time.Time `yaml:"stored_at,omitempty"`
}

// Valid reports whether the token is present and not past its expiry hint.
// A zero expiry never expires.
func (t *Token) Valid() bool {
	return t.validAt(time.Now())
}

func (t *Token) validAt(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	return t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt)
}

func newToken(accessToken string, ttl time.Duration, now time.Time) (*Token, error) {
	if accessToken == "" {
		return nil, constants.ErrEmptyToken
	}

	token := &Token{AccessToken: accessToken, StoredAt: now}
	if ttl > 0 {
		token.ExpiresAt = now.Add(ttl)
	}

	return token, nil
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mutex sync.RWMutex
	token *Token
	now   func() time.Time
}

var _ console.TokenStore = (*MemoryTokenStore)(nil)

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{now: time.Now}
}

// Get returns the current token or "" when none is stored or it has expired.
func (s *MemoryTokenStore) Get() (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.token.validAt(s.now()) {
		return "", nil
	}

	return s.token.AccessToken, nil
}

// Set replaces the stored token.
func (s *MemoryTokenStore) Set(accessToken string, ttl time.Duration) error {
	token, err := newToken(accessToken, ttl, s.now())
	if err != nil {
		return err
	}

	s.mutex.Lock()
	s.token = token
	s.mutex.Unlock()

	return nil
}

// Clear removes the stored token.
func (s *MemoryTokenStore) Clear() error {
	s.mutex.Lock()
	s.token = nil
	s.mutex.Unlock()

	return nil
}

// Current returns a copy of the stored token, if any.
func (s *MemoryTokenStore) Current() (Token, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.token == nil {
		return Token{}, false
	}

	return *s.token, true
}
