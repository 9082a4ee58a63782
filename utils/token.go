package utils

import (
	"sync"
	"time"
)

// TokenBlacklist remembers logged-out tokens until they would have expired.
type TokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (b *TokenBlacklist) Add(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiry
}

func (b *TokenBlacklist) IsBlacklisted(token string) bool {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()
	if !exists {
		return false
	}
	if b.now().Before(expiry) {
		return true
	}

	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
	return false
}

// Cleanup drops expired entries and returns how many were removed.
func (b *TokenBlacklist) Cleanup() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	now := b.now()
	for token, expiry := range b.tokens {
		if now.After(expiry) {
			delete(b.tokens, token)
			removed++
		}
	}
	return removed
}
