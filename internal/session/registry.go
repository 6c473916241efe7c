// ABOUTME: In-memory session registry mapping opaque tokens to identities
// ABOUTME: Process-lifetime only; every restart invalidates all tokens

package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

// tokenBytes is the entropy of a session token. 32 random bytes make
// collisions practically impossible, but Create still verifies.
const tokenBytes = 32

// Identity is the authenticated identity a token resolves to.
type Identity struct {
	UserID int64
	Name   string
}

// Registry maps opaque session tokens to identities. It is safe for
// concurrent use. The registry is never persisted: restarting the process
// drops every outstanding token, regardless of how long a client-held cookie
// claims to stay valid.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Identity
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]Identity),
	}
}

// Create generates a fresh unguessable token for the given identity and
// registers it.
func (r *Registry) Create(userID int64, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		token, err := generateToken()
		if err != nil {
			return "", fmt.Errorf("generating session token: %w", err)
		}
		if _, exists := r.sessions[token]; exists {
			continue
		}
		r.sessions[token] = Identity{UserID: userID, Name: name}
		return token, nil
	}
}

// Lookup resolves a token to its identity. Unknown tokens report ok=false
// without error.
func (r *Registry) Lookup(token string) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.sessions[token]
	return id, ok
}

// Delete removes a token. Deleting an unknown token is a no-op.
func (r *Registry) Delete(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// generateToken returns a hex-encoded random token.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
