// Package auth models the API keys that guard the admin surface.
package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrKeyNotFound is returned when no active key matches the presented hash.
var ErrKeyNotFound = errors.New("api key not found")

// Scope names a capability granted to an API key.
type Scope = string

const (
	// ScopeAdmin grants access to the back-office endpoints.
	ScopeAdmin Scope = "admin"
)

// APIKeyInfo is a stored API key record. Only the HMAC hash of the key is
// persisted, never the key itself.
type APIKeyInfo struct {
	ID      string
	KeyHash string
	Name    string
	Scopes  []string
}

// HasScope reports whether the key grants the named scope.
func (k *APIKeyInfo) HasScope(scope Scope) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Repository looks up API keys by hash.
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*APIKeyInfo, error)
}
