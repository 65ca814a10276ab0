// Package storage provides the durable key-value stores behind match history and the catalog.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for keys outside [A-Za-z0-9_-].
	ErrInvalidKey = errors.New("invalid key")
)

// Fixed keys shared by every driver.
const (
	KeyMatches  = "matches"
	KeyTeams    = "savedTeams"
	KeySettings = "scoreboardSettings"

	matchStatePrefix = "match-state-"
)

// DurableStore persists opaque values by key. Implementations are safe for concurrent use.
type DurableStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,200}$`)

// MatchStateKey is the key holding the history log for a match.
func MatchStateKey(matchID string) string {
	return matchStatePrefix + matchID
}

// ValidateKey rejects keys that cannot be stored by every driver.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
