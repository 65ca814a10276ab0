// Package catalog stores the match list, saved teams and settings that surround live play.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrInvalidTeam     = errors.New("invalid team")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidBackup   = errors.New("invalid backup")
)

// Service reads and writes catalog documents in a DurableStore. Each document is stored whole
// under its fixed key, so writes are serialized.
type Service struct {
	store    storage.DurableStore
	clock    clockwork.Clock
	logger   *slog.Logger
	defaults map[match.Sport]match.SportDefaults

	mu sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used to stamp new match ids.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger for degraded reads.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSportDefaults replaces the built-in per-sport defaults.
func WithSportDefaults(d map[match.Sport]match.SportDefaults) Option {
	return func(s *Service) {
		if len(d) > 0 {
			s.defaults = d
		}
	}
}

func New(store storage.DurableStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		clock:    clockwork.NewRealClock(),
		defaults: match.BuiltinSportDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// readDoc decodes the document at key into dst. A missing document leaves dst untouched; an
// unreadable one is logged and treated as missing.
func (s *Service) readDoc(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logging.Warn(s.logger, "stored document is invalid, using defaults", logging.FieldKey, key, logging.FieldError, err)
		return false, nil
	}
	return true, nil
}

func (s *Service) writeDoc(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
