package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

// Backup is the full export of the catalog.
type Backup struct {
	Matches    []Match     `json:"matches"`
	SavedTeams []SavedTeam `json:"savedTeams"`
	Settings   Settings    `json:"settings"`
}

var backupSections = []string{"matches", "savedTeams", "settings"}

// DecodeBackup parses an exported document. All three sections must be present.
func DecodeBackup(data []byte) (Backup, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	for _, key := range backupSections {
		if raw, ok := sections[key]; !ok || string(raw) == "null" {
			return Backup{}, fmt.Errorf("%w: missing %q", ErrInvalidBackup, key)
		}
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return b, nil
}

// Export returns matches, saved teams and the effective settings.
func (s *Service) Export(ctx context.Context) (Backup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches, err := s.loadMatches(ctx)
	if err != nil {
		return Backup{}, err
	}
	teams, err := s.loadTeams(ctx)
	if err != nil {
		return Backup{}, err
	}
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return Backup{}, err
	}
	return Backup{Matches: matches, SavedTeams: teams, Settings: settings}, nil
}

// Import overwrites matches, saved teams and settings with the backup.
func (s *Service) Import(ctx context.Context, b Backup) error {
	if b.Matches == nil || b.SavedTeams == nil {
		return fmt.Errorf("%w: matches and savedTeams are required", ErrInvalidBackup)
	}
	settings := s.merge(b.Settings)
	if err := settings.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	for _, m := range b.Matches {
		if m.ID == "" {
			return fmt.Errorf("%w: match without id", ErrInvalidBackup)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeDoc(ctx, storage.KeyMatches, b.Matches); err != nil {
		return err
	}
	if err := s.writeDoc(ctx, storage.KeyTeams, b.SavedTeams); err != nil {
		return err
	}
	return s.writeDoc(ctx, storage.KeySettings, settings)
}

// Clear removes matches, saved teams and settings. Per-match histories are left in place.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{storage.KeyMatches, storage.KeyTeams, storage.KeySettings} {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}
