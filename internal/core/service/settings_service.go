package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

const settingsReadTimeout = 2 * time.Second

// SettingsService reads settings through an optional cache and falls back to
// in-code defaults whenever storage cannot answer.
type SettingsService struct {
	repo  ports.SettingsRepository
	cache ports.SettingsCache
	log   zerolog.Logger

	// writes is bumped before and after every SetAll; a snapshot read from
	// the repository is cached only if no write overlapped the read.
	writes atomic.Uint64
}

// NewSettingsService returns a SettingsService. cache may be nil.
func NewSettingsService(repo ports.SettingsRepository, cache ports.SettingsCache, log zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, cache: cache, log: log}
}

// Get returns the stored value of key, or def when the key is unset or the
// store is unavailable. It never fails.
func (s *SettingsService) Get(ctx context.Context, key, def string) string {
	ctx, cancel := context.WithTimeout(ctx, settingsReadTimeout)
	defer cancel()

	values, err := s.stored(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Str("default", def).Msg("settings unavailable, using default")
		return def
	}
	if v, ok := values[key]; ok && v != "" {
		return v
	}
	return def
}

// GetAll returns the stored settings merged over the defaults.
func (s *SettingsService) GetAll(ctx context.Context) (map[string]string, error) {
	values, err := s.stored(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindStorageUnavailable, "Could not load settings", err)
	}

	out := make(map[string]string, len(domain.DefaultSettings)+len(values))
	for k, v := range domain.DefaultSettings {
		out[k] = v
	}
	for k, v := range values {
		out[k] = v
	}
	return out, nil
}

// SetAll validates every pair, then upserts each key on its own. A storage
// failure midway leaves earlier keys written.
func (s *SettingsService) SetAll(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return domain.NewError(domain.KindInvalidInput, "No settings provided", nil)
	}

	keys := make([]string, 0, len(values))
	for k, v := range values {
		if err := domain.ValidateSetting(k, v); err != nil {
			return domain.NewError(domain.KindInvalidInput, err.Error(), nil)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.writes.Add(1)
	defer func() {
		s.writes.Add(1)
		s.invalidate(ctx)
	}()

	for _, k := range keys {
		if err := s.repo.Upsert(ctx, k, values[k]); err != nil {
			return domain.NewError(domain.KindStorageUnavailable, "Could not save settings", fmt.Errorf("upsert %s: %w", k, err))
		}
	}

	s.log.Info().Strs("keys", keys).Msg("settings updated")
	return nil
}

// stored loads the persisted settings, preferring the cache.
func (s *SettingsService) stored(ctx context.Context) (map[string]string, error) {
	if s.cache != nil {
		values, ok, err := s.cache.Load(ctx)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("settings cache read failed")
		case ok:
			return values, nil
		}
	}

	gen := s.writes.Load()
	values, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.writes.Load() == gen {
		if err := s.cache.Store(ctx, values); err != nil {
			s.log.Warn().Err(err).Msg("settings cache write failed")
		}
	}
	return values, nil
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Msg("settings cache invalidation failed")
	}
}
