package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"bistro/internal/repository"
	"bistro/internal/storage"
)

// UploadJanitor removes image files that no menu item references. Files newer
// than the grace period are skipped so uploads still being saved survive.
type UploadJanitor struct {
	store storage.ImageStore
	menus repository.MenuRepository
	grace time.Duration
	now   func() time.Time
	cron  *cron.Cron
}

// NewUploadJanitor creates a janitor. Call Start to schedule it.
func NewUploadJanitor(store storage.ImageStore, menus repository.MenuRepository, grace time.Duration) *UploadJanitor {
	return &UploadJanitor{
		store: store,
		menus: menus,
		grace: grace,
		now:   time.Now,
	}
}

// Start runs Sweep on the given standard cron schedule. An empty schedule
// leaves the janitor idle.
func (j *UploadJanitor) Start(schedule string) error {
	if schedule == "" {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, err := j.Sweep(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("orphan upload sweep failed")
			return
		}
		if removed > 0 {
			log.Info().Int("removed", removed).Msg("orphan upload sweep finished")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule orphan sweep %q: %w", schedule, err)
	}
	c.Start()
	j.cron = c
	log.Info().Str("schedule", schedule).Dur("grace", j.grace).Msg("orphan upload janitor started")
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (j *UploadJanitor) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Sweep deletes unreferenced files older than the grace period and returns
// how many were removed.
func (j *UploadJanitor) Sweep(ctx context.Context) (int, error) {
	paths, err := j.menus.ImagePaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced images: %w", err)
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	files, err := j.store.Files()
	if err != nil {
		return 0, fmt.Errorf("list stored images: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.PublicPath]; ok {
			continue
		}
		if f.ModTime.After(cutoff) {
			continue
		}
		if err := j.store.Remove(f.PublicPath); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("image", f.PublicPath).Msg("failed to remove orphan image")
			continue
		}
		removed++
	}
	return removed, nil
}
