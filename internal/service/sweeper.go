package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/msomdec/item-flow/internal/attachment"
	"github.com/msomdec/item-flow/internal/domain"
)

// OrphanSweeper removes files from the local content root that no item
// references, such as uploads left behind by a failed release.
type OrphanSweeper struct {
	items  domain.ItemRepository
	local  *attachment.LocalStore
	grace  time.Duration
	logger *slog.Logger
	cron   *cron.Cron
}

// NewOrphanSweeper creates a sweeper that ignores files younger than grace,
// so uploads whose item row is still being written survive.
func NewOrphanSweeper(items domain.ItemRepository, local *attachment.LocalStore, grace time.Duration, logger *slog.Logger) *OrphanSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrphanSweeper{items: items, local: local, grace: grace, logger: logger}
}

// Sweep removes unreferenced files and returns how many it removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	images, err := s.items.ListImages(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced images: %w", err)
	}
	referenced := make(map[string]bool, len(images))
	for _, image := range images {
		referenced[image] = true
	}

	files, err := s.local.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list content root: %w", err)
	}

	cutoff := time.Now().Add(-s.grace)
	removed := 0
	for _, f := range files {
		if referenced[f.Name] || f.ModTime.After(cutoff) {
			continue
		}
		if err := s.local.Remove(ctx, f.Name); err != nil {
			s.logger.Warn("remove orphaned attachment", "file", f.Name, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Start runs Sweep on the given cron schedule ("@hourly", "0 3 * * *").
func (s *OrphanSweeper) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.run); err != nil {
		return fmt.Errorf("schedule orphan sweep %q: %w", schedule, err)
	}
	s.cron = c
	c.Start()
	return nil
}

// Stop waits for a running sweep to finish and stops the schedule.
func (s *OrphanSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *OrphanSweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("orphan sweep", "error", err)
		return
	}
	s.logger.Info("orphan sweep finished", "removed", removed)
}
