package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type cacheWarmer interface {
	WarmGroupCache(ctx context.Context) error
}

// StatsRefresher periodically re-fetches the clan's guild statistics into
// the cache so the members channel stays warm between user visits.
type StatsRefresher struct {
	cron     *cron.Cron
	group    cacheWarmer
	schedule string
	logger   *zap.Logger
}

// NewStatsRefresher constructs the refresher with a cron schedule spec,
// e.g. "@every 10m".
func NewStatsRefresher(group cacheWarmer, schedule string, logger *zap.Logger) *StatsRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsRefresher{
		cron:     cron.New(),
		group:    group,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the refresh job and begins the cron loop.
func (r *StatsRefresher) Start() error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.group.WarmGroupCache(context.Background()); err != nil {
			r.logger.Warn("stats refresh failed", zap.Error(err))
			return
		}
		r.logger.Debug("stats cache refreshed")
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("stats refresher started", zap.String("schedule", r.schedule))
	return nil
}

// Stop halts the cron loop, waiting for a running refresh to finish.
func (r *StatsRefresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
