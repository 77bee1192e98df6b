package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/internal/store"
	"github.com/varrock/clanhall-api/pkg/config"
)

type memberCounter interface {
	Group(ctx context.Context) (*models.WOMGroup, bool, error)
}

// DashboardService composes the landing-channel summary from the stores and
// the guild-statistics gateway. The composed payload is cached briefly; a
// failing gateway degrades to a zero member count rather than failing the
// whole dashboard.
type DashboardService struct {
	events *store.EventStore
	drops  *store.DropStore
	feed   *store.FeedStore
	group  memberCounter
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	clan   config.ClanConfig
	cfg    config.DashboardConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(events *store.EventStore, drops *store.DropStore, feed *store.FeedStore, group memberCounter, cache *CacheService, clan config.ClanConfig, cfg config.DashboardConfig, logger *zap.Logger) *DashboardService {
	if cfg.UpcomingEventsMax <= 0 {
		cfg.UpcomingEventsMax = 3
	}
	if cfg.RecentDropsMax <= 0 {
		cfg.RecentDropsMax = 4
	}
	if cfg.RecentFeedMax <= 0 {
		cfg.RecentFeedMax = 10
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		events: events,
		drops:  drops,
		feed:   feed,
		group:  group,
		cache:  cache,
		logger: logger,
		now:    time.Now,
		clan:   clan,
		cfg:    cfg,
	}
}

// Summary returns the dashboard payload and whether the cache was hit.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	const cacheKey = "dash:summary"
	if s.cache != nil {
		var cached dto.DashboardResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	summary := &dto.DashboardResponse{
		ClanName:       s.clan.Name,
		CurrentUser:    s.clan.CurrentUser,
		UpcomingEvents: s.upcomingEvents(),
		RecentDrops:    s.recentDrops(),
		Feed:           s.recentFeed(),
	}

	if s.group != nil {
		if group, _, err := s.group.Group(ctx); err != nil {
			s.logger.Warn("member count unavailable for dashboard", zap.Error(err))
		} else {
			summary.MemberCount = group.MemberCount
		}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, summary, s.cfg.CacheTTL)
	}
	return summary, false, nil
}

func (s *DashboardService) upcomingEvents() []models.Event {
	now := s.now().UTC()
	upcoming := make([]models.Event, 0, s.cfg.UpcomingEventsMax)
	for _, event := range s.events.List() {
		if !event.StartsAt.After(now) {
			continue
		}
		upcoming = append(upcoming, event)
		if len(upcoming) == s.cfg.UpcomingEventsMax {
			break
		}
	}
	return upcoming
}

func (s *DashboardService) recentDrops() []models.Drop {
	drops := s.drops.List()
	if len(drops) > s.cfg.RecentDropsMax {
		drops = drops[:s.cfg.RecentDropsMax]
	}
	return drops
}

func (s *DashboardService) recentFeed() []models.FeedEntry {
	entries := s.feed.List()
	if len(entries) > s.cfg.RecentFeedMax {
		entries = entries[:s.cfg.RecentFeedMax]
	}
	return entries
}
