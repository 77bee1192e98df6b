package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type gearProvider interface {
	GearSetups(ctx context.Context, bossName string) (*models.BossSetups, error)
}

// GearService looks up recommended boss loadouts, caching per boss name.
type GearService struct {
	gateway gearProvider
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewGearService constructs the gear service.
func NewGearService(gateway gearProvider, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *GearService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GearService{gateway: gateway, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Lookup returns the three setups for a boss and whether the cache was hit.
func (s *GearService) Lookup(ctx context.Context, bossName string) (*models.BossSetups, bool, error) {
	bossName = strings.TrimSpace(bossName)
	if bossName == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "boss name is required")
	}

	cacheKey := "gear:" + strings.ToLower(bossName)
	if s.cache != nil {
		var cached models.BossSetups
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	start := time.Now()
	setups, err := s.gateway.GearSetups(ctx, bossName)
	if s.metrics != nil {
		s.metrics.ObserveGatewayCall("gemini", err, time.Since(start))
	}
	if err != nil {
		s.logger.Warn("gear lookup failed", zap.String("boss", bossName), zap.Error(err))
		return nil, false, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("failed to fetch gear setups for %s", bossName))
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, setups, s.ttl)
	}
	return setups, false, nil
}
