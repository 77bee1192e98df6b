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

type hiscoresProvider interface {
	Hiscores(ctx context.Context, rsn string) (models.Hiscores, error)
}

// HiscoresService looks up synthesized player hiscores, caching results per
// player name. An empty table from the gateway is a soft "player not found",
// not a transport failure.
type HiscoresService struct {
	gateway hiscoresProvider
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewHiscoresService constructs the hiscores service.
func NewHiscoresService(gateway hiscoresProvider, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *HiscoresService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HiscoresService{gateway: gateway, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Lookup returns the player's skill table and whether the cache was hit.
func (s *HiscoresService) Lookup(ctx context.Context, rsn string) (models.Hiscores, bool, error) {
	rsn = strings.TrimSpace(rsn)
	if rsn == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "player name is required")
	}

	cacheKey := "hiscores:" + strings.ToLower(rsn)
	if s.cache != nil {
		var cached models.Hiscores
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	hiscores, err := s.gateway.Hiscores(ctx, rsn)
	if s.metrics != nil {
		s.metrics.ObserveGatewayCall("gemini", err, time.Since(start))
	}
	if err != nil {
		s.logger.Warn("hiscores lookup failed", zap.String("rsn", rsn), zap.Error(err))
		return nil, false, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("failed to fetch hiscores for %s", rsn))
	}

	if len(hiscores) == 0 {
		return nil, false, appErrors.Clone(appErrors.ErrPlayerNotFound, fmt.Sprintf("no stats found for %q, the player might not exist", rsn))
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, hiscores, s.ttl)
	}
	return hiscores, false, nil
}
