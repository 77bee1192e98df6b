package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/pkg/export"
)

type womReader interface {
	GroupDetails(ctx context.Context, groupID int) (*models.WOMGroup, error)
	GroupCompetitions(ctx context.Context, groupID int) ([]models.WOMCompetition, error)
	CompetitionDetails(ctx context.Context, competitionID int) (*models.WOMCompetitionDetails, error)
}

// GroupService reads clan statistics from the Wise Old Man gateway for the
// configured group, caching responses and exposing roster/competition
// exports.
type GroupService struct {
	wom     womReader
	cache   *CacheService
	metrics *MetricsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	groupID int
	ttl     time.Duration
	logger  *zap.Logger
}

// NewGroupService constructs the group service.
func NewGroupService(wom womReader, cache *CacheService, metrics *MetricsService, groupID int, ttl time.Duration, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{
		wom:     wom,
		cache:   cache,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		groupID: groupID,
		ttl:     ttl,
		logger:  logger,
	}
}

// Group returns the configured group's details and whether the cache was hit.
func (s *GroupService) Group(ctx context.Context) (*models.WOMGroup, bool, error) {
	cacheKey := fmt.Sprintf("wom:group:%d", s.groupID)
	if s.cache != nil {
		var cached models.WOMGroup
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	group, err := s.fetchGroup(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, group, s.ttl)
	}
	return group, false, nil
}

// Competitions returns the group's competition list.
func (s *GroupService) Competitions(ctx context.Context) ([]models.WOMCompetition, bool, error) {
	cacheKey := fmt.Sprintf("wom:group:%d:competitions", s.groupID)
	if s.cache != nil {
		var cached []models.WOMCompetition
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	start := time.Now()
	competitions, err := s.wom.GroupCompetitions(ctx, s.groupID)
	if s.metrics != nil {
		s.metrics.ObserveGatewayCall("wom", err, time.Since(start))
	}
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, competitions, s.ttl)
	}
	return competitions, false, nil
}

// Competition returns one competition with ranked participants.
func (s *GroupService) Competition(ctx context.Context, competitionID int) (*models.WOMCompetitionDetails, bool, error) {
	cacheKey := fmt.Sprintf("wom:competition:%d", competitionID)
	if s.cache != nil {
		var cached models.WOMCompetitionDetails
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	start := time.Now()
	details, err := s.wom.CompetitionDetails(ctx, competitionID)
	if s.metrics != nil {
		s.metrics.ObserveGatewayCall("wom", err, time.Since(start))
	}
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, details, s.ttl)
	}
	return details, false, nil
}

// MembersCSV renders the clan roster as CSV.
func (s *GroupService) MembersCSV(ctx context.Context) ([]byte, error) {
	group, _, err := s.Group(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"Player", "Role", "EHP", "EHB"}}
	for _, membership := range group.Memberships {
		data.Rows = append(data.Rows, map[string]string{
			"Player": membership.Player.DisplayName,
			"Role":   membership.Role,
			"EHP":    fmt.Sprintf("%.2f", membership.Player.EHP),
			"EHB":    fmt.Sprintf("%.2f", membership.Player.EHB),
		})
	}
	return s.csv.Render(data)
}

// CompetitionPDF renders a competition's standings as a tabular PDF.
func (s *GroupService) CompetitionPDF(ctx context.Context, competitionID int) ([]byte, string, error) {
	details, _, err := s.Competition(ctx, competitionID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{Headers: []string{"Rank", "Player", "Gained"}}
	for _, participant := range details.Ranked() {
		data.Rows = append(data.Rows, map[string]string{
			"Rank":   fmt.Sprintf("%d", participant.Rank),
			"Player": participant.Player.DisplayName,
			"Gained": fmt.Sprintf("%.0f", participant.Progress.Gained),
		})
	}

	payload, err := s.pdf.Render(data, details.Title)
	if err != nil {
		return nil, "", err
	}
	return payload, details.Title, nil
}

// WarmGroupCache refreshes the cached group details. Used by the periodic
// stats refresher.
func (s *GroupService) WarmGroupCache(ctx context.Context) error {
	group, err := s.fetchGroup(ctx)
	if err != nil {
		return err
	}
	if s.cache != nil {
		return s.cache.Set(ctx, fmt.Sprintf("wom:group:%d", s.groupID), group, s.ttl)
	}
	return nil
}

func (s *GroupService) fetchGroup(ctx context.Context) (*models.WOMGroup, error) {
	start := time.Now()
	group, err := s.wom.GroupDetails(ctx, s.groupID)
	if s.metrics != nil {
		s.metrics.ObserveGatewayCall("wom", err, time.Since(start))
	}
	if err != nil {
		s.logger.Warn("group details fetch failed", zap.Int("group_id", s.groupID), zap.Error(err))
		return nil, err
	}
	return group, nil
}
