package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/internal/store"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type itemImageResolver interface {
	ItemImage(ctx context.Context, itemName string) string
}

// DropService logs rare drops, resolving the item image through the AI
// gateway before storing.
type DropService struct {
	drops    *store.DropStore
	feed     *store.FeedStore
	images   itemImageResolver
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewDropService constructs the drop service.
func NewDropService(drops *store.DropStore, feed *store.FeedStore, images itemImageResolver, validate *validator.Validate, logger *zap.Logger) *DropService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DropService{
		drops:    drops,
		feed:     feed,
		images:   images,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns all logged drops, newest first.
func (s *DropService) List() []models.Drop {
	return s.drops.List()
}

// Log validates and stores a new drop at the head of the list, then
// prepends a feed entry. The image lookup never fails; the gateway falls
// back to a placeholder on any error.
func (s *DropService) Log(ctx context.Context, req dto.LogDropRequest) (*models.Drop, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload")
	}

	imageURL := s.images.ItemImage(ctx, req.ItemName)

	drop := s.drops.Add(store.NewDropParams{
		PlayerName: req.PlayerName,
		ItemName:   req.ItemName,
		Boss:       req.Boss,
		ImageURL:   imageURL,
	})
	s.feed.Prepend(models.NewDropFeedEntry(&drop, s.now().UTC()))

	s.logger.Info("drop logged",
		zap.String("drop_id", drop.ID),
		zap.String("item", drop.ItemName),
		zap.String("player", drop.PlayerName),
	)
	return &drop, nil
}
