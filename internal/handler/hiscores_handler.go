package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/varrock/clanhall-api/internal/middleware"
	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/pkg/response"
)

type hiscoresService interface {
	Lookup(ctx context.Context, rsn string) (models.Hiscores, bool, error)
}

// HiscoresHandler serves player hiscores lookups.
type HiscoresHandler struct {
	service hiscoresService
}

func NewHiscoresHandler(service hiscoresService) *HiscoresHandler {
	return &HiscoresHandler{service: service}
}

// Lookup godoc
// @Summary Hiscores for a player name
// @Tags Hiscores
// @Produce json
// @Param rsn path string true "Player name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hiscores/{rsn} [get]
func (h *HiscoresHandler) Lookup(c *gin.Context) {
	start := time.Now()

	stats, cacheHit, err := h.service.Lookup(c.Request.Context(), c.Param("rsn"))
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, meta)
}
