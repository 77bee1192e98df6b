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

type gearService interface {
	Lookup(ctx context.Context, boss string) (*models.BossSetups, bool, error)
}

// GearHandler serves boss gear recommendations.
type GearHandler struct {
	service gearService
}

func NewGearHandler(service gearService) *GearHandler {
	return &GearHandler{service: service}
}

// Lookup godoc
// @Summary Budget, mid-tier and max gear setups for a boss
// @Tags Gear
// @Produce json
// @Param boss path string true "Boss name"
// @Success 200 {object} response.Envelope
// @Router /gear/{boss} [get]
func (h *GearHandler) Lookup(c *gin.Context) {
	start := time.Now()

	setups, cacheHit, err := h.service.Lookup(c.Request.Context(), c.Param("boss"))
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, setups, meta)
}
