package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
	"github.com/varrock/clanhall-api/pkg/response"
)

type dropService interface {
	List() []models.Drop
	Log(ctx context.Context, req dto.LogDropRequest) (*models.Drop, error)
}

// DropHandler exposes the drop log over HTTP.
type DropHandler struct {
	service dropService
}

func NewDropHandler(service dropService) *DropHandler {
	return &DropHandler{service: service}
}

// List godoc
// @Summary List logged drops, newest first
// @Tags Drops
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /drops [get]
func (h *DropHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List())
}

// Log godoc
// @Summary Record a drop
// @Tags Drops
// @Accept json
// @Produce json
// @Param request body dto.LogDropRequest true "Drop"
// @Success 201 {object} response.Envelope
// @Router /drops [post]
func (h *DropHandler) Log(c *gin.Context) {
	var req dto.LogDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid drop payload"))
		return
	}

	drop, err := h.service.Log(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, drop)
}
