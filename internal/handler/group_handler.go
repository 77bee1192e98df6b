package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/varrock/clanhall-api/internal/middleware"
	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
	"github.com/varrock/clanhall-api/pkg/response"
)

type groupService interface {
	Group(ctx context.Context) (*models.WOMGroup, bool, error)
	Competitions(ctx context.Context) ([]models.WOMCompetition, bool, error)
	Competition(ctx context.Context, competitionID int) (*models.WOMCompetitionDetails, bool, error)
	MembersCSV(ctx context.Context) ([]byte, error)
	CompetitionPDF(ctx context.Context, competitionID int) ([]byte, string, error)
}

// GroupHandler serves Wise Old Man group data for the clan.
type GroupHandler struct {
	service groupService
}

func NewGroupHandler(service groupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// Group godoc
// @Summary Clan group details from Wise Old Man
// @Tags Group
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /group [get]
func (h *GroupHandler) Group(c *gin.Context) {
	start := time.Now()

	group, cacheHit, err := h.service.Group(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, group, meta)
}

// MembersCSV godoc
// @Summary Clan roster as a CSV download
// @Tags Group
// @Produce text/csv
// @Success 200 {string} string "csv"
// @Router /group/members.csv [get]
func (h *GroupHandler) MembersCSV(c *gin.Context) {
	data, err := h.service.MembersCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="clan-members.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Competitions godoc
// @Summary Competitions the clan is part of
// @Tags Group
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /group/competitions [get]
func (h *GroupHandler) Competitions(c *gin.Context) {
	start := time.Now()

	competitions, cacheHit, err := h.service.Competitions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, competitions, meta)
}

// Competition godoc
// @Summary Competition standings
// @Tags Group
// @Produce json
// @Param id path int true "Competition ID"
// @Success 200 {object} response.Envelope
// @Router /group/competitions/{id} [get]
func (h *GroupHandler) Competition(c *gin.Context) {
	competitionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "competition id must be numeric"))
		return
	}

	start := time.Now()
	details, cacheHit, err := h.service.Competition(c.Request.Context(), competitionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, details, meta)
}

// CompetitionPDF godoc
// @Summary Competition standings as a PDF download
// @Tags Group
// @Produce application/pdf
// @Param id path int true "Competition ID"
// @Success 200 {string} string "pdf"
// @Router /group/competitions/{id}/standings.pdf [get]
func (h *GroupHandler) CompetitionPDF(c *gin.Context) {
	competitionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "competition id must be numeric"))
		return
	}

	data, title, err := h.service.CompetitionPDF(c.Request.Context(), competitionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
