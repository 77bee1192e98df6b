package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/middleware"
	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
	"github.com/varrock/clanhall-api/pkg/response"
)

type eventService interface {
	List() []models.Event
	Create(ctx context.Context, req dto.CreateEventRequest) (*models.Event, string, error)
	ToggleSignup(eventID string) (*models.Event, error)
	SetReminder(ctx context.Context, eventID string, minutes *int) (*models.Event, error)
	ICS() string
}

// EventHandler wires the event service to HTTP endpoints.
type EventHandler struct {
	service eventService
}

// NewEventHandler constructs the handler.
func NewEventHandler(service eventService) *EventHandler {
	return &EventHandler{service: service}
}

// List godoc
// @Summary List clan events, soonest first
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List())
}

// Create godoc
// @Summary Schedule a clan event
// @Tags Events
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload"))
		return
	}

	event, warning, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetWarning(c, warning)
	response.JSON(c, http.StatusCreated, event, middleware.ExtractMeta(c))
}

// ToggleSignup godoc
// @Summary Toggle the current user's signup for an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/signup [post]
func (h *EventHandler) ToggleSignup(c *gin.Context) {
	event, err := h.service.ToggleSignup(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// SetReminder godoc
// @Summary Set or clear an event's reminder lead time
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.SetReminderRequest true "Reminder"
// @Success 200 {object} response.Envelope
// @Router /events/{id}/reminder [put]
func (h *EventHandler) SetReminder(c *gin.Context) {
	var req dto.SetReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reminder payload"))
		return
	}

	event, err := h.service.SetReminder(c.Request.Context(), c.Param("id"), req.Minutes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Calendar godoc
// @Summary Events as an iCalendar feed
// @Tags Events
// @Produce text/calendar
// @Success 200 {string} string "ics"
// @Router /events/calendar.ics [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="clan-events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(h.service.ICS()))
}
