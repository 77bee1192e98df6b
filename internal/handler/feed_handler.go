package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/pkg/response"
)

type feedStore interface {
	List() []models.FeedEntry
}

// FeedHandler serves the merged activity feed.
type FeedHandler struct {
	feed feedStore
}

func NewFeedHandler(feed feedStore) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// List godoc
// @Summary Combined event and drop activity, newest first
// @Tags Feed
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /feed [get]
func (h *FeedHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.feed.List())
}
