package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// MarkHandler exposes the marks entry workflow.
type MarkHandler struct {
	service *service.MarkService
}

// NewMarkHandler constructs the mark handler.
func NewMarkHandler(svc *service.MarkService) *MarkHandler {
	return &MarkHandler{service: svc}
}

// Sheet godoc
// @Summary Marks entry sheet
// @Description Class roster for a week with stored scores and the caller's pending edits
// @Tags Marks
// @Produce json
// @Param week_id query string true "Week ID"
// @Param class query string false "Class label, ignored for teachers"
// @Success 200 {object} response.Envelope
// @Router /marks/sheet [get]
func (h *MarkHandler) Sheet(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sheet, err := h.service.Sheet(c.Request.Context(), actor, c.Query("week_id"), c.Query("class"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Stage godoc
// @Summary Stage a pending score
// @Description Record a score in the caller's entry session without persisting it
// @Tags Marks
// @Accept json
// @Produce json
// @Param payload body models.MarkEntry true "Mark entry"
// @Success 202 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /marks/stage [post]
func (h *MarkHandler) Stage(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var entry models.MarkEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mark payload"))
		return
	}

	if err := h.service.Stage(c.Request.Context(), actor, entry); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"staged": true}, nil)
}

// Discard godoc
// @Summary Discard a pending score
// @Tags Marks
// @Param student_id query string true "Student ID"
// @Param week_id query string true "Week ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /marks/stage [delete]
func (h *MarkHandler) Discard(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Discard(actor, c.Query("student_id"), c.Query("week_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Commit godoc
// @Summary Commit pending scores for a week
// @Description Flush the caller's staged scores for one week into storage
// @Tags Marks
// @Accept json
// @Produce json
// @Param payload body object true "Commit payload with week_id"
// @Success 200 {object} response.Envelope
// @Router /marks/commit [post]
func (h *MarkHandler) Commit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		WeekID string `json:"week_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "week_id is required"))
		return
	}

	count, err := h.service.Commit(c.Request.Context(), actor, payload.WeekID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"committed": count, "week_id": payload.WeekID}, nil)
}
