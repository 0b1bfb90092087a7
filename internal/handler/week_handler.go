package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// WeekHandler exposes assessment week endpoints.
type WeekHandler struct {
	service *service.WeekService
}

// NewWeekHandler constructs the week handler.
func NewWeekHandler(svc *service.WeekService) *WeekHandler {
	return &WeekHandler{service: svc}
}

// List godoc
// @Summary List assessment weeks
// @Description Weeks in canonical term then week number order
// @Tags Weeks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /weeks [get]
func (h *WeekHandler) List(c *gin.Context) {
	weeks, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weeks, nil)
}

// Get godoc
// @Summary Get one week
// @Tags Weeks
// @Produce json
// @Param id path string true "Week ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /weeks/{id} [get]
func (h *WeekHandler) Get(c *gin.Context) {
	week, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Create godoc
// @Summary Open an assessment week
// @Tags Weeks
// @Accept json
// @Produce json
// @Param payload body service.CreateWeekRequest true "Week payload"
// @Success 201 {object} response.Envelope
// @Router /weeks [post]
func (h *WeekHandler) Create(c *gin.Context) {
	var req service.CreateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid week payload"))
		return
	}

	week, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, week)
}

// Delete godoc
// @Summary Delete a week and its marks
// @Tags Weeks
// @Param id path string true "Week ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /weeks/{id} [delete]
func (h *WeekHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
