package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/middleware"
	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// AnalyticsHandler exposes dashboard-ready analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview godoc
// @Summary Full analytics snapshot
// @Description Merit list, class rankings and trend for a scope, cached per scope
// @Tags Analytics
// @Produce json
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 200 {object} response.Envelope
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	snapshot, cacheHit, err := h.analytics.Overview(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, snapshot, nil, meta)
}

// Regenerate godoc
// @Summary Force recomputation of a scope
// @Description Clear the analytics cache and rebuild the snapshot from source records
// @Tags Analytics
// @Produce json
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 200 {object} response.Envelope
// @Router /analytics/regenerate [post]
func (h *AnalyticsHandler) Regenerate(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	snapshot, err := h.analytics.Regenerate(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, false)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, snapshot, nil, meta)
}

// StoreSnapshot godoc
// @Summary Persist a snapshot to the durable tier
// @Tags Analytics
// @Produce json
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 201 {object} response.Envelope
// @Router /analytics/snapshots [post]
func (h *AnalyticsHandler) StoreSnapshot(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	snapshot, err := h.analytics.StoreSnapshot(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snapshot)
}

// StoredSnapshot godoc
// @Summary Read the durable snapshot for a scope
// @Tags Analytics
// @Produce json
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/snapshots [get]
func (h *AnalyticsHandler) StoredSnapshot(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	stored, err := h.analytics.LoadStoredSnapshot(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stored, nil)
}

// DeleteStoredSnapshot godoc
// @Summary Remove the durable snapshot for a scope
// @Tags Analytics
// @Produce json
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /analytics/snapshots [delete]
func (h *AnalyticsHandler) DeleteStoredSnapshot(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.analytics.DeleteStoredSnapshot(c.Request.Context(), c.Query("scope")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClassStatistics godoc
// @Summary Per-class descriptive statistics
// @Description Mean, median, mode and standard deviation per class for a scope
// @Tags Analytics
// @Produce json
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 200 {object} response.Envelope
// @Router /analytics/statistics [get]
func (h *AnalyticsHandler) ClassStatistics(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, err := h.analytics.ClassStatistics(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, stats, nil, meta)
}

// ClassTrend godoc
// @Summary Score-over-time trend for one class
// @Tags Analytics
// @Produce json
// @Param label path string true "Class label"
// @Success 200 {object} response.Envelope
// @Router /analytics/classes/{label}/trend [get]
func (h *AnalyticsHandler) ClassTrend(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	trend, err := h.analytics.ClassTrend(c.Request.Context(), c.Param("label"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trend, nil)
}

// Dashboard godoc
// @Summary Dashboard totals
// @Description Entity counts and the school-wide average
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	totals, err := h.analytics.DashboardTotals(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, totals, nil, meta)
}

// System godoc
// @Summary Instrumentation metrics snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	metrics := h.analytics.SystemMetrics()
	response.JSON(c, http.StatusOK, metrics, nil)
}
