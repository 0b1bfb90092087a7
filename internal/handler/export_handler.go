package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gradebook-api/internal/service"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// ExportHandler streams rendered analytics exports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs the export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

func (h *ExportHandler) stream(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	if file.DownloadToken != "" {
		c.Header("X-Archive-Token", file.DownloadToken)
	}
	c.Data(200, file.ContentType, file.Data)
}

// Archived godoc
// @Summary Download a previously archived export
// @Tags Exports
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/archive [get]
func (h *ExportHandler) Archived(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	file, err := h.service.OpenArchived(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, file)
}

// MeritListCSV godoc
// @Summary Export the merit list as CSV
// @Tags Exports
// @Produce text/csv
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 200 {file} file
// @Router /exports/merit-list.csv [get]
func (h *ExportHandler) MeritListCSV(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.service.MeritListCSV(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, file)
}

// ClassRankingsPDF godoc
// @Summary Export class standings as PDF
// @Tags Exports
// @Produce application/pdf
// @Param scope query string false "Scope: all or a week ID" default(all)
// @Success 200 {file} file
// @Router /exports/class-rankings.pdf [get]
func (h *ExportHandler) ClassRankingsPDF(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	file, err := h.service.ClassRankingsPDF(c.Request.Context(), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, file)
}
