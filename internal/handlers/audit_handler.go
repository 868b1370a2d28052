package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/internal/services"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	audits  *services.AuditService
	exports *services.ExportService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audits *services.AuditService, exports *services.ExportService) *AuditHandler {
	return &AuditHandler{audits: audits, exports: exports}
}

func auditFilterFrom(c *gin.Context) repository.AuditFilter {
	filter := repository.AuditFilter{
		ActionType: c.Query("action_type"),
		TargetType: c.Query("target_type"),
	}
	if v, err := strconv.ParseUint(c.Query("actor_id"), 10, 32); err == nil {
		filter.ActorID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("target_id"), 10, 32); err == nil {
		filter.TargetID = uint(v)
	}
	return filter
}

// List godoc
// @Summary List audit records
// @Description Returns moderation decisions newest first, optionally
// @Description filtered by action type, actor or target.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param action_type query string false "Action type filter"
// @Param actor_id query int false "Actor filter"
// @Param target_id query int false "Target filter"
// @Param target_type query string false "Target type filter"
// @Param limit query int false "Row cap, default 100"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit := 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 1000 {
		limit = v
	}

	logs, err := h.audits.List(c.Request.Context(), auditFilterFrom(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}

// Export godoc
// @Summary Export audit records
// @Description Downloads the filtered audit trail as csv, xlsx or pdf.
// @Tags admin
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string true "csv, xlsx or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/audit/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	filter := auditFilterFrom(c)
	format := c.DefaultQuery("format", "csv")
	filename := fmt.Sprintf("audit_%s.%s", time.Now().Format("20060102_150405"), format)

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		contentType = "text/csv"
		data, err = h.exports.ExportCSV(c.Request.Context(), filter)
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		data, err = h.exports.ExportXLSX(c.Request.Context(), filter)
	case "pdf":
		contentType = "application/pdf"
		data, err = h.exports.ExportPDF(c.Request.Context(), filter)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支援的匯出格式", "code": services.CodeValidation})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
