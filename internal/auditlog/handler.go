package auditlog

import (
	"net/http"
	"strconv"

	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repository *AuditLogRepository
}

func NewHandler(repository *AuditLogRepository) *Handler {
	return &Handler{repository: repository}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs", security.Authorize("admin"), h.getLogs)
}

func (h *Handler) getLogs(c *gin.Context) {
	filter := LogFilter{
		ResourceType: c.Query("resource_type"),
		Action:       c.Query("action"),
		Limit:        50,
	}

	if raw := c.Query("resource_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource_id format"})
			return
		}
		filter.ResourceID = &id
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit format"})
			return
		}
		filter.Limit = limit
	}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset format"})
			return
		}
		filter.Offset = offset
	}

	logs, err := h.repository.GetLogs(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
