package reports

import (
	"fmt"
	"net/http"
	"time"

	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler struct {
	service *Service
}

func NewHandler(service *Service) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports/inventory", security.Authorize("manager"), h.inventoryReport)
	router.GET("/reports/transactions", security.Authorize("manager"), h.transactionReport)
}

func (h *ReportHandler) inventoryReport(c *gin.Context) {
	lowStockOnly := c.Query("low_stock") == "true"

	report, err := h.service.BuildInventoryReport(lowStockOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build inventory report", "details": err.Error()})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, report)
	case "csv":
		data, err := inventoryCSV(report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report", "details": err.Error()})
			return
		}
		c.Header("Content-Disposition", attachment("inventory", "csv"))
		c.Data(http.StatusOK, contentTypeCSV, data)
	case "xlsx":
		data, err := inventoryXLSX(report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report", "details": err.Error()})
			return
		}
		c.Header("Content-Disposition", attachment("inventory", "xlsx"))
		c.Data(http.StatusOK, contentTypeXLSX, data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format, expected json, csv or xlsx"})
	}
}

func (h *ReportHandler) transactionReport(c *gin.Context) {
	var from, to *time.Time

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = &parsed
	}

	report, err := h.service.BuildTransactionReport(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build transaction report", "details": err.Error()})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, report)
	case "csv":
		data, err := transactionCSV(report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report", "details": err.Error()})
			return
		}
		c.Header("Content-Disposition", attachment("transactions", "csv"))
		c.Data(http.StatusOK, contentTypeCSV, data)
	case "xlsx":
		data, err := transactionXLSX(report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report", "details": err.Error()})
			return
		}
		c.Header("Content-Disposition", attachment("transactions", "xlsx"))
		c.Data(http.StatusOK, contentTypeXLSX, data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format, expected json, csv or xlsx"})
	}
}

func attachment(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s_report_%s.%s"`, name, time.Now().Format("2006-01-02"), ext)
}
