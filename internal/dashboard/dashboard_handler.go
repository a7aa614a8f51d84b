package dashboard

import (
	"net/http"

	"procurement/internal/transactions"
	"procurement/pkg/models"
	"procurement/pkg/roles"
	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type UserFetcher interface {
	GetUser(id int) (*models.User, error)
}

type Summary struct {
	Requisitions    map[string]int       `json:"requisitions"`
	ServiceRequests map[string]int       `json:"service_requests"`
	ItemCount       int                  `json:"item_count"`
	LowStockCount   int                  `json:"low_stock_count"`
	InventoryValue  decimal.Decimal      `json:"inventory_value"`
	RecentActivity  []models.Transaction `json:"recent_activity"`
}

type DashboardHandler struct {
	repository   *DashboardRepository
	transactions *transactions.TransactionRepository
	users        UserFetcher
}

func NewHandler(repository *DashboardRepository, transactionRepo *transactions.TransactionRepository, users UserFetcher) *DashboardHandler {
	return &DashboardHandler{repository: repository, transactions: transactionRepo, users: users}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", security.Authorize("staff"), h.getSummary)
}

func (h *DashboardHandler) getSummary(c *gin.Context) {
	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	// staff see counts for their own department only
	var departmentID *int
	role, _ := security.GetRoleFromContext(c)
	if !roles.Role(role).HasPermission(roles.Manager) {
		user, err := h.users.GetUser(actorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user", "details": err.Error()})
			return
		}
		departmentID = user.DepartmentID
	}

	requisitionCounts, err := h.repository.RequisitionCountsByStatus(departmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard", "details": err.Error()})
		return
	}

	serviceRequestCounts, err := h.repository.ServiceRequestCountsByStatus(departmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard", "details": err.Error()})
		return
	}

	itemCount, err := h.repository.ItemCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard", "details": err.Error()})
		return
	}

	lowStockCount, err := h.repository.LowStockCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard", "details": err.Error()})
		return
	}

	inventoryValue, err := h.repository.InventoryValue()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard", "details": err.Error()})
		return
	}

	recent, err := h.transactions.GetTransactions(transactions.ListFilter{Limit: 10})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, Summary{
		Requisitions:    requisitionCounts,
		ServiceRequests: serviceRequestCounts,
		ItemCount:       itemCount,
		LowStockCount:   lowStockCount,
		InventoryValue:  inventoryValue,
		RecentActivity:  recent,
	})
}
