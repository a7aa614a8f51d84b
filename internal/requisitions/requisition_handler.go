package requisitions

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"
	"procurement/pkg/roles"
	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
)

// UserFetcher resolves the acting user, needed to scope staff reads to
// their own department.
type UserFetcher interface {
	GetUser(id int) (*models.User, error)
}

type RequisitionHandler struct {
	service *RequisitionService
	users   UserFetcher
}

func NewHandler(service *RequisitionService, users UserFetcher) *RequisitionHandler {
	return &RequisitionHandler{service: service, users: users}
}

// departmentScope returns the department the actor is confined to: nil for
// manager and above. The second return is false when the response has
// already been written.
func (h *RequisitionHandler) departmentScope(c *gin.Context) (*int, bool) {
	role, _ := security.GetRoleFromContext(c)
	if roles.Role(role).HasPermission(roles.Manager) {
		return nil, true
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return nil, false
	}

	user, err := h.users.GetUser(actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user", "details": err.Error()})
		return nil, false
	}
	if user.DepartmentID == nil {
		// staff without a department have no requisitions to see
		empty := 0
		return &empty, true
	}

	return user.DepartmentID, true
}

func (h *RequisitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/requisitions", security.Authorize("staff"), h.createRequisition)
	router.GET("/requisitions", security.Authorize("staff"), h.getRequisitions)
	router.GET("/requisitions/:id", security.Authorize("staff"), h.getRequisition)
	router.PATCH("/requisitions/:id/status", security.Authorize("manager"), h.changeStatus)
	router.POST("/requisitions/:id/fulfill", security.Authorize("manager"), h.fulfill)
	router.DELETE("/requisitions/:id", security.Authorize("staff"), h.deleteRequisition)
}

func (h *RequisitionHandler) createRequisition(c *gin.Context) {
	var req models.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	requisition, err := h.service.Create(req, actorID)
	if err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown department or item", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create requisition", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, requisition)
}

func (h *RequisitionHandler) getRequisitions(c *gin.Context) {
	filter := ListFilter{
		Status: c.Query("status"),
		Limit:  50,
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
	if raw := c.Query("department_id"); raw != "" {
		departmentID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department_id format"})
			return
		}
		filter.DepartmentID = &departmentID
	}

	// staff only see their own department, whatever the query says
	scope, ok := h.departmentScope(c)
	if !ok {
		return
	}
	if scope != nil {
		filter.DepartmentID = scope
	}

	requisitions, err := h.service.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get requisitions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requisitions)
}

func (h *RequisitionHandler) getRequisition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requisition ID"})
		return
	}

	requisition, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get requisition", "details": err.Error()})
		return
	}

	scope, ok := h.departmentScope(c)
	if !ok {
		return
	}
	if scope != nil && requisition.DepartmentID != *scope {
		// not revealed to other departments
		c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
		return
	}

	c.JSON(http.StatusOK, requisition)
}

func (h *RequisitionHandler) changeStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requisition ID"})
		return
	}

	var req models.RequisitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	requisition, err := h.service.ChangeStatus(id, req.Status, req.RejectionReason, actorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrReasonRequired), errors.Is(err, ErrNotPending):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, requisition)
}

func (h *RequisitionHandler) fulfill(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requisition ID"})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	result, err := h.service.Fulfill(c.Request.Context(), id, actorID)
	if err != nil {
		var insufficientErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
		case errors.Is(err, ErrNotApproved):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &insufficientErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Insufficient stock",
				"details": insufficientErr.Items,
			})
		case custom_error.IsRetryable(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transaction timeout, please try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fulfill requisition", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RequisitionHandler) deleteRequisition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requisition ID"})
		return
	}

	// staff may only delete what they created; managers and up may delete any
	// pending requisition
	role, _ := security.GetRoleFromContext(c)
	if !roles.Role(role).HasPermission(roles.Manager) {
		requisition, err := h.service.Get(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get requisition", "details": err.Error()})
			return
		}

		actorID, _ := security.GetUserIDFromContext(c)
		if requisition.CreatedByID != actorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to delete this requisition"})
			return
		}
	}

	if err := h.service.Delete(id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Requisition not found"})
		case errors.Is(err, ErrNotPendingDelete):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete requisition", "details": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
