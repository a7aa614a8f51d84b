package servicerequests

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

// Reader is the read-side slice of ServiceRequestRepository the handler
// queries directly.
type Reader interface {
	GetRequest(id int) (*models.ServiceRequest, error)
	GetRequests(status string, departmentID *int, limit, offset int) ([]models.ServiceRequest, error)
}

// UserFetcher resolves the acting user, needed to scope staff reads to
// their own department.
type UserFetcher interface {
	GetUser(id int) (*models.User, error)
}

type Handler struct {
	service    *Service
	repository Reader
	users      UserFetcher
}

func NewHandler(service *Service, repository Reader, users UserFetcher) *Handler {
	return &Handler{service: service, repository: repository, users: users}
}

// departmentScope returns the department the actor is confined to: nil for
// manager and above. The second return is false when the response has
// already been written.
func (h *Handler) departmentScope(c *gin.Context) (*int, bool) {
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
		// staff without a department have no service requests to see
		empty := 0
		return &empty, true
	}

	return user.DepartmentID, true
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	serviceRequests := router.Group("/service-requests")
	{
		serviceRequests.POST("", security.Authorize("staff"), h.createRequest)
		serviceRequests.GET("", security.Authorize("staff"), h.getRequests)
		serviceRequests.GET("/:id", security.Authorize("staff"), h.getRequest)
		serviceRequests.PATCH("/:id/status", security.Authorize("manager"), h.changeStatus)
		serviceRequests.PUT("/:id/assign", security.Authorize("manager"), h.assignRequest)
		serviceRequests.DELETE("/:id", security.Authorize("staff"), h.deleteRequest)
	}
}

func (h *Handler) createRequest(c *gin.Context) {
	var req models.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	request, err := h.service.CreateRequest(req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPriority):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case custom_error.IsForeignKeyViolation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown department"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service request", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *Handler) getRequests(c *gin.Context) {
	limit := 50
	offset := 0

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit format"})
			return
		}
		limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset format"})
			return
		}
		offset = parsed
	}

	var departmentID *int
	if raw := c.Query("department_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department_id format"})
			return
		}
		departmentID = &parsed
	}

	// staff only see their own department, whatever the query says
	scope, ok := h.departmentScope(c)
	if !ok {
		return
	}
	if scope != nil {
		departmentID = scope
	}

	requests, err := h.repository.GetRequests(c.Query("status"), departmentID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get service requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *Handler) getRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service request ID"})
		return
	}

	request, err := h.repository.GetRequest(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get service request", "details": err.Error()})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service request not found"})
		return
	}

	scope, ok := h.departmentScope(c)
	if !ok {
		return
	}
	if scope != nil && request.DepartmentID != *scope {
		// not revealed to other departments
		c.JSON(http.StatusNotFound, gin.H{"error": "Service request not found"})
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *Handler) changeStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service request ID"})
		return
	}

	var req models.ServiceRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	request, err := h.service.ChangeStatus(id, req.Status, req.RejectionReason, actorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service request not found"})
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrReasonRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change status", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *Handler) assignRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service request ID"})
		return
	}

	var req struct {
		AssignedToID int `json:"assigned_to_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	if err := h.service.AssignRequest(id, req.AssignedToID, actorID); err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service request not found"})
		case custom_error.IsForeignKeyViolation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign service request", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service request assigned"})
}

func (h *Handler) deleteRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service request ID"})
		return
	}

	if err := h.service.Delete(id); err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service request not found"})
		case errors.Is(err, ErrNotPendingDelete):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service request", "details": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
