package departments

import (
	"net/http"
	"strconv"

	"procurement/pkg/auditlog"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"
	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	repository DepartmentRepository
	auditLog   *auditlog.Auditlog
}

func NewHandler(repository DepartmentRepository, auditLog *auditlog.Auditlog) *DepartmentHandler {
	return &DepartmentHandler{repository: repository, auditLog: auditLog}
}

func (h *DepartmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/departments", security.Authorize("staff"), h.getDepartments)
	router.GET("/departments/:id", security.Authorize("staff"), h.getDepartment)
	router.POST("/departments", security.Authorize("admin"), h.createDepartment)
	router.PUT("/departments/:id", security.Authorize("admin"), h.updateDepartment)
	router.DELETE("/departments/:id", security.Authorize("admin"), h.deleteDepartment)
}

func (h *DepartmentHandler) getDepartments(c *gin.Context) {
	departments, err := h.repository.GetDepartments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get departments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, departments)
}

func (h *DepartmentHandler) getDepartment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	department, err := h.repository.GetDepartment(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, department)
}

func (h *DepartmentHandler) createDepartment(c *gin.Context) {
	var req models.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	department, err := h.repository.PersistDepartment(req)
	if err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Department name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("department", department.ID, "create", &actorID, map[string]interface{}{"new": department})

	c.JSON(http.StatusCreated, department)
}

func (h *DepartmentHandler) updateDepartment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	var req models.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	old, err := h.repository.GetDepartment(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found", "details": err.Error()})
		return
	}

	if err := h.repository.UpdateDepartment(id, req); err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Department name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update department", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("department", id, "update", &actorID, map[string]interface{}{"old": old, "new": req})

	department, err := h.repository.GetDepartment(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated department", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, department)
}

func (h *DepartmentHandler) deleteDepartment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	old, err := h.repository.GetDepartment(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found", "details": err.Error()})
		return
	}

	if err := h.repository.DeleteDepartment(id); err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Department is referenced by other resources"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete department", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("department", id, "delete", &actorID, map[string]interface{}{"old": old})

	c.Status(http.StatusNoContent)
}
