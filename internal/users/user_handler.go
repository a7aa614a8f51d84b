package users

import (
	"net/http"
	"strconv"

	"procurement/pkg/auditlog"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/models"
	"procurement/pkg/roles"
	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	Repository UserRepository
	auditLog   *auditlog.Auditlog
}

func NewHandler(r UserRepository, auditLog *auditlog.Auditlog) *UsersHandler {
	return &UsersHandler{
		Repository: r,
		auditLog:   auditLog,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", security.Authorize("admin"), h.RegisterUser)
	router.GET("/users", security.Authorize("manager"), h.GetUserList)
	router.GET("/users/:id", security.Authorize("staff"), h.GetUser)
	router.PATCH("/users/:id", security.Authorize("admin"), h.UpdateUser)
	router.DELETE("/users/:id", security.Authorize("admin"), h.DeleteUser)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if !roles.Role(req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	userID, err := h.Repository.PersistUser(req, hashedPassword)
	if err != nil {
		status := http.StatusInternalServerError
		if custom_error.IsUniqueViolation(err) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": "Failed to create user", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("user", userID, "create", &actorID, map[string]interface{}{
		"new": gin.H{"email": req.Email, "role": req.Role, "department_id": req.DepartmentID},
	})

	c.JSON(http.StatusCreated, gin.H{"id": userID, "message": "User registered successfully"})
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "details": err.Error()})
		return
	}

	changes := &models.UserChanges{}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
			return
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	if req.Role != nil && *req.Role != user.Role {
		if !roles.Role(*req.Role).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		changes.Role = req.Role
	}

	if req.Fullname != nil && *req.Fullname != user.Fullname {
		changes.Fullname = req.Fullname
	}

	if req.DepartmentID != nil {
		changes.DepartmentID = req.DepartmentID
	}

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(userID, changes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	updatedUser, err := h.Repository.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated user", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("user", userID, "update", &actorID, map[string]interface{}{
		"old": gin.H{"role": user.Role, "fullname": user.Fullname, "department_id": user.DepartmentID},
		"new": gin.H{"role": updatedUser.Role, "fullname": updatedUser.Fullname, "department_id": updatedUser.DepartmentID},
	})

	c.JSON(http.StatusOK, updatedUser)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	if !h.isAllowed(c, userID, "manager") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "details": "You are not allowed to access this resource"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UsersHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	if actorID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find user", "details": err.Error()})
		return
	}

	if err := h.Repository.DeleteUser(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user", "details": err.Error()})
		return
	}

	h.auditLog.Log("user", userID, "delete", &actorID, map[string]interface{}{
		"old": gin.H{"email": user.Email, "role": user.Role},
	})

	c.Status(http.StatusNoContent)
}

// isAllowed permits self-access or the given role.
func (h *UsersHandler) isAllowed(c *gin.Context, targetUserID int, requiredRole string) bool {
	actorID, err := security.GetUserIDFromContext(c)
	if err == nil && actorID == targetUserID {
		return true
	}

	role, err := security.GetRoleFromContext(c)
	if err != nil {
		return false
	}

	return roles.Role(role).HasPermission(roles.Role(requiredRole))
}
