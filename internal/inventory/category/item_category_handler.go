package category

import (
	"net/http"
	"strconv"

	custom_error "procurement/pkg/errors"
	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	repository CategoryRepository
}

func NewHandler(repository CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repository: repository}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", security.Authorize("staff"), h.getCategories)
	router.POST("/categories", security.Authorize("manager"), h.createCategory)
	router.PUT("/categories/:id", security.Authorize("manager"), h.updateCategory)
	router.DELETE("/categories/:id", security.Authorize("manager"), h.deleteCategory)
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) getCategories(c *gin.Context) {
	categories, err := h.repository.GetCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	category, err := h.repository.PersistCategory(req.Name)
	if err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) updateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.repository.UpdateCategory(id, req.Name); err != nil {
		if custom_error.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category name already exists"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to update category", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "name": req.Name})
}

func (h *CategoryHandler) deleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.repository.DeleteCategory(id); err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category is referenced by items"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to delete category", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
