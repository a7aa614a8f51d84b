package items

import (
	"net/http"
	"strconv"

	"procurement/pkg/auditlog"
	custom_error "procurement/pkg/errors"
	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	repository ItemRepository
	auditLog   *auditlog.Auditlog
}

func NewItemHandler(repository ItemRepository, auditLog *auditlog.Auditlog) *ItemHandler {
	return &ItemHandler{repository: repository, auditLog: auditLog}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/items", security.Authorize("staff"), h.getItems)
	router.GET("/items/:id", security.Authorize("staff"), h.getItem)
	router.POST("/items", security.Authorize("manager"), h.createItem)
	router.PATCH("/items/:id", security.Authorize("manager"), h.updateItem)
	router.DELETE("/items/:id", security.Authorize("manager"), h.deleteItem)
}

func (h *ItemHandler) getItems(c *gin.Context) {
	lowStockOnly := c.Query("low_stock") == "true"

	items, err := h.repository.GetItems(lowStockOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) getItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.repository.GetItem(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) createItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	itemID, err := h.repository.PersistItem(req)
	if err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("item", itemID, "create", &actorID, map[string]interface{}{"new": req})

	item, err := h.repository.GetItem(itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get created item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) updateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	old, err := h.repository.GetItem(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "details": err.Error()})
		return
	}

	if err := h.repository.UpdateItem(id, req); err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item", "details": err.Error()})
		return
	}

	item, err := h.repository.GetItem(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated item", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("item", id, "update", &actorID, map[string]interface{}{"old": old, "new": item})

	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) deleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	old, err := h.repository.GetItem(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found", "details": err.Error()})
		return
	}

	if err := h.repository.DeleteItem(id); err != nil {
		if custom_error.IsForeignKeyViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Item is referenced by requisitions or transactions"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)
	h.auditLog.Log("item", id, "delete", &actorID, map[string]interface{}{"old": old})

	c.Status(http.StatusNoContent)
}
