package httpapi

import (
	"net/http"

	"itembuildup/internal/items"

	"github.com/gin-gonic/gin"
)

func actor(c *gin.Context) (items.Actor, bool) {
	me, ok := caller(c)
	if !ok {
		return items.Actor{}, false
	}
	return items.Actor{EmployeeID: me.EmployeeID, AccountType: me.AccountType}, true
}

// CreateItem stores a submitted build-up form under the caller's employee id.
func (h Handlers) CreateItem(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	var form items.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	it, err := h.Items.Create(c.Request.Context(), who, form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item created successfully.", "item": it})
}

// GetItems lists items, filtered by ?state= when given.
func (h Handlers) GetItems(c *gin.Context) {
	list, err := h.Items.List(c.Request.Context(), c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) UpdateItem(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	var form items.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}

	it, err := h.Items.Update(c.Request.Context(), who, form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully.", "item": it})
}
