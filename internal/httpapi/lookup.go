package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h Handlers) GetNavigation(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	items, err := h.Lookup.Navigation(c.Request.Context(), me.AccountType, c.Param("userType"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h Handlers) GetCompanies(c *gin.Context) {
	list, err := h.Lookup.Companies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetDropdownOptions backs the item form's select fields.
func (h Handlers) GetDropdownOptions(c *gin.Context) {
	opts, err := h.Lookup.Dropdown(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}
