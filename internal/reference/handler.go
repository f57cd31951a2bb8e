package reference

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Refresh serves POST /references/refresh: the cached lists are dropped and
// fetched again from the API.
func (h *Handler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	h.catalog.Invalidate(ctx)

	data, err := h.catalog.Load(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, data)
}
