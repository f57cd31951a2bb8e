package course

import (
	"alizia-planner/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Show serves GET /courses/:id?area_id=N.
func (h *Handler) Show(c *gin.Context) {
	courseID, err := utils.ParamID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	areaID, err := utils.QueryID(c, "area_id")
	if err != nil {
		c.Error(err)
		return
	}

	overview, err := h.service.GetOverview(c.Request.Context(), courseID, areaID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
