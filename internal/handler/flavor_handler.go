package handler

import (
	"net/http"
	"strconv"

	"flavoradmin/internal/middleware"
	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	"flavoradmin/internal/service"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type FlavorHandler struct {
	flavorService service.FlavorService
}

func NewFlavorHandler(flavorService service.FlavorService) *FlavorHandler {
	return &FlavorHandler{flavorService: flavorService}
}

func (h *FlavorHandler) RegisterRoutes(router *gin.RouterGroup, guard *middleware.Guard) {
	flavors := router.Group("/flavors", guard.RequireAuth())
	{
		flavors.GET("", h.ListFlavors)
		flavors.POST("", guard.RequirePermission(model.PermImportData), h.CreateFlavor)
		flavors.PUT("/:id", guard.RequirePermission(model.PermImportData), h.UpdateFlavor)
		flavors.DELETE("/:id", guard.RequirePermission(model.PermDeleteFlavor), h.DeleteFlavor)
	}
}

// ListFlavors returns flavors filtered by brand, profile and name ordering
// @Summary      List flavors
// @Tags         flavors
// @Produce      json
// @Security     BearerAuth
// @Param        brandId  query     int     false  "Filter by brand"
// @Param        profile  query     string  false  "Filter by taste profile"
// @Param        sort     query     string  false  "name_asc or name_desc"
// @Success      200      {object}  response.Response{data=[]service.FlavorResponse}
// @Router       /flavors [get]
func (h *FlavorHandler) ListFlavors(c *gin.Context) {
	brandID, _ := strconv.ParseUint(c.Query("brandId"), 10, 64)
	filter := repository.FlavorFilter{
		BrandID: uint(brandID),
		Profile: c.Query("profile"),
		Sort:    c.Query("sort"),
	}

	flavors, err := h.flavorService.ListFlavors(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, flavors))
}

func (h *FlavorHandler) CreateFlavor(c *gin.Context) {
	var req service.CreateFlavorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	flavor, err := h.flavorService.CreateFlavor(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, flavor))
}

// UpdateFlavor applies a partial update; only supplied fields change
func (h *FlavorHandler) UpdateFlavor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req service.UpdateFlavorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	flavor, err := h.flavorService.UpdateFlavor(c.Request.Context(), actorID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, flavor))
}

func (h *FlavorHandler) DeleteFlavor(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	if err := h.flavorService.DeleteFlavor(c.Request.Context(), actorID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
