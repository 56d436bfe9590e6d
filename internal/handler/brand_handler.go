package handler

import (
	"net/http"

	"flavoradmin/internal/middleware"
	"flavoradmin/internal/model"
	"flavoradmin/internal/service"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	brandService service.BrandService
}

func NewBrandHandler(brandService service.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

func (h *BrandHandler) RegisterRoutes(router *gin.RouterGroup, guard *middleware.Guard) {
	brands := router.Group("/brands", guard.RequireAuth())
	{
		brands.GET("", h.ListBrands)
		brands.POST("", guard.RequirePermission(model.PermImportData), h.CreateBrand)
		brands.DELETE("/:id", guard.RequirePermission(model.PermDeleteFlavor), h.DeleteBrand)
	}
}

func (h *BrandHandler) ListBrands(c *gin.Context) {
	brands, err := h.brandService.ListBrands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, brands))
}

func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var req service.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	brand, err := h.brandService.CreateBrand(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, brand))
}

func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	if err := h.brandService.DeleteBrand(c.Request.Context(), actorID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
