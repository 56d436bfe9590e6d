package handler

import (
	"net/http"

	"flavoradmin/internal/middleware"
	"flavoradmin/internal/model"
	"flavoradmin/internal/service"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup, guard *middleware.Guard) {
	stocks := router.Group("/stocks", guard.RequireAuth())
	{
		stocks.GET("", h.ListStocks)
		stocks.POST("", guard.RequirePermission(model.PermImportData), h.CreateStock)
		stocks.PUT("/:id", guard.RequirePermission(model.PermImportData), h.UpdateStock)
		stocks.DELETE("/:id", guard.RequirePermission(model.PermDeleteFlavor), h.DeleteStock)
	}
}

func (h *StockHandler) ListStocks(c *gin.Context) {
	stocks, err := h.stockService.ListStocks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stocks))
}

func (h *StockHandler) CreateStock(c *gin.Context) {
	var req service.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	stock, err := h.stockService.CreateStock(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, stock))
}

func (h *StockHandler) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req service.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	stock, err := h.stockService.UpdateStock(c.Request.Context(), actorID, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stock))
}

func (h *StockHandler) DeleteStock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	if err := h.stockService.DeleteStock(c.Request.Context(), actorID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
