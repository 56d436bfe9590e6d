package handler

import (
	"context"
	"fmt"
	"net/http"

	"flavoradmin/internal/middleware"
	"flavoradmin/internal/model"
	"flavoradmin/internal/service"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup, guard *middleware.Guard) {
	exports := router.Group("/export", guard.RequireAuth(), guard.RequirePermission(model.PermExportData))
	{
		exports.GET("/flavors", h.ExportFlavors)
		exports.GET("/stocks", h.ExportStocks)
	}
}

// ExportFlavors downloads the flavor catalog as csv or xlsx
// @Summary      Export flavors
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Param        format  query  string  true  "csv or xlsx"
// @Success      200     {file}  file
// @Failure      400     {object}  response.Response
// @Router       /export/flavors [get]
func (h *ExportHandler) ExportFlavors(c *gin.Context) {
	h.export(c, "flavors", h.exportService.FlavorsCSV, h.exportService.FlavorsXLSX)
}

func (h *ExportHandler) ExportStocks(c *gin.Context) {
	h.export(c, "stocks", h.exportService.StocksCSV, h.exportService.StocksXLSX)
}

func (h *ExportHandler) export(
	c *gin.Context,
	name string,
	csvFn func(ctx context.Context) ([]byte, error),
	xlsxFn func(ctx context.Context) ([]byte, error),
) {
	format := c.Query("format")

	var (
		payload     []byte
		contentType string
		ext         string
		err         error
	)
	switch format {
	case "csv":
		payload, err = csvFn(c.Request.Context())
		contentType, ext = "text/csv", "csv"
	case "xlsx":
		payload, err = xlsxFn(c.Request.Context())
		contentType, ext = xlsxMIME, "xlsx"
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "format must be csv or xlsx"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", name, ext))
	c.Data(http.StatusOK, contentType, payload)
}
