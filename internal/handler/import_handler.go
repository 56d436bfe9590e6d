package handler

import (
	"errors"
	"io"
	"net/http"

	"flavoradmin/internal/middleware"
	"flavoradmin/internal/model"
	"flavoradmin/internal/service"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importService service.ImportService
	sweeper       *service.Sweeper
}

func NewImportHandler(importService service.ImportService, sweeper *service.Sweeper) *ImportHandler {
	return &ImportHandler{importService: importService, sweeper: sweeper}
}

func (h *ImportHandler) RegisterRoutes(router *gin.RouterGroup, guard *middleware.Guard) {
	imports := router.Group("/admin/import", guard.RequireAuth(), guard.RequirePermission(model.PermImportData))
	{
		imports.POST("", h.Upload)
		imports.GET("/status", h.SweepStatus)
		imports.GET("/:id", h.GetJob)
	}

	jobs := router.Group("/import-jobs", guard.RequireAuth(), guard.RequirePermission(model.PermImportData))
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id/errors", h.GetErrors)
	}
}

// Upload receives a CSV or XLSX file and queues it for background import
// @Summary      Queue an import
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file        formData  file    true  "CSV or XLSX file"
// @Param        entityType  formData  string  true  "flavors or stocks"
// @Success      201         {object}  response.Response{data=service.ImportJobResponse}
// @Failure      400         {object}  response.Response
// @Router       /admin/import [post]
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "missing file"))
		return
	}

	entityType := c.PostForm("entityType")

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "unreadable file"))
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "unreadable file"))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	job, err := h.importService.CreateJob(c.Request.Context(), actorID, entityType, fileHeader.Filename, content)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEntityType) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, job))
}

func (h *ImportHandler) GetJob(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	job, err := h.importService.GetJob(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

func (h *ImportHandler) ListJobs(c *gin.Context) {
	jobs, err := h.importService.ListJobs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, jobs))
}

func (h *ImportHandler) GetErrors(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	errs, err := h.importService.GetErrors(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, errs))
}

// SweepStatus exposes the background sweep's last run and failure counter
func (h *ImportHandler) SweepStatus(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.sweeper.Status()))
}
