package handler

import (
	"errors"
	"net/http"
	"strconv"

	"flavoradmin/internal/middleware"
	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	"flavoradmin/internal/service"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup, guard *middleware.Guard) {
	requests := router.Group("/requests", guard.RequireAuth())
	{
		requests.GET("", guard.RequirePermission(model.PermViewRequests), h.ListRequests)
		requests.POST("", h.CreateRequest)
		requests.PUT("/:id", guard.RequirePermission(model.PermApproveRequests), h.UpdateRequest)
		requests.DELETE("/:id", guard.RequirePermission(model.PermApproveRequests), h.DeleteRequest)
	}
}

// ListRequests returns requests filtered by status and brand
// @Summary      List requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "pending, approved or rejected"
// @Param        brandId  query     int     false  "Requests touching a flavor of this brand"
// @Param        sort     query     string  false  "createdAt_asc or createdAt_desc"
// @Success      200      {object}  response.Response{data=[]service.RequestResponse}
// @Router       /requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	brandID, _ := strconv.ParseUint(c.Query("brandId"), 10, 64)
	filter := repository.RequestFilter{
		Status:  c.Query("status"),
		BrandID: uint(brandID),
		Sort:    c.Query("sort"),
	}

	requests, err := h.requestService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// CreateRequest opens a new approval request. Any authenticated user may
// submit one.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	result, err := h.requestService.CreateRequest(c.Request.Context(), actorID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// UpdateRequest resolves or amends a request. Approved and rejected
// requests no longer accept status changes.
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req service.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	result, err := h.requestService.UpdateRequest(c.Request.Context(), actorID, id, req)
	if err != nil {
		if errors.Is(err, service.ErrRequestClosed) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actorID, _ := middleware.CurrentUserID(c)
	if err := h.requestService.DeleteRequest(c.Request.Context(), actorID, id); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
