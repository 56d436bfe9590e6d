package handler

import (
	"net/http"
	"strconv"
	"time"

	"flavoradmin/internal/middleware"
	"flavoradmin/internal/model"
	"flavoradmin/internal/repository"
	"flavoradmin/internal/service"
	"flavoradmin/pkg/pagination"
	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup, guard *middleware.Guard) {
	router.GET("/audit-logs", guard.RequireAuth(), guard.RequirePermission(model.PermViewLogs), h.ListLogs)
}

// ListLogs returns filtered audit rows, newest first
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        entity  query     string  false  "Entity name"
// @Param        action  query     string  false  "CREATE, UPDATE or DELETE"
// @Param        userId  query     int     false  "Acting user"
// @Param        from    query     string  false  "RFC 3339 lower bound"
// @Param        to      query     string  false  "RFC 3339 upper bound"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response
// @Router       /audit-logs [get]
func (h *AuditHandler) ListLogs(c *gin.Context) {
	params := pagination.Parse(c)
	userID, _ := strconv.ParseUint(c.Query("userId"), 10, 64)

	filter := repository.AuditFilter{
		Entity: c.Query("entity"),
		Action: c.Query("action"),
		UserID: uint(userID),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid from timestamp"))
			return
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid to timestamp"))
			return
		}
		filter.To = t
	}

	logs, total, err := h.auditService.ListLogs(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   logs,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}
