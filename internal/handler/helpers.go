package handler

import (
	"net/http"
	"strconv"

	"flavoradmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads the numeric :id path parameter. On failure it writes
// the 400 response itself and returns false.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid id parameter"))
		return 0, false
	}
	return uint(id), true
}
