package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/contractpulse/internal/domain/dto"
)

// ErrorHandler turns errors attached with c.Error into a JSON error response
// when the handler did not write one itself.
//
// A dto.ErrorResponse attached as the last error is sent as-is; any other
// error becomes a 500 "Internal server error".
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	last := c.Errors.Last().Err
	var resp dto.ErrorResponse
	if errors.As(last, &resp) {
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last))
}

// AbortWithError records err on the context and aborts with a JSON
// dto.ErrorResponse.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	_ = c.Error(resp)
	c.AbortWithStatusJSON(status, resp)
}
