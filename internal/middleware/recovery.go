package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/contractpulse/internal/logger"
)

// RecoveryMiddleware turns a panic in any later handler into a logged 500
// with a dto.ErrorResponse body.
//
// http.ErrAbortHandler is re-raised so net/http can drop the connection. When
// the handler already started writing, the response is only aborted.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			rid, _ := c.Get(RequestIDKey)
			log := logger.Component("http")
			log.Error().
				Str("request_id", toString(rid)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("route", c.FullPath()).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			AbortWithError(c, http.StatusInternalServerError, "Internal server error", fmt.Errorf("%v", r))
		}()

		c.Next()
	}
}
