package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records served requests (implemented by metrics.Metrics).
type RequestObserver interface {
	ObserveRequest(route, method string, status int, elapsed time.Duration)
}

// Metrics reports every request to obs, labelled by the matched route
// template so that path parameters do not explode label cardinality.
// Unmatched paths are reported as "unmatched".
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
