// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tokopos/internal/core/apperror"
	appctx "tokopos/internal/core/context"
	"tokopos/pkg/logger"
)

// Recovery turns a panic into a 500 response. The stack goes to the log,
// never to the client. It writes the body itself: the panic has already
// unwound past ErrorHandler, so nobody else will.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", err)))
				c.AbortWithStatusJSON(500, gin.H{
					"code":    apperror.CodeInternal,
					"message": "Internal server error",
					"details": map[string]any{
						"request_id": appctx.GetRequestID(c.Request.Context()),
					},
				})
			}
		}()
		c.Next()
	}
}
