package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalUser takes the subject from X-User-Id without verifying it.
// A missing header leaves the request anonymous. Use this ONLY for development/testing.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			c.Set(CtxSubject, uid)
		}
		c.Next()
	}
}
