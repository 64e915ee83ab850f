package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/pkg/logger"
)

// AuditLog records write operations (POST/PUT/DELETE) on content routes
// with the acting user. Request bodies are not logged.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		c.Next()

		module, action := parseRouteInfo(c.FullPath(), method)
		status := c.Writer.Status()

		event := logger.Info()
		if status >= 400 {
			event = logger.Warn()
		}
		event.
			Str("module", module).
			Str("action", action).
			Str("user_id", GetUserID(c)).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("audit")
	}
}

// parseRouteInfo extracts module and action from a gin route pattern,
// e.g. "/blog/:id" + "DELETE" gives module "blog", action "delete".
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/")
	module = strings.SplitN(path, "/", 2)[0]
	if module == "" {
		module = "unknown"
	}

	switch method {
	case "POST":
		action = "create"
	case "PUT":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return module, action
}
