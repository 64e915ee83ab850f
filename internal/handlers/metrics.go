package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/quill/internal/metrics"
)

// Metrics serves the Prometheus exposition of m.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return gin.WrapH(m.Handler())
}
