package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/internal/observability"
	"github.com/oksasatya/fitlife-api/pkg/response"
)

// Recovery turns a handler panic into a generic 500 without leaking details.
func Recovery(logger *logrus.Logger, m *observability.Manager) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if m != nil {
			m.CounterHandlerPanics.Inc()
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.Request.URL.Path,
				"panic":      recovered,
			}).Error("handler panic recovered")
		}
		response.Error[any](c, http.StatusInternalServerError, "Something went wrong!", nil)
	})
}
