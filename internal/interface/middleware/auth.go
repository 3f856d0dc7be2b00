package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/response"
)

// TokenVerifier resolves a session token to a user id. *application.UserService satisfies it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Auth requires a valid bearer token and sets userID in the Gin context.
// Requests without one are rejected before reaching any handler.
func Auth(v TokenVerifier, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "Not authorized, no token", nil)
			return
		}
		uid, err := v.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrUnauthorized) {
				response.Error[any](c, http.StatusUnauthorized, "Not authorized, token failed", nil)
				return
			}
			helpers.LogError(logger, "verify token failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
			response.Error[any](c, http.StatusInternalServerError, "Something went wrong!", nil)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}
