package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/fitlife-api/internal/interface/http"
)

// AuthModule wires identity routes.
// Public: POST /auth/register, POST /auth/login
// Protected: GET /auth/profile/:id, PUT /auth/profile, POST /auth/profile/avatar
type AuthModule struct {
	Auth *handlers.AuthHandler
	User *handlers.UserHandler
	Gate gin.HandlerFunc
}

func NewAuthModule(auth *handlers.AuthHandler, user *handlers.UserHandler, gate gin.HandlerFunc) *AuthModule {
	return &AuthModule{Auth: auth, User: user, Gate: gate}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Auth.Register)
	rg.POST("/auth/login", m.Auth.Login)

	auth := rg.Group("/auth")
	auth.Use(m.Gate)
	{
		auth.GET("/profile/:id", m.User.GetProfile)
		auth.PUT("/profile", m.User.UpdateProfile)
		auth.POST("/profile/avatar", m.User.UploadAvatar)
	}
}
