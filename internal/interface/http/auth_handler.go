package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/response"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.UserService
	Errors *ErrorMapper
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, errs *ErrorMapper, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Errors: errs, Logger: logger}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	DisplayName string `json:"displayName" binding:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	ID          string `json:"id"`
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
}

func toAuthResponse(res *application.AuthResult) authResponse {
	return authResponse{
		ID:          res.User.ID,
		UID:         res.User.ID,
		Email:       res.User.Email,
		DisplayName: res.User.DisplayName,
		Token:       res.Token,
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.RespondValidation(c, "Invalid user data", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, toAuthResponse(res))
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.RespondValidation(c, "Invalid user data", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			helpers.LogInfo(h.Logger, "login rejected", logrus.Fields{"request_id": c.GetString("request_id")})
		}
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toAuthResponse(res))
}
