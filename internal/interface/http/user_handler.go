package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/internal/interface/middleware"
	"github.com/oksasatya/fitlife-api/pkg/response"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Errors *ErrorMapper
}

func NewUserHandler(svc *application.UserService, errs *ErrorMapper) *UserHandler {
	return &UserHandler{Svc: svc, Errors: errs}
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"max=100"`
}

// GetProfile GET /api/auth/profile/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// UpdateProfile PUT /api/auth/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.RespondValidation(c, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), application.UpdateProfileInput{DisplayName: req.DisplayName})
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// UploadAvatar POST /api/auth/profile/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("avatar")
	if err != nil {
		h.Errors.RespondValidation(c, "invalid payload", map[string]string{"avatar": "image file is required (max 5MB)"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	p, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.UserID(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}
