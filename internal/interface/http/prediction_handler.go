package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/internal/interface/middleware"
	"github.com/oksasatya/fitlife-api/pkg/response"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

type PredictionHandler struct {
	Svc    *application.PredictionService
	Errors *ErrorMapper
}

func NewPredictionHandler(svc *application.PredictionService, errs *ErrorMapper) *PredictionHandler {
	return &PredictionHandler{Svc: svc, Errors: errs}
}

// Predict POST /api/predict
func (h *PredictionHandler) Predict(c *gin.Context) {
	var in application.PredictInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Errors.RespondValidation(c, "Validation failed", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Predict(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
