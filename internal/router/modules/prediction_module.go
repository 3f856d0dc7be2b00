package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/fitlife-api/internal/interface/http"
)

type PredictionModule struct {
	Handler *handlers.PredictionHandler
	Gate    gin.HandlerFunc
}

func NewPredictionModule(h *handlers.PredictionHandler, gate gin.HandlerFunc) *PredictionModule {
	return &PredictionModule{Handler: h, Gate: gate}
}

func (m *PredictionModule) Register(rg *gin.RouterGroup) {
	rg.POST("/predict", m.Gate, m.Handler.Predict)
}
