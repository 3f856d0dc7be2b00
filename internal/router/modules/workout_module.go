package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/fitlife-api/internal/interface/http"
)

// WorkoutModule wires the workout routes; all of them require a session token.
type WorkoutModule struct {
	Handler *handlers.WorkoutHandler
	Gate    gin.HandlerFunc
}

func NewWorkoutModule(h *handlers.WorkoutHandler, gate gin.HandlerFunc) *WorkoutModule {
	return &WorkoutModule{Handler: h, Gate: gate}
}

func (m *WorkoutModule) Register(rg *gin.RouterGroup) {
	w := rg.Group("/workouts")
	w.Use(m.Gate)
	{
		w.GET("", m.Handler.List)
		w.GET("/stats", m.Handler.Stats)
		w.GET("/search", m.Handler.Search)
		w.GET("/:id", m.Handler.Get)
		w.POST("", m.Handler.Create)
		w.PUT("/:id", m.Handler.Update)
		w.DELETE("/:id", m.Handler.Delete)
	}
}
