package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	"github.com/oksasatya/fitlife-api/internal/interface/middleware"
	"github.com/oksasatya/fitlife-api/pkg/response"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

type WorkoutHandler struct {
	Svc    *application.WorkoutService
	Errors *ErrorMapper
}

func NewWorkoutHandler(svc *application.WorkoutService, errs *ErrorMapper) *WorkoutHandler {
	return &WorkoutHandler{Svc: svc, Errors: errs}
}

type workoutResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ActivityType string    `json:"activityType"`
	Duration     float64   `json:"duration"`
	Distance     *float64  `json:"distance,omitempty"`
	Calories     float64   `json:"calories"`
	Date         time.Time `json:"date"`
	Notes        *string   `json:"notes,omitempty"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toWorkoutResponse(w entity.Workout) workoutResponse {
	return workoutResponse{
		ID:           w.ID,
		UserID:       w.UserID,
		ActivityType: string(w.ActivityType),
		Duration:     w.Duration,
		Distance:     w.Distance,
		Calories:     w.Calories,
		Date:         w.Date,
		Notes:        w.Notes,
		Version:      w.Version,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func toWorkoutResponses(ws []entity.Workout) []workoutResponse {
	out := make([]workoutResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWorkoutResponse(w))
	}
	return out
}

type statsResponse struct {
	TotalWorkouts  int               `json:"totalWorkouts"`
	TotalCalories  float64           `json:"totalCalories"`
	TotalDuration  float64           `json:"totalDuration"`
	TotalDistance  float64           `json:"totalDistance"`
	WorkoutsByType map[string]int    `json:"workoutsByType"`
	RecentWorkouts []workoutResponse `json:"recentWorkouts"`
}

func toStatsResponse(s application.Stats) statsResponse {
	byType := make(map[string]int, len(s.WorkoutsByType))
	for k, v := range s.WorkoutsByType {
		byType[string(k)] = v
	}
	return statsResponse{
		TotalWorkouts:  s.TotalWorkouts,
		TotalCalories:  s.TotalCalories,
		TotalDuration:  s.TotalDuration,
		TotalDistance:  s.TotalDistance,
		WorkoutsByType: byType,
		RecentWorkouts: toWorkoutResponses(s.RecentWorkouts),
	}
}

func queryFromRequest(c *gin.Context) application.WorkoutQuery {
	return application.WorkoutQuery{
		ActivityType: c.Query("activityType"),
		MinDuration:  c.Query("minDuration"),
		MaxDuration:  c.Query("maxDuration"),
		StartDate:    c.Query("startDate"),
		EndDate:      c.Query("endDate"),
	}
}

// List GET /api/workouts
func (h *WorkoutHandler) List(c *gin.Context) {
	filter, err := application.ParseWorkoutFilter(queryFromRequest(c))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	ws, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toWorkoutResponses(ws))
}

// Stats GET /api/workouts/stats
func (h *WorkoutHandler) Stats(c *gin.Context) {
	filter, err := application.ParseWorkoutFilter(queryFromRequest(c))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	s, err := h.Svc.Stats(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toStatsResponse(s))
}

// Search GET /api/workouts/search?q=
func (h *WorkoutHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		h.Errors.RespondValidation(c, "Validation failed", map[string]string{"q": "is required"})
		return
	}
	ws, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), q)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toWorkoutResponses(ws))
}

// Get GET /api/workouts/:id
func (h *WorkoutHandler) Get(c *gin.Context) {
	w, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toWorkoutResponse(*w))
}

// Create POST /api/workouts
func (h *WorkoutHandler) Create(c *gin.Context) {
	var in application.CreateWorkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.Errors.RespondValidation(c, "Validation failed", validation.ToDetails(err))
		return
	}
	w, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, toWorkoutResponse(*w))
}

// Update PUT /api/workouts/:id
func (h *WorkoutHandler) Update(c *gin.Context) {
	var patch application.WorkoutPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.Errors.RespondValidation(c, "Validation failed", validation.ToDetails(err))
		return
	}
	w, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), patch)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toWorkoutResponse(*w))
}

// Delete DELETE /api/workouts/:id
func (h *WorkoutHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Workout deleted successfully")
}
