package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/internal/domain/entity"
	repo "github.com/oksasatya/fitlife-api/internal/domain/repository"
	"github.com/oksasatya/fitlife-api/internal/infrastructure/memory"
	"github.com/oksasatya/fitlife-api/internal/infrastructure/prediction"
	"github.com/oksasatya/fitlife-api/internal/interface/middleware"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
	"github.com/oksasatya/fitlife-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	helpers.PasswordCost = bcrypt.MinCost
	validation.Init()
	os.Exit(m.Run())
}

type stubPredictor struct {
	res *prediction.Result
	err error
}

func (p stubPredictor) Predict(context.Context, prediction.Request) (*prediction.Result, error) {
	return p.res, p.err
}

// failingWorkouts breaks every read so the generic 500 path can be observed.
type failingWorkouts struct {
	repo.WorkoutRepository
}

func (failingWorkouts) ListByUser(context.Context, string, repo.WorkoutFilter) ([]entity.Workout, error) {
	return nil, errors.New("pq: connection refused for user fitlife password=s3cret")
}

type testServer struct {
	engine *gin.Engine
	users  *application.UserService
}

type serverOpts struct {
	legacyForbidden bool
	predictor       application.Predictor
	workouts        repo.WorkoutRepository
}

func newTestServer(t *testing.T, opts serverOpts) *testServer {
	t.Helper()
	logger := helpers.NewDiscardLogger()
	users := application.NewUserService(memory.NewUserRepository(), helpers.NewJWTManager("handler-secret", time.Hour), nil, time.Minute, logger)
	if opts.workouts == nil {
		opts.workouts = memory.NewWorkoutRepository()
	}
	if opts.predictor == nil {
		opts.predictor = stubPredictor{err: prediction.ErrUnavailable}
	}
	workouts := application.NewWorkoutService(opts.workouts, nil, nil, logger)
	predictions := application.NewPredictionService(opts.predictor, logger)
	errs := NewErrorMapper(opts.legacyForbidden, logger)

	auth := NewAuthHandler(users, errs, logger)
	user := NewUserHandler(users, errs)
	wh := NewWorkoutHandler(workouts, errs)
	ph := NewPredictionHandler(predictions, errs)
	gate := middleware.Auth(users, logger)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/health", Health)
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.GET("/auth/profile/:id", gate, user.GetProfile)
	api.PUT("/auth/profile", gate, user.UpdateProfile)
	api.POST("/auth/profile/avatar", gate, user.UploadAvatar)
	w := api.Group("/workouts", gate)
	w.GET("", wh.List)
	w.GET("/stats", wh.Stats)
	w.GET("/search", wh.Search)
	w.GET("/:id", wh.Get)
	w.POST("", wh.Create)
	w.PUT("/:id", wh.Update)
	w.DELETE("/:id", wh.Delete)
	api.POST("/predict", gate, ph.Predict)

	return &testServer{engine: r, users: users}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email string) (token, id string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret1", "displayName": "Runner",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Token, out.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	rec := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"FitLife API is running!"}`, rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, serverOpts{})

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "jane@example.com", "password": "secret1", "displayName": "Jane",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[authResponse](t, rec)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, reg.ID, reg.UID)
	assert.Equal(t, "Jane", reg.DisplayName)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "jane@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reg.ID, decode[authResponse](t, rec).ID)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "jane@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode[envelope](t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email or password", env.Message)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", decode[envelope](t, rec).Message)
}

func TestRegister_Rejects(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "jane@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode[envelope](t, rec).Message)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "bob@example.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[envelope](t, rec)
	assert.Equal(t, "Invalid user data", env.Message)
	assert.Equal(t, "must be at least 6 characters", env.Error["password"])

	rec = s.do(t, http.MethodPost, "/api/auth/register", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, serverOpts{})

	rec := s.do(t, http.MethodGet, "/api/workouts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", decode[envelope](t, rec).Message)

	rec = s.do(t, http.MethodGet, "/api/workouts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed", decode[envelope](t, rec).Message)
}

func TestCreateWorkout(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, uid := s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodPost, "/api/workouts", tok, map[string]any{
		"activityType": "Gym Workout", "duration": 45, "calories": 300, "date": "2024-03-05",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	w := decode[map[string]any](t, rec)
	assert.Equal(t, uid, w["userId"])
	assert.Equal(t, "Gym Workout", w["activityType"])
	assert.Equal(t, "2024-03-05T00:00:00Z", w["date"])
	assert.NotContains(t, w, "distance")
	assert.NotContains(t, w, "notes")

	rec = s.do(t, http.MethodPost, "/api/workouts", tok, map[string]any{
		"activityType": "Swimming", "duration": 0, "calories": 300, "date": "2024-03-05",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[envelope](t, rec)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Contains(t, env.Error, "activityType")
	assert.Contains(t, env.Error, "duration")

	rec = s.do(t, http.MethodPost, "/api/workouts", tok, `{"activityType":"Running","duration":"long","calories":1,"date":"2024-03-05"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be a number", decode[envelope](t, rec).Error["duration"])
}

func createWorkout(t *testing.T, s *testServer, tok string, body map[string]any) map[string]any {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/workouts", tok, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)
}

func TestListWorkouts_Filters(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, _ := s.register(t, "jane@example.com")
	createWorkout(t, s, tok, map[string]any{"activityType": "Running", "duration": 20, "calories": 200, "date": "2024-03-01"})
	createWorkout(t, s, tok, map[string]any{"activityType": "Running", "duration": 40, "calories": 400, "date": "2024-03-02"})
	createWorkout(t, s, tok, map[string]any{"activityType": "Walking", "duration": 60, "calories": 250, "date": "2024-03-03"})

	rec := s.do(t, http.MethodGet, "/api/workouts?minDuration=30", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Walking", list[0]["activityType"])
	assert.Equal(t, "Running", list[1]["activityType"])

	rec = s.do(t, http.MethodGet, "/api/workouts?activityType=Running&endDate=2024-03-01", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/workouts?activityType=Cycling", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/workouts?minDuration=abc&startDate=yesterday", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[envelope](t, rec)
	assert.Contains(t, env.Error, "minDuration")
	assert.Contains(t, env.Error, "startDate")

	rec = s.do(t, http.MethodGet, "/api/workouts?minDuration=NaN", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be a number", decode[envelope](t, rec).Error["minDuration"])
}

func TestWorkoutStats(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, _ := s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodGet, "/api/workouts/stats", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[statsResponse](t, rec)
	assert.Zero(t, empty.TotalWorkouts)
	assert.Equal(t, map[string]int{"Running": 0, "Cycling": 0, "Walking": 0, "Gym Workout": 0}, empty.WorkoutsByType)
	assert.NotNil(t, empty.RecentWorkouts)

	createWorkout(t, s, tok, map[string]any{"activityType": "Running", "duration": 30, "distance": 5, "calories": 300, "date": "2024-03-01"})
	createWorkout(t, s, tok, map[string]any{"activityType": "Cycling", "duration": 60, "distance": 20.5, "calories": 500, "date": "2024-03-02"})

	rec = s.do(t, http.MethodGet, "/api/workouts/stats", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[statsResponse](t, rec)
	assert.Equal(t, 2, st.TotalWorkouts)
	assert.InDelta(t, 800, st.TotalCalories, 1e-9)
	assert.InDelta(t, 90, st.TotalDuration, 1e-9)
	assert.InDelta(t, 25.5, st.TotalDistance, 1e-9)
	assert.Equal(t, 1, st.WorkoutsByType["Running"])
	assert.Equal(t, 1, st.WorkoutsByType["Cycling"])
	require.Len(t, st.RecentWorkouts, 2)
	assert.Equal(t, "Cycling", st.RecentWorkouts[0].ActivityType)
}

func TestSearch_RequiresQuery(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, _ := s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodGet, "/api/workouts/search", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[envelope](t, rec).Error, "q")

	rec = s.do(t, http.MethodGet, "/api/workouts/search?q=hills", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWorkoutOwnership(t *testing.T) {
	for _, tc := range []struct {
		name   string
		legacy bool
		status int
	}{
		{"forbidden", false, http.StatusForbidden},
		{"legacy unauthorized", true, http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, serverOpts{legacyForbidden: tc.legacy})
			alice, _ := s.register(t, "alice@example.com")
			bob, _ := s.register(t, "bob@example.com")
			w := createWorkout(t, s, alice, map[string]any{"activityType": "Running", "duration": 30, "calories": 300, "date": "2024-03-01"})
			path := "/api/workouts/" + w["id"].(string)

			for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
				var body any
				if method == http.MethodPut {
					body = map[string]any{"duration": 90}
				}
				rec := s.do(t, method, path, bob, body)
				assert.Equal(t, tc.status, rec.Code, method)
				assert.Equal(t, "Not authorized", decode[envelope](t, rec).Message)
			}

			rec := s.do(t, http.MethodGet, path, alice, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.EqualValues(t, 30, decode[map[string]any](t, rec)["duration"])

			rec = s.do(t, http.MethodGet, "/api/workouts", bob, nil)
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}
}

func TestUpdateWorkout(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, _ := s.register(t, "jane@example.com")
	w := createWorkout(t, s, tok, map[string]any{
		"activityType": "Running", "duration": 30, "distance": 5, "calories": 300, "date": "2024-03-01", "notes": "easy",
	})
	path := "/api/workouts/" + w["id"].(string)

	rec := s.do(t, http.MethodPut, path, tok, `{"duration":35,"distance":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[map[string]any](t, rec)
	assert.EqualValues(t, 35, got["duration"])
	assert.NotContains(t, got, "distance")
	assert.Equal(t, "easy", got["notes"])
	assert.EqualValues(t, 2, got["version"])

	rec = s.do(t, http.MethodPut, path, tok, `{"calories":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[envelope](t, rec).Error, "calories")

	rec = s.do(t, http.MethodPut, path, tok, `{"duration":40,"version":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/workouts/missing", tok, `{"duration":40}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Workout not found", decode[envelope](t, rec).Message)
}

func TestDeleteWorkout(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, _ := s.register(t, "jane@example.com")
	w := createWorkout(t, s, tok, map[string]any{"activityType": "Walking", "duration": 30, "calories": 100, "date": "2024-03-01"})
	path := "/api/workouts/" + w["id"].(string)

	rec := s.do(t, http.MethodDelete, path, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Workout deleted successfully"}`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPredict(t *testing.T) {
	conf := 0.87
	s := newTestServer(t, serverOpts{predictor: stubPredictor{res: &prediction.Result{PredictedActivity: "Running", Confidence: &conf, IsMLPrediction: true}}})
	tok, _ := s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodPost, "/api/predict", tok, map[string]any{"duration": 30, "distance": 5, "calories": 300})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"predictedActivity":"Running","confidence":0.87,"isMLPrediction":true}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/predict", tok, map[string]any{"duration": 30})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[envelope](t, rec).Error, "calories")
}

func TestPredict_Unavailable(t *testing.T) {
	s := newTestServer(t, serverOpts{predictor: stubPredictor{err: fmt.Errorf("%w: connection refused", prediction.ErrUnavailable)}})
	tok, _ := s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodPost, "/api/predict", tok, map[string]any{"duration": 30, "calories": 300})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Prediction service unavailable", decode[envelope](t, rec).Message)
}

func TestInternalErrorDoesNotLeak(t *testing.T) {
	s := newTestServer(t, serverOpts{workouts: failingWorkouts{memory.NewWorkoutRepository()}})
	tok, _ := s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodGet, "/api/workouts", tok, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode[envelope](t, rec)
	assert.Equal(t, "Something went wrong!", env.Message)
	assert.NotContains(t, rec.Body.String(), "s3cret")
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestProfile(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, id := s.register(t, "jane@example.com")

	rec := s.do(t, http.MethodGet, "/api/auth/profile/"+id, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[application.Profile](t, rec)
	assert.Equal(t, id, p.UID)
	assert.Equal(t, "jane@example.com", p.Email)

	rec = s.do(t, http.MethodGet, "/api/auth/profile/unknown", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/auth/profile", tok, map[string]string{"displayName": "Jane D"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane D", decode[application.Profile](t, rec).DisplayName)
}

func TestUploadAvatar_StorageNotConfigured(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	tok, _ := s.register(t, "jane@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/profile/avatar", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
