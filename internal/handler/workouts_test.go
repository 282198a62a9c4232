package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthsync/internal/remote"
	"healthsync/pkg/model"
)

func newWorkoutRouter(t *testing.T, api remote.API) *gin.Engine {
	t.Helper()

	h := NewWorkoutHandler(api, zap.NewNop())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/exercises", h.GetExercises)
	router.POST("/api/v1/workouts", h.PostWorkouts)
	return router
}

func TestGetExercises(t *testing.T) {
	api := remote.NewMockAPI(zap.NewNop())
	api.Exercises = []model.Exercise{{ID: "ex-1", Name: "Deadlift", Category: "back"}}
	router := newWorkoutRouter(t, api)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/exercises", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var exercises []model.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exercises))
	require.Len(t, exercises, 1)
	assert.Equal(t, "Deadlift", exercises[0].Name)
}

func TestGetExercises_Unauthenticated(t *testing.T) {
	api := remote.NewMockAPI(zap.NewNop())
	api.FailWith = remote.ErrUnauthenticated
	router := newWorkoutRouter(t, api)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/exercises", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostWorkouts(t *testing.T) {
	t.Run("valid workout is submitted", func(t *testing.T) {
		api := remote.NewMockAPI(zap.NewNop())
		router := newWorkoutRouter(t, api)

		body := bytes.NewBufferString(`{
			"date": "2025-03-10T10:00:00Z",
			"name": "push day",
			"sets": [{"exerciseId": "ex-1", "reps": 5, "weight": 100}]
		}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, api.Workouts, 1)
		assert.Equal(t, "push day", api.Workouts[0].Name)
	})

	t.Run("workout without sets is rejected", func(t *testing.T) {
		api := remote.NewMockAPI(zap.NewNop())
		router := newWorkoutRouter(t, api)

		body := bytes.NewBufferString(`{"date": "2025-03-10T10:00:00Z", "sets": []}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, api.Workouts)
	})

	t.Run("server rejection maps to bad gateway", func(t *testing.T) {
		api := remote.NewMockAPI(zap.NewNop())
		api.FailWith = &remote.ServerError{StatusCode: 500}
		router := newWorkoutRouter(t, api)

		body := bytes.NewBufferString(`{
			"date": "2025-03-10T10:00:00Z",
			"sets": [{"exerciseId": "ex-1", "reps": 5}]
		}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/workouts", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
