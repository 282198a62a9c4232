package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthsync/internal/remote"
	"healthsync/pkg/model"
)

// WorkoutHandler passes the exercise catalog and workout submission through
// to the remote service, reusing the same credential attachment as the sync
// path
type WorkoutHandler struct {
	api    remote.API
	logger *zap.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler
func NewWorkoutHandler(api remote.API, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		api:    api,
		logger: logger,
	}
}

// GetExercises fetches the remote exercise catalog
func (h *WorkoutHandler) GetExercises(c *gin.Context) {
	exercises, err := h.api.ListExercises(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to fetch exercise catalog", zap.Error(err))
		c.JSON(statusForRemoteError(err), ErrorResponse{
			Code:    "REMOTE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, exercises)
}

// PostWorkouts submits a workout to the remote service
func (h *WorkoutHandler) PostWorkouts(c *gin.Context) {
	var workout model.Workout
	if err := c.ShouldBindJSON(&workout); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if len(workout.Sets) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "a workout needs at least one set",
		})
		return
	}

	if err := h.api.CreateWorkout(c.Request.Context(), &workout); err != nil {
		h.logger.Warn("failed to submit workout", zap.Error(err))
		c.JSON(statusForRemoteError(err), ErrorResponse{
			Code:    "REMOTE_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "created"})
}
