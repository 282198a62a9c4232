package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthsync/internal/service"
	"healthsync/internal/state"
	"healthsync/pkg/model"
)

// Orchestrator drives the single-day and range sync operations
type Orchestrator interface {
	SyncDay(ctx context.Context, day time.Time) model.SyncOutcome
	Backfill(ctx context.Context, start, end time.Time) (*model.BackfillReport, error)
}

// SyncHandler triggers the core sync operations and reports their outcome
type SyncHandler struct {
	orchestrator Orchestrator
	aggregator   service.Aggregator
	state        *state.Store
	logger       *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(orchestrator Orchestrator, aggregator service.Aggregator, st *state.Store, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		aggregator:   aggregator,
		state:        st,
		logger:       logger,
	}
}

// PostSyncToday aggregates and sends the current day
func (h *SyncHandler) PostSyncToday(c *gin.Context) {
	outcome := h.orchestrator.SyncDay(c.Request.Context(), time.Now())

	if outcome.Success {
		h.recordLastSync()
		c.JSON(http.StatusOK, outcome)
		return
	}

	c.JSON(http.StatusBadGateway, outcome)
}

type backfillRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type backfillResponse struct {
	Summary string               `json:"summary"`
	Report  model.BackfillReport `json:"report"`
}

// PostBackfill walks an inclusive date range, syncing each day
func (h *SyncHandler) PostBackfill(c *gin.Context) {
	var req backfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	start, err := time.ParseInLocation("2006-01-02", req.Start, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "start must be a YYYY-MM-DD date",
		})
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.End, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "end must be a YYYY-MM-DD date",
		})
		return
	}

	report, err := h.orchestrator.Backfill(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_RANGE",
			Message: err.Error(),
		})
		return
	}

	if report.Success {
		h.recordLastSync()
	}

	c.JSON(http.StatusOK, backfillResponse{
		Summary: fmt.Sprintf("%d of %d days synced", report.SyncedDays(), len(report.Outcomes)),
		Report:  *report,
	})
}

// GetRecord aggregates one day without sending it, for preview
func (h *SyncHandler) GetRecord(c *gin.Context) {
	day, err := time.ParseInLocation("2006-01-02", c.Param("date"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "date must be a YYYY-MM-DD date",
		})
		return
	}

	record := h.aggregator.Aggregate(c.Request.Context(), day)
	c.JSON(http.StatusOK, record)
}

// GetStatus reports the persisted sync state
func (h *SyncHandler) GetStatus(c *gin.Context) {
	lastSync, err := h.state.LastSync()
	if err != nil {
		h.logger.Error("failed to read last sync", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "STATE_ERROR",
			Message: "failed to read sync state",
		})
		return
	}

	authorized, err := h.state.AuthorizationGranted()
	if err != nil {
		h.logger.Error("failed to read authorization flag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "STATE_ERROR",
			Message: "failed to read sync state",
		})
		return
	}

	resp := gin.H{"authorizationGranted": authorized}
	if !lastSync.IsZero() {
		resp["lastSync"] = lastSync
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SyncHandler) recordLastSync() {
	if err := h.state.SetLastSync(time.Now()); err != nil {
		h.logger.Warn("failed to record last sync time", zap.Error(err))
	}
}
