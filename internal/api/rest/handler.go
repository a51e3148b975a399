package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/consolidation"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/trust"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	defaultBatchLimit   = 30
	maxBatchLimit       = 365
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetTrustScore returns a vehicle's current trust state
	// GET /v1/vehicles/:id/trust
	GetTrustScore(c *gin.Context)

	// GetTrustHistory returns a vehicle's trust events, most recent first
	// GET /v1/vehicles/:id/trust/history?limit=<limit>
	GetTrustHistory(c *gin.Context)

	// ListBatches returns a vehicle's daily batches, newest first
	// GET /v1/vehicles/:id/batches?limit=<limit>
	ListBatches(c *gin.Context)

	// Consolidate finalizes and anchors a vehicle's daily batch
	// POST /v1/vehicles/:id/consolidate
	Consolidate(c *gin.Context)

	// SeedTrustScore sets a vehicle's trust score to an explicit value
	// POST /v1/vehicles/:id/trust/seed
	SeedTrustScore(c *gin.Context)

	// RecomputeTrustScore replays a vehicle's trust event chain
	// POST /v1/vehicles/:id/trust/recompute
	RecomputeTrustScore(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	trust         trust.Service
	consolidation consolidation.Service
}

// NewHandler creates a new REST API handler
func NewHandler(trustSvc trust.Service, consolidationSvc consolidation.Service) Handler {
	return &handler{
		trust:         trustSvc,
		consolidation: consolidationSvc,
	}
}

// GetTrustScore returns a vehicle's current trust state
func (h *handler) GetTrustScore(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		respondBadRequest(c, "Vehicle ID is required")
		return
	}

	score, err := h.trust.GetCurrentTrustScore(c.Request.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondNotFound(c, "Vehicle not found")
			return
		}
		respondInternalError(c, err, "Failed to get trust score", zap.String("vehicle_id", vehicleID))
		return
	}

	c.JSON(http.StatusOK, TrustScoreResponse{
		VehicleID:     vehicleID,
		CurrentScore:  score.CurrentScore,
		PreviousScore: score.PreviousScore,
		LatestEventID: score.LatestEventID,
	})
}

// GetTrustHistory returns a vehicle's trust events, most recent first
func (h *handler) GetTrustHistory(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		respondBadRequest(c, "Vehicle ID is required")
		return
	}

	limit, err := parseLimit(c, defaultHistoryLimit, maxHistoryLimit)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	events, err := h.trust.GetTrustScoreHistory(c.Request.Context(), vehicleID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondNotFound(c, "Vehicle not found")
			return
		}
		respondInternalError(c, err, "Failed to get trust history", zap.String("vehicle_id", vehicleID))
		return
	}

	dtos := make([]TrustEventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toTrustEventDTO(event))
	}

	c.JSON(http.StatusOK, TrustHistoryResponse{
		VehicleID: vehicleID,
		Events:    dtos,
	})
}

// ListBatches returns a vehicle's daily batches, newest first
func (h *handler) ListBatches(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		respondBadRequest(c, "Vehicle ID is required")
		return
	}

	limit, err := parseLimit(c, defaultBatchLimit, maxBatchLimit)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	batches, err := h.consolidation.GetBatchesForVehicle(c.Request.Context(), vehicleID, limit)
	if err != nil {
		respondInternalError(c, err, "Failed to list batches", zap.String("vehicle_id", vehicleID))
		return
	}

	dtos := make([]BatchDTO, 0, len(batches))
	for _, batch := range batches {
		dtos = append(dtos, toBatchDTO(batch))
	}

	c.JSON(http.StatusOK, BatchListResponse{
		VehicleID: vehicleID,
		Batches:   dtos,
	})
}

// Consolidate finalizes and anchors a vehicle's daily batch
func (h *handler) Consolidate(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		respondBadRequest(c, "Vehicle ID is required")
		return
	}

	var req ConsolidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondValidationError(c, "date must be in YYYY-MM-DD form")
		return
	}

	result, err := h.consolidation.ConsolidateDayBatch(c.Request.Context(), vehicleID, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBatchNotFound):
			respondNotFound(c, "No batch for that vehicle and date")
		case errors.Is(err, domain.ErrInvalidBatchState):
			respondConflict(c, "Batch is not in a consolidatable state", err.Error())
		default:
			respondInternalError(c, err, "Failed to consolidate batch",
				zap.String("vehicle_id", vehicleID),
				zap.String("date", req.Date))
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// SeedTrustScore sets a vehicle's trust score to an explicit value
func (h *handler) SeedTrustScore(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		respondBadRequest(c, "Vehicle ID is required")
		return
	}

	var req SeedTrustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if *req.Score < domain.MinTrustScore || *req.Score > domain.MaxTrustScore {
		respondValidationError(c, "score must be between 0 and 100")
		return
	}

	result, err := h.trust.SeedTrustScore(c.Request.Context(), vehicleID, *req.Score)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondNotFound(c, "Vehicle not found")
			return
		}
		respondInternalError(c, err, "Failed to seed trust score", zap.String("vehicle_id", vehicleID))
		return
	}

	c.JSON(http.StatusOK, SeedTrustResponse{
		VehicleID:     vehicleID,
		PreviousScore: result.PreviousScore,
		NewScore:      result.NewScore,
		EventID:       result.EventID,
	})
}

// RecomputeTrustScore replays a vehicle's trust event chain
func (h *handler) RecomputeTrustScore(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		respondBadRequest(c, "Vehicle ID is required")
		return
	}

	score, err := h.trust.RecomputeTrustScore(c.Request.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondNotFound(c, "Vehicle not found")
			return
		}
		respondInternalError(c, err, "Failed to recompute trust score", zap.String("vehicle_id", vehicleID))
		return
	}

	c.JSON(http.StatusOK, RecomputeResponse{
		VehicleID:       vehicleID,
		RecomputedScore: score,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseLimit reads and bounds the limit query parameter
func parseLimit(c *gin.Context, def, max int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return def, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	if limit > max {
		limit = max
	}
	return limit, nil
}
