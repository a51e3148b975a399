package rest

import (
	"time"

	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/store/schema"
)

// TrustScoreResponse is the current trust state of a vehicle
type TrustScoreResponse struct {
	VehicleID     string `json:"vehicle_id"`
	CurrentScore  int    `json:"current_score"`
	PreviousScore int    `json:"previous_score"`
	LatestEventID string `json:"latest_event_id,omitempty"`
}

// TrustEventDTO is one entry of a vehicle's trust audit chain
type TrustEventDTO struct {
	ID             string    `json:"id"`
	Change         int       `json:"change"`
	Reason         string    `json:"reason"`
	Source         string    `json:"source"`
	PreviousScore  int       `json:"previous_score"`
	NewScore       int       `json:"new_score"`
	EventTimestamp time.Time `json:"event_timestamp"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrustHistoryResponse is a vehicle's trust events, most recent first
type TrustHistoryResponse struct {
	VehicleID string          `json:"vehicle_id"`
	Events    []TrustEventDTO `json:"events"`
}

// BatchDTO is the REST representation of a daily telemetry batch
type BatchDTO struct {
	ID                   string               `json:"id"`
	VehicleID            string               `json:"vehicle_id"`
	DeviceID             string               `json:"device_id"`
	Date                 string               `json:"date"`
	State                string               `json:"state"`
	StartMileage         float64              `json:"start_mileage"`
	EndMileage           float64              `json:"end_mileage"`
	DistanceKM           float64              `json:"distance_km"`
	ReadingCount         int                  `json:"reading_count"`
	AvgSpeedKMH          float64              `json:"avg_speed_kmh"`
	AvgEngineRPM         float64              `json:"avg_engine_rpm"`
	AvgSignalQuality     float64              `json:"avg_signal_quality"`
	RollbackCount        int                  `json:"rollback_count"`
	Segments             []domain.TripSegment `json:"segments"`
	IsValid              bool                 `json:"is_valid"`
	FraudScore           int                  `json:"fraud_score"`
	Anomalies            []string             `json:"anomalies"`
	Fingerprint          string               `json:"fingerprint,omitempty"`
	PermanentLedgerRef   string               `json:"permanent_ledger_ref,omitempty"`
	TransactionLedgerRef string               `json:"transaction_ledger_ref,omitempty"`
	AnchorStatus         string               `json:"anchor_status"`
	SubmissionAttempts   int                  `json:"submission_attempts"`
	LastAnchorError      string               `json:"last_anchor_error,omitempty"`
	FinalizedAt          *time.Time           `json:"finalized_at,omitempty"`
}

// BatchListResponse is a vehicle's batches, newest first
type BatchListResponse struct {
	VehicleID string     `json:"vehicle_id"`
	Batches   []BatchDTO `json:"batches"`
}

// ConsolidateRequest asks for a vehicle's daily batch to be frozen and anchored
type ConsolidateRequest struct {
	// Date is the calendar day to consolidate, in YYYY-MM-DD form
	Date string `json:"date" binding:"required"`
}

// SeedTrustRequest sets a vehicle's trust score to an explicit value
type SeedTrustRequest struct {
	Score *int `json:"score" binding:"required"`
}

// SeedTrustResponse reports the applied seed
type SeedTrustResponse struct {
	VehicleID     string `json:"vehicle_id"`
	PreviousScore int    `json:"previous_score"`
	NewScore      int    `json:"new_score"`
	EventID       string `json:"event_id"`
}

// RecomputeResponse reports a replayed trust score
type RecomputeResponse struct {
	VehicleID       string `json:"vehicle_id"`
	RecomputedScore int    `json:"recomputed_score"`
}

func toTrustEventDTO(event *schema.TrustEvent) TrustEventDTO {
	return TrustEventDTO{
		ID:             event.ID,
		Change:         event.Change,
		Reason:         event.Reason,
		Source:         event.Source,
		PreviousScore:  event.PreviousScore,
		NewScore:       event.NewScore,
		EventTimestamp: event.EventTimestamp,
		CreatedAt:      event.CreatedAt,
	}
}

func toBatchDTO(batch *schema.TelemetryBatch) BatchDTO {
	return BatchDTO{
		ID:                   batch.ID,
		VehicleID:            batch.VehicleID,
		DeviceID:             batch.DeviceID,
		Date:                 batch.Date.Format("2006-01-02"),
		State:                batch.State,
		StartMileage:         batch.StartMileage,
		EndMileage:           batch.EndMileage,
		DistanceKM:           batch.DistanceKM,
		ReadingCount:         batch.ReadingCount,
		AvgSpeedKMH:          batch.AvgSpeedKMH,
		AvgEngineRPM:         batch.AvgEngineRPM,
		AvgSignalQuality:     batch.AvgSignalQuality,
		RollbackCount:        batch.RollbackCount,
		Segments:             batch.Segments,
		IsValid:              batch.IsValid,
		FraudScore:           batch.FraudScore,
		Anomalies:            batch.Anomalies,
		Fingerprint:          batch.Fingerprint,
		PermanentLedgerRef:   batch.PermanentLedgerRef,
		TransactionLedgerRef: batch.TransactionLedgerRef,
		AnchorStatus:         batch.AnchorStatus,
		SubmissionAttempts:   batch.SubmissionAttempts,
		LastAnchorError:      batch.LastAnchorError,
		FinalizedAt:          batch.FinalizedAt,
	}
}
