package domain

import (
	"time"
)

// VerdictStatus represents the outcome of classifying a single reading
type VerdictStatus string

const (
	VerdictValid      VerdictStatus = "valid"
	VerdictSuspicious VerdictStatus = "suspicious"
	VerdictRollback   VerdictStatus = "rollback"
)

// ReasonCode identifies which classification rule fired
type ReasonCode string

const (
	ReasonNone               ReasonCode = ""
	ReasonRollback           ReasonCode = "rollback"
	ReasonImpossibleDistance ReasonCode = "impossible_distance"
	ReasonSuddenJump         ReasonCode = "sudden_jump"
)

// TrustEventSource represents the origin of a trust score change
type TrustEventSource string

const (
	TrustSourceFraudEngine TrustEventSource = "fraud-engine"
	TrustSourceManual      TrustEventSource = "manual"
	TrustSourceSeed        TrustEventSource = "seed"
)

// IsValidTrustEventSource checks if a trust event source is valid
func IsValidTrustEventSource(source TrustEventSource) bool {
	return source == TrustSourceFraudEngine ||
		source == TrustSourceManual ||
		source == TrustSourceSeed
}

// BatchState represents the lifecycle state of a daily telemetry batch
type BatchState string

const (
	BatchStateOpen       BatchState = "open"
	BatchStateFinalizing BatchState = "finalizing"
	BatchStateFinalized  BatchState = "finalized"
)

// AnchorStatus represents the anchoring state of a finalized batch
type AnchorStatus string

const (
	AnchorStatusPending  AnchorStatus = "pending"
	AnchorStatusPartial  AnchorStatus = "partial"
	AnchorStatusAnchored AnchorStatus = "anchored"
	AnchorStatusFailed   AnchorStatus = "failed"
)

// TelemetryReading is a single raw odometer report from an embedded device
type TelemetryReading struct {
	DeviceID      string     `json:"device_id"`
	VehicleID     string     `json:"vehicle_id"`
	Mileage       float64    `json:"mileage"` // odometer value in km
	Timestamp     time.Time  `json:"timestamp"`
	SignalQuality float64    `json:"signal_quality"` // 0-100
	SpeedKMH      *float64   `json:"speed_kmh,omitempty"`
	EngineRPM     *float64   `json:"engine_rpm,omitempty"`
	Position      *GeoPoint  `json:"position,omitempty"`
}

// GeoPoint is optional positional metadata attached to a reading
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidationVerdict is the result of classifying a single reading.
// It is a value type and is never persisted on its own.
type ValidationVerdict struct {
	Status     VerdictStatus `json:"status"`
	DeltaKM    float64       `json:"delta_km"`
	FraudScore int           `json:"fraud_score"` // 0-100 contribution
	ReasonCode ReasonCode    `json:"reason_code"`
}

// TripSegment is a contiguous run of readings within a daily batch
type TripSegment struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	StartMileage float64   `json:"start_mileage"`
	EndMileage   float64   `json:"end_mileage"`
	DistanceKM   float64   `json:"distance_km"`
}

// BatchValidity is the day-level fraud verdict computed at finalize time
type BatchValidity struct {
	IsValid    bool     `json:"is_valid"`
	FraudScore int      `json:"fraud_score"` // cumulative, unclamped
	Anomalies  []string `json:"anomalies"`
}

// AnchorResult is the structured outcome of a consolidation call.
// The orchestrator never surfaces a partial anchoring as an error;
// callers inspect Status and LastError instead.
type AnchorResult struct {
	Success              bool         `json:"success"`
	BatchID              string       `json:"batch_id"`
	Fingerprint          string       `json:"fingerprint"`
	PermanentLedgerRef   string       `json:"permanent_ledger_ref,omitempty"`
	TransactionLedgerRef string       `json:"transaction_ledger_ref,omitempty"`
	Status               AnchorStatus `json:"status"`
	Error                string       `json:"error,omitempty"`
}

// DayKey returns the UTC calendar date a timestamp belongs to.
// Batches are keyed by (vehicleID, DayKey).
func DayKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClampScore clamps a trust score into the valid [0, 100] range
func ClampScore(score int) int {
	if score < MinTrustScore {
		return MinTrustScore
	}
	if score > MaxTrustScore {
		return MaxTrustScore
	}
	return score
}
