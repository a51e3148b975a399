package schema

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/veridrive/veridrive/internal/domain"
)

// TelemetryBatch represents the telemetry_batches table - one vehicle's
// consolidated calendar day. Content fields are owned by the aggregator while
// the batch is open; anchoring fields are owned by the orchestrator after
// finalization. One row per (vehicle_id, date).
type TelemetryBatch struct {
	// ID is the batch identifier (ULID, lexically sortable by creation time)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// VehicleID references the vehicle this batch belongs to
	VehicleID string `gorm:"column:vehicle_id;not null;type:text;uniqueIndex:idx_batches_vehicle_date,priority:1"`
	// DeviceID is the device that produced the day's readings
	DeviceID string `gorm:"column:device_id;not null;type:text"`
	// Date is the UTC calendar day this batch covers (midnight timestamp)
	Date time.Time `gorm:"column:date;not null;type:timestamptz;uniqueIndex:idx_batches_vehicle_date,priority:2"`
	// State is the batch lifecycle state (open, finalizing, finalized)
	State string `gorm:"column:state;not null;type:text;default:'open'"`

	// Day summary, recalculated by the aggregator on every appended reading
	StartMileage     float64 `gorm:"column:start_mileage;not null"`
	EndMileage       float64 `gorm:"column:end_mileage;not null"`
	DistanceKM       float64 `gorm:"column:distance_km;not null"`
	ReadingCount     int     `gorm:"column:reading_count;not null;default:0"`
	AvgSpeedKMH      float64 `gorm:"column:avg_speed_kmh;not null;default:0"`
	AvgEngineRPM     float64 `gorm:"column:avg_engine_rpm;not null;default:0"`
	AvgSignalQuality float64 `gorm:"column:avg_signal_quality;not null;default:0"`
	// RollbackCount is the number of readings the classifier flagged as rollbacks
	RollbackCount int `gorm:"column:rollback_count;not null;default:0"`
	// Segments holds the derived contiguous trip segments as JSONB
	Segments datatypes.JSONSlice[domain.TripSegment] `gorm:"column:segments;type:jsonb"`

	// Validity, computed once at finalize time
	IsValid    bool                        `gorm:"column:is_valid;not null;default:false"`
	FraudScore int                         `gorm:"column:fraud_score;not null;default:0"`
	Anomalies  datatypes.JSONSlice[string] `gorm:"column:anomalies;type:jsonb"`

	// Anchoring, mutated only by the orchestrator
	Fingerprint          string `gorm:"column:fingerprint;type:text"`
	PermanentLedgerRef   string `gorm:"column:permanent_ledger_ref;type:text"`
	TransactionLedgerRef string `gorm:"column:transaction_ledger_ref;type:text"`
	AnchorStatus         string `gorm:"column:anchor_status;not null;type:text;default:'pending'"`
	SubmissionAttempts   int    `gorm:"column:submission_attempts;not null;default:0"`
	LastAnchorError      string `gorm:"column:last_anchor_error;type:text"`

	// FinalizedAt is when the batch was frozen
	FinalizedAt *time.Time `gorm:"column:finalized_at;type:timestamptz"`
	// CreatedAt is the timestamp when this batch was opened
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this batch was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Vehicle Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the TelemetryBatch model
func (TelemetryBatch) TableName() string {
	return "telemetry_batches"
}

// HasRealTransactionRef reports whether the batch carries a reference produced
// by the transaction ledger itself, as opposed to a locally generated fallback.
func (b *TelemetryBatch) HasRealTransactionRef() bool {
	return b.TransactionLedgerRef != "" &&
		!strings.HasPrefix(b.TransactionLedgerRef, domain.LocalAnchorRefPrefix)
}
