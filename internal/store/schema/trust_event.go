package schema

import (
	"time"
)

// TrustEvent represents the trust_events table - the append-only per-vehicle
// audit chain of trust score changes. Rows are never updated or deleted.
type TrustEvent struct {
	// ID is the event identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// VehicleID references the vehicle whose score changed
	VehicleID string `gorm:"column:vehicle_id;not null;type:text;index:idx_trust_events_vehicle_ts,priority:1"`
	// Change is the signed score delta requested (-100..+100)
	Change int `gorm:"column:change;not null"`
	// Reason is a free-text description of why the score changed
	Reason string `gorm:"column:reason;not null;type:text"`
	// Source identifies the origin of the change (fraud-engine, manual, seed)
	Source string `gorm:"column:source;not null;type:text"`
	// PreviousScore is the score before this event was applied
	PreviousScore int `gorm:"column:previous_score;not null"`
	// NewScore is the score after applying and clamping this event
	NewScore int `gorm:"column:new_score;not null"`
	// EventTimestamp orders the per-vehicle chain; must be monotonically non-decreasing
	EventTimestamp time.Time `gorm:"column:event_timestamp;not null;type:timestamptz;index:idx_trust_events_vehicle_ts,priority:2"`
	// CreatedAt is the timestamp when this event row was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Vehicle Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the TrustEvent model
func (TrustEvent) TableName() string {
	return "trust_events"
}
