package schema

import (
	"time"
)

// Vehicle represents the vehicles table - registry entry plus embedded trust state
type Vehicle struct {
	// ID is the external vehicle identifier
	ID string `gorm:"column:id;primaryKey;type:text"`
	// VIN is the vehicle identification number
	VIN string `gorm:"column:vin;uniqueIndex;type:text"`
	// DeviceID is the telemetry device currently installed in the vehicle
	DeviceID string `gorm:"column:device_id;type:text"`
	// OwnerAddress is the owner's signing address for transaction ledger submissions (optional)
	OwnerAddress *string `gorm:"column:owner_address;type:text"`
	// TrustScore is the current 0-100 reputation value; mutated only by the trust ledger
	TrustScore int `gorm:"column:trust_score;not null;default:100"`
	// TrustEventCount is the number of trust events recorded for this vehicle.
	// It doubles as the optimistic concurrency token for trust state updates.
	TrustEventCount int64 `gorm:"column:trust_event_count;not null;default:0"`
	// LastTrustEventAt is the timestamp of the most recent trust event
	LastTrustEventAt *time.Time `gorm:"column:last_trust_event_at;type:timestamptz"`
	// CreatedAt is the timestamp when this vehicle was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this vehicle was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}
