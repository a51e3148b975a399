package schema

import (
	"time"
)

// TelemetryReading represents the telemetry_readings table - raw odometer
// reports as delivered by the ingestion boundary. Immutable once stored.
type TelemetryReading struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// VehicleID references the reporting vehicle
	VehicleID string `gorm:"column:vehicle_id;not null;type:text;index:idx_readings_vehicle_ts,priority:1"`
	// DeviceID is the telemetry device that produced the reading
	DeviceID string `gorm:"column:device_id;not null;type:text"`
	// Mileage is the reported odometer value in km
	Mileage float64 `gorm:"column:mileage;not null"`
	// Timestamp is when the device captured the reading
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz;index:idx_readings_vehicle_ts,priority:2"`
	// SignalQuality is the raw 0-100 signal quality reported by the device
	SignalQuality float64 `gorm:"column:signal_quality;not null"`
	// SpeedKMH is the instantaneous speed if the device reported one
	SpeedKMH *float64 `gorm:"column:speed_kmh"`
	// EngineRPM is the engine RPM if the device reported one
	EngineRPM *float64 `gorm:"column:engine_rpm"`
	// Latitude/Longitude carry optional positional metadata
	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`
	// Verdict is the classifier outcome recorded at ingest time
	Verdict string `gorm:"column:verdict;not null;type:text"`
	// ReasonCode identifies which classification rule fired, if any
	ReasonCode string `gorm:"column:reason_code;type:text"`
	// BatchID references the daily batch this reading was consolidated into
	BatchID *string `gorm:"column:batch_id;type:text;index"`
	// CreatedAt is the timestamp when this reading row was written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`

	// Associations
	Vehicle Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the TelemetryReading model
func (TelemetryReading) TableName() string {
	return "telemetry_readings"
}
