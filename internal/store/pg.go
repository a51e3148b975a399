package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to safe defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings
// into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// GetVehicleByID retrieves a vehicle by its external identifier
func (s *pgStore) GetVehicleByID(ctx context.Context, vehicleID string) (*schema.Vehicle, error) {
	var vehicle schema.Vehicle
	err := s.db.WithContext(ctx).Where("id = ?", vehicleID).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &vehicle, nil
}

// CreateVehicle registers a new vehicle
func (s *pgStore) CreateVehicle(ctx context.Context, vehicle *schema.Vehicle) error {
	if err := s.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// AppendTrustEvent atomically appends a trust event and advances the vehicle's
// embedded trust state in a single transaction. The UPDATE is guarded by the
// trust_event_count the caller observed, so two concurrent updaters can never
// both win against the same previous score.
func (s *pgStore) AppendTrustEvent(ctx context.Context, input AppendTrustEventInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&schema.Vehicle{}).
			Where("id = ? AND trust_event_count = ?", input.Event.VehicleID, input.ExpectedEventCount).
			Updates(map[string]interface{}{
				"trust_score":         input.Event.NewScore,
				"trust_event_count":   gorm.Expr("trust_event_count + 1"),
				"last_trust_event_at": input.Event.EventTimestamp,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update vehicle trust state: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Another updater won the race; the caller re-reads and retries
			return domain.ErrStaleTrustState
		}

		if err := tx.Create(&input.Event).Error; err != nil {
			return fmt.Errorf("failed to append trust event: %w", err)
		}

		return nil
	})
}

// GetTrustHistory returns a vehicle's trust events most recent first
func (s *pgStore) GetTrustHistory(ctx context.Context, vehicleID string, limit int) ([]*schema.TrustEvent, error) {
	query := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("event_timestamp DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []*schema.TrustEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to get trust history: %w", err)
	}

	return events, nil
}

// GetTrustEventsChronological returns the full event chain oldest first
func (s *pgStore) GetTrustEventsChronological(ctx context.Context, vehicleID string) ([]*schema.TrustEvent, error) {
	var events []*schema.TrustEvent
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("event_timestamp ASC, created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get trust events: %w", err)
	}

	return events, nil
}

// OverwriteTrustScore replaces the vehicle's current score without creating an
// event. The recompute path uses this after replaying the full history.
func (s *pgStore) OverwriteTrustScore(ctx context.Context, vehicleID string, score int) error {
	result := s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Model(&schema.Vehicle{}).
		Where("id = ?", vehicleID).
		Update("trust_score", score)
	if result.Error != nil {
		return fmt.Errorf("failed to overwrite trust score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

// CreateReading persists a raw telemetry reading
func (s *pgStore) CreateReading(ctx context.Context, reading *schema.TelemetryReading) error {
	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("failed to create reading: %w", err)
	}
	return nil
}

// GetLatestReading returns the most recent reading for a vehicle
func (s *pgStore) GetLatestReading(ctx context.Context, vehicleID string) (*schema.TelemetryReading, error) {
	var reading schema.TelemetryReading
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("timestamp DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}

	return &reading, nil
}

// CreateBatch opens a new daily batch, enforcing one batch per (vehicle, date)
func (s *pgStore) CreateBatch(ctx context.Context, batch *schema.TelemetryBatch) error {
	// ON CONFLICT DO NOTHING on the (vehicle_id, date) unique index; a row
	// that comes back without having been inserted means the day already exists
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vehicle_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(batch)
	if result.Error != nil {
		return fmt.Errorf("failed to create batch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBatchAlreadyExists
	}

	return nil
}

// GetBatch retrieves the batch for a (vehicle, date) pair
func (s *pgStore) GetBatch(ctx context.Context, vehicleID string, date time.Time) (*schema.TelemetryBatch, error) {
	var batch schema.TelemetryBatch
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ? AND date = ?", vehicleID, domain.DayKey(date)).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	return &batch, nil
}

// GetBatchByID retrieves a batch by its identifier
func (s *pgStore) GetBatchByID(ctx context.Context, batchID string) (*schema.TelemetryBatch, error) {
	var batch schema.TelemetryBatch
	err := s.db.WithContext(ctx).Where("id = ?", batchID).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	return &batch, nil
}

// UpdateBatchContent persists recalculated day-summary fields while the batch
// is still open, stamping the contributing reading's batch_id in the same
// transaction. The state guard rejects writes racing a finalizer; the stamp
// makes the append observable, so a redelivered reading is never folded in
// twice.
func (s *pgStore) UpdateBatchContent(ctx context.Context, batch *schema.TelemetryBatch, readingID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&schema.TelemetryBatch{}).
			Where("id = ? AND state = ?", batch.ID, string(domain.BatchStateOpen)).
			Updates(map[string]interface{}{
				"start_mileage":      batch.StartMileage,
				"end_mileage":        batch.EndMileage,
				"distance_km":        batch.DistanceKM,
				"reading_count":      batch.ReadingCount,
				"avg_speed_kmh":      batch.AvgSpeedKMH,
				"avg_engine_rpm":     batch.AvgEngineRPM,
				"avg_signal_quality": batch.AvgSignalQuality,
				"rollback_count":     batch.RollbackCount,
				"segments":           batch.Segments,
				"updated_at":         time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrInvalidBatchState
		}

		if readingID != 0 {
			if err := tx.
				Model(&schema.TelemetryReading{}).
				Where("id = ?", readingID).
				Update("batch_id", batch.ID).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBatchState) {
			return err
		}
		return fmt.Errorf("failed to update batch content: %w", err)
	}

	return nil
}

// TransitionBatchState moves a batch between lifecycle states with a
// compare-and-set guard so two finalizers cannot both win
func (s *pgStore) TransitionBatchState(ctx context.Context, batchID string, from, to domain.BatchState) error {
	result := s.db.WithContext(ctx).
		Model(&schema.TelemetryBatch{}).
		Where("id = ? AND state = ?", batchID, string(from)).
		Update("state", string(to))
	if result.Error != nil {
		return fmt.Errorf("failed to transition batch state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidBatchState
	}

	return nil
}

// FinalizeBatch records the computed validity and freezes the batch
func (s *pgStore) FinalizeBatch(ctx context.Context, batchID string, validity domain.BatchValidity, finalizedAt time.Time) error {
	anomalies := validity.Anomalies
	if anomalies == nil {
		anomalies = []string{}
	}

	result := s.db.WithContext(ctx).
		Model(&schema.TelemetryBatch{}).
		Where("id = ? AND state = ?", batchID, string(domain.BatchStateFinalizing)).
		Updates(map[string]interface{}{
			"state":        string(domain.BatchStateFinalized),
			"is_valid":     validity.IsValid,
			"fraud_score":  validity.FraudScore,
			"anomalies":    anomalies,
			"finalized_at": finalizedAt,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finalize batch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidBatchState
	}

	return nil
}

// SaveBatchAnchoring persists anchoring references and status and increments
// the submission attempt counter
func (s *pgStore) SaveBatchAnchoring(ctx context.Context, batchID string, update BatchAnchoringUpdate) error {
	result := s.db.WithContext(ctx).
		Model(&schema.TelemetryBatch{}).
		Where("id = ? AND state = ?", batchID, string(domain.BatchStateFinalized)).
		Updates(map[string]interface{}{
			"fingerprint":            update.Fingerprint,
			"permanent_ledger_ref":   update.PermanentLedgerRef,
			"transaction_ledger_ref": update.TransactionLedgerRef,
			"anchor_status":          string(update.Status),
			"submission_attempts":    gorm.Expr("submission_attempts + 1"),
			"last_anchor_error":      update.LastError,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save batch anchoring: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidBatchState
	}

	return nil
}

// ListBatchesForVehicle returns a vehicle's batches newest first
func (s *pgStore) ListBatchesForVehicle(ctx context.Context, vehicleID string, limit int) ([]*schema.TelemetryBatch, error) {
	query := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if hasDBResolver(s.db) {
		query = query.Clauses(dbresolver.Read)
	}

	var batches []*schema.TelemetryBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	return batches, nil
}

// ListOpenBatchesBefore returns open batches whose date precedes the cutoff
func (s *pgStore) ListOpenBatchesBefore(ctx context.Context, cutoff time.Time, limit int) ([]*schema.TelemetryBatch, error) {
	query := s.db.WithContext(ctx).
		Where("state = ? AND date < ?", string(domain.BatchStateOpen), domain.DayKey(cutoff)).
		Order("date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var batches []*schema.TelemetryBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to list open batches: %w", err)
	}

	return batches, nil
}

// ListRetryableBatches returns finalized valid batches whose anchoring failed
// and was last attempted before the cutoff
func (s *pgStore) ListRetryableBatches(ctx context.Context, attemptedBefore time.Time, limit int) ([]*schema.TelemetryBatch, error) {
	query := s.db.WithContext(ctx).
		Where("state = ? AND is_valid = ? AND anchor_status = ? AND updated_at < ?",
			string(domain.BatchStateFinalized), true, string(domain.AnchorStatusFailed), attemptedBefore).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var batches []*schema.TelemetryBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to list retryable batches: %w", err)
	}

	return batches, nil
}

// ListStaleFinalizingBatches returns batches stuck in the finalizing state
// since before the cutoff
func (s *pgStore) ListStaleFinalizingBatches(ctx context.Context, updatedBefore time.Time, limit int) ([]*schema.TelemetryBatch, error) {
	query := s.db.WithContext(ctx).
		Where("state = ? AND updated_at < ?", string(domain.BatchStateFinalizing), updatedBefore).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var batches []*schema.TelemetryBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to list stale finalizing batches: %w", err)
	}

	return batches, nil
}
