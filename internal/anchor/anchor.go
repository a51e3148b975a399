// Package anchor implements the dual-ledger anchoring orchestrator. It
// fingerprints a finalized batch and submits it to the permanent-storage and
// transaction ledgers concurrently, tolerating either submission failing.
package anchor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/ledger"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/store"
	"github.com/veridrive/veridrive/internal/store/schema"
)

// Config holds orchestrator configuration
type Config struct {
	// PermanentLedgerEnabled globally disables permanent-storage submissions
	PermanentLedgerEnabled bool
	// SubmitTimeout bounds each individual ledger submission; it must be
	// shorter than the caller's overall request deadline
	SubmitTimeout time.Duration
}

// Orchestrator anchors finalized batches onto the two external ledgers
//
//go:generate mockgen -source=anchor.go -destination=../mocks/anchor.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// Anchor fingerprints the batch and submits it to both ledgers.
	// Every failure path produces a structured result, never an error return
	// for a submission failure; the error return is reserved for persistence
	// failures recording the outcome.
	Anchor(ctx context.Context, batch *schema.TelemetryBatch) (*domain.AnchorResult, error)
}

type orchestrator struct {
	store       store.Store
	permanent   ledger.PermanentLedger
	transaction ledger.TransactionLedger
	credentials ledger.CredentialProvider
	jcs         adapter.JCS
	json        adapter.JSON
	config      Config
	entropy     *ulid.MonotonicEntropy
}

// NewOrchestrator creates a new anchoring orchestrator
func NewOrchestrator(
	st store.Store,
	permanent ledger.PermanentLedger,
	transaction ledger.TransactionLedger,
	credentials ledger.CredentialProvider,
	jcsAdapter adapter.JCS,
	jsonAdapter adapter.JSON,
	cfg Config,
) Orchestrator {
	if cfg.SubmitTimeout == 0 {
		cfg.SubmitTimeout = 30 * time.Second
	}
	return &orchestrator{
		store:       st,
		permanent:   permanent,
		transaction: transaction,
		credentials: credentials,
		jcs:         jcsAdapter,
		json:        jsonAdapter,
		config:      cfg,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// fingerprintPayload is the canonical batch content committed to the ledgers.
// Anchoring metadata is deliberately excluded so repeated anchoring attempts
// of identical content produce an identical fingerprint.
type fingerprintPayload struct {
	BatchID      string               `json:"batch_id"`
	VehicleID    string               `json:"vehicle_id"`
	DeviceID     string               `json:"device_id"`
	Date         string               `json:"date"`
	StartMileage float64              `json:"start_mileage"`
	EndMileage   float64              `json:"end_mileage"`
	DistanceKM   float64              `json:"distance_km"`
	ReadingCount int                  `json:"reading_count"`
	Segments     []domain.TripSegment `json:"segments"`
	IsValid      bool                 `json:"is_valid"`
	FraudScore   int                  `json:"fraud_score"`
	Anomalies    []string             `json:"anomalies"`
}

func (o *orchestrator) Anchor(ctx context.Context, batch *schema.TelemetryBatch) (*domain.AnchorResult, error) {
	if batch.State != string(domain.BatchStateFinalized) {
		return nil, fmt.Errorf("%w: batch %s is %s, want finalized", domain.ErrInvalidBatchState, batch.ID, batch.State)
	}
	if !batch.IsValid {
		return &domain.AnchorResult{
			Success: false,
			BatchID: batch.ID,
			Status:  domain.AnchorStatus(batch.AnchorStatus),
			Error:   fmt.Sprintf("batch %s failed validation (fraud score %d) and is not eligible for anchoring", batch.ID, batch.FraudScore),
		}, nil
	}

	// Idempotency: a batch that already carries a real transaction reference
	// is returned as-is with zero new submissions
	if batch.HasRealTransactionRef() {
		logger.InfoCtx(ctx, "Batch already anchored, returning existing references",
			zap.String("batch_id", batch.ID),
			zap.String("transaction_ref", batch.TransactionLedgerRef))
		return &domain.AnchorResult{
			Success:              true,
			BatchID:              batch.ID,
			Fingerprint:          batch.Fingerprint,
			PermanentLedgerRef:   batch.PermanentLedgerRef,
			TransactionLedgerRef: batch.TransactionLedgerRef,
			Status:               domain.AnchorStatus(batch.AnchorStatus),
		}, nil
	}

	canonical, fingerprint, err := o.Fingerprint(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint batch: %w", err)
	}

	permRef, txRef, txFellBack, lastErr := o.submitBoth(ctx, batch, canonical, fingerprint)

	status := domain.AnchorStatusFailed
	switch {
	case txFellBack:
		// The transaction ledger produced only a locally generated fallback
		status = domain.AnchorStatusFailed
	case permRef != "":
		status = domain.AnchorStatusAnchored
	default:
		status = domain.AnchorStatusPartial
	}

	errText := ""
	if lastErr != nil {
		errText = lastErr.Error()
	}

	if err := o.store.SaveBatchAnchoring(ctx, batch.ID, store.BatchAnchoringUpdate{
		Fingerprint:          fingerprint,
		PermanentLedgerRef:   permRef,
		TransactionLedgerRef: txRef,
		Status:               status,
		LastError:            errText,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist anchoring result: %w", err)
	}

	logger.InfoCtx(ctx, "Anchoring round completed",
		zap.String("batch_id", batch.ID),
		zap.String("status", string(status)),
		zap.String("fingerprint", fingerprint),
		zap.Bool("fallback_transaction_ref", txFellBack))

	return &domain.AnchorResult{
		Success:              status != domain.AnchorStatusFailed,
		BatchID:              batch.ID,
		Fingerprint:          fingerprint,
		PermanentLedgerRef:   permRef,
		TransactionLedgerRef: txRef,
		Status:               status,
		Error:                errText,
	}, nil
}

// submitBoth fans out to the two ledgers concurrently and joins, tolerating
// either failing. The submissions were once sequential; the concurrent join
// keeps the slower ledger from eating the whole request deadline.
func (o *orchestrator) submitBoth(ctx context.Context, batch *schema.TelemetryBatch, canonical []byte, fingerprint string) (permRef, txRef string, txFellBack bool, lastErr error) {
	type permOutcome struct {
		ref string
		err error
	}
	type txOutcome struct {
		ref string
		err error
	}

	permCh := make(chan permOutcome, 1)
	txCh := make(chan txOutcome, 1)

	go func() {
		if !o.config.PermanentLedgerEnabled {
			permCh <- permOutcome{}
			return
		}
		subCtx, cancel := context.WithTimeout(ctx, o.config.SubmitTimeout)
		defer cancel()

		ref, err := o.permanent.Upload(subCtx, canonical, "application/json", []string{
			"vehicle:" + batch.VehicleID,
			"date:" + batch.Date.Format("2006-01-02"),
			"fingerprint:" + fingerprint,
		})
		permCh <- permOutcome{ref: ref, err: err}
	}()

	go func() {
		subCtx, cancel := context.WithTimeout(ctx, o.config.SubmitTimeout)
		defer cancel()

		credential := o.resolveCredential(subCtx, batch.VehicleID)
		ref, err := o.transaction.Submit(subCtx, []byte(fingerprint), credential)
		txCh <- txOutcome{ref: ref, err: err}
	}()

	perm := <-permCh
	tx := <-txCh

	if perm.err != nil {
		// Non-fatal: log and proceed on the transaction ledger alone
		lastErr = domain.NewLedgerSubmissionError(domain.LedgerPermanentStorage, perm.err)
		logger.WarnCtx(ctx, "Permanent-storage ledger submission failed",
			zap.String("batch_id", batch.ID),
			zap.Error(perm.err))
	}
	permRef = perm.ref

	txRef = tx.ref
	if tx.err != nil {
		// Fatal for this round: fall back to a locally generated reference so
		// the batch is not left in limbo, and surface the failure for retry
		lastErr = domain.NewLedgerSubmissionError(domain.LedgerTransaction, tx.err)
		txRef = domain.LocalAnchorRefPrefix + ulid.MustNew(ulid.Now(), o.entropy).String()
		txFellBack = true
		logger.WarnCtx(ctx, "Transaction ledger submission failed, using local fallback reference",
			zap.String("batch_id", batch.ID),
			zap.String("fallback_ref", txRef),
			zap.Error(tx.err))
	}

	return permRef, txRef, txFellBack, lastErr
}

// resolveCredential prefers the owner's credential and falls back to the
// platform credential when the owner's is missing or unusable
func (o *orchestrator) resolveCredential(ctx context.Context, vehicleID string) *ledger.SigningCredential {
	credential, err := o.credentials.OwnerCredential(ctx, vehicleID)
	if err != nil {
		logger.WarnCtx(ctx, "Owner credential unusable, falling back to platform credential",
			zap.String("vehicle_id", vehicleID),
			zap.Error(err))
		credential = nil
	}
	if credential == nil {
		credential = o.credentials.PlatformCredential()
	}

	logger.InfoCtx(ctx, "Signing transaction ledger submission",
		zap.String("vehicle_id", vehicleID),
		zap.String("credential", string(credential.Label)))

	return credential
}

// Fingerprint computes the deterministic content hash of a batch: sha256 over
// the RFC 8785 canonicalized JSON of its content payload. Returns the
// canonical bytes and the hex digest.
func (o *orchestrator) Fingerprint(batch *schema.TelemetryBatch) ([]byte, string, error) {
	segments := []domain.TripSegment(batch.Segments)
	if segments == nil {
		segments = []domain.TripSegment{}
	}
	anomalies := []string(batch.Anomalies)
	if anomalies == nil {
		anomalies = []string{}
	}

	payload := fingerprintPayload{
		BatchID:      batch.ID,
		VehicleID:    batch.VehicleID,
		DeviceID:     batch.DeviceID,
		Date:         batch.Date.Format("2006-01-02"),
		StartMileage: batch.StartMileage,
		EndMileage:   batch.EndMileage,
		DistanceKM:   batch.DistanceKM,
		ReadingCount: batch.ReadingCount,
		Segments:     segments,
		IsValid:      batch.IsValid,
		FraudScore:   batch.FraudScore,
		Anomalies:    anomalies,
	}

	raw, err := o.json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal fingerprint payload: %w", err)
	}

	canonical, err := o.jcs.Transform(raw)
	if err != nil {
		return nil, "", fmt.Errorf("failed to canonicalize fingerprint payload: %w", err)
	}

	digest := sha256.Sum256(canonical)
	return canonical, hex.EncodeToString(digest[:]), nil
}
