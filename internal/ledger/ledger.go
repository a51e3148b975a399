// Package ledger defines the interfaces to the two independent external
// ledgers used for anchoring: a permanent-storage ledger that archives batch
// content durably, and a transaction ledger that records a lightweight proof
// transaction. The two are separate sinks, not a two-phase-commit pair.
package ledger

import (
	"context"
	"crypto/ecdsa"
)

// CredentialLabel identifies which signing credential path was used
type CredentialLabel string

const (
	CredentialOwner    CredentialLabel = "owner"
	CredentialPlatform CredentialLabel = "platform"
)

// SigningCredential is a transaction ledger signing key. Swapping the owner
// credential for the platform fallback never changes the submission call shape.
type SigningCredential struct {
	Label      CredentialLabel
	PrivateKey *ecdsa.PrivateKey
}

// PermanentLedger archives content durably and returns an opaque reference
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=PermanentLedger=MockPermanentLedger
type PermanentLedger interface {
	// Upload stores the content and returns its reference identifier
	Upload(ctx context.Context, content []byte, contentType string, tags []string) (string, error)
}

// TransactionLedger records a fingerprint commitment as a signed transaction
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=TransactionLedger=MockTransactionLedger
type TransactionLedger interface {
	// Submit commits the fingerprint payload signed with the given credential
	// and returns the transaction reference
	Submit(ctx context.Context, payload []byte, credential *SigningCredential) (string, error)
}

// CredentialProvider resolves signing credentials for transaction ledger
// submissions
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=CredentialProvider=MockCredentialProvider
type CredentialProvider interface {
	// OwnerCredential returns the vehicle owner's credential, nil when the
	// owner has none registered
	OwnerCredential(ctx context.Context, vehicleID string) (*SigningCredential, error)
	// PlatformCredential returns the platform-level fallback credential
	PlatformCredential() *SigningCredential
}
