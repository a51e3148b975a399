package ethereum

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/veridrive/veridrive/internal/ledger"
)

// KeystoreConfig holds credential provider configuration
type KeystoreConfig struct {
	// PlatformKeyHex is the hex-encoded platform signing key
	PlatformKeyHex string
	// OwnerKeyDir holds per-vehicle owner keys as <vehicleID>.key files;
	// empty disables owner signing entirely
	OwnerKeyDir string
}

type keystore struct {
	platform *ledger.SigningCredential
	ownerDir string
}

// NewKeystore creates a credential provider from a platform key and an
// optional directory of per-vehicle owner keys
func NewKeystore(cfg KeystoreConfig) (ledger.CredentialProvider, error) {
	platformKey, err := gethcrypto.HexToECDSA(cfg.PlatformKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse platform key: %w", err)
	}

	return &keystore{
		platform: &ledger.SigningCredential{
			Label:      ledger.CredentialPlatform,
			PrivateKey: platformKey,
		},
		ownerDir: cfg.OwnerKeyDir,
	}, nil
}

// OwnerCredential loads the vehicle owner's key, nil when none is registered
func (k *keystore) OwnerCredential(_ context.Context, vehicleID string) (*ledger.SigningCredential, error) {
	if k.ownerDir == "" {
		return nil, nil
	}

	path := filepath.Join(k.ownerDir, vehicleID+".key")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	key, err := gethcrypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner key for vehicle %s: %w", vehicleID, err)
	}

	return &ledger.SigningCredential{
		Label:      ledger.CredentialOwner,
		PrivateKey: key,
	}, nil
}

// PlatformCredential returns the platform-level fallback credential
func (k *keystore) PlatformCredential() *ledger.SigningCredential {
	return k.platform
}
