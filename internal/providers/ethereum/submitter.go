// Package ethereum implements the transaction ledger over an Ethereum
// compatible chain: the batch fingerprint is committed as calldata of a
// signed zero-value transaction to the configured anchor address.
package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/ledger"
	"github.com/veridrive/veridrive/internal/ratelimit"
)

// PROVIDER_NAME identifies the chain RPC endpoint in rate limiter configuration
const PROVIDER_NAME = "ethereum"

// anchorGasLimit covers a plain transfer plus the fingerprint calldata
const anchorGasLimit = 100_000

// Config holds submitter configuration
type Config struct {
	// AnchorAddress is the recipient of anchor transactions
	AnchorAddress string
}

type submitter struct {
	client         adapter.EthClient
	rateLimitProxy ratelimit.Proxy
	to             common.Address
}

// NewSubmitter creates a transaction ledger submitter backed by an Ethereum
// client. A nil rateLimitProxy disables rate limiting.
func NewSubmitter(client adapter.EthClient, rateLimitProxy ratelimit.Proxy, cfg Config) (ledger.TransactionLedger, error) {
	if !common.IsHexAddress(cfg.AnchorAddress) {
		return nil, fmt.Errorf("invalid anchor address %q", cfg.AnchorAddress)
	}
	return &submitter{
		client:         client,
		rateLimitProxy: rateLimitProxy,
		to:             common.HexToAddress(cfg.AnchorAddress),
	}, nil
}

// Submit broadcasts the fingerprint payload as a signed transaction and
// returns the transaction hash
func (s *submitter) Submit(ctx context.Context, payload []byte, credential *ledger.SigningCredential) (string, error) {
	if credential == nil || credential.PrivateKey == nil {
		return "", fmt.Errorf("no signing credential available")
	}

	from := gethcrypto.PubkeyToAddress(credential.PrivateKey.PublicKey)

	return ratelimit.Request(ctx, s.rateLimitProxy, PROVIDER_NAME, func(ctx context.Context) (string, error) {
		return s.submit(ctx, from, payload, credential)
	})
}

// submit does the nonce/gas/sign/send dance against the RPC endpoint
func (s *submitter) submit(ctx context.Context, from common.Address, payload []byte, credential *ledger.SigningCredential) (string, error) {
	nonce, err := s.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get chain id: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &s.to,
		Value:    big.NewInt(0),
		Gas:      anchorGasLimit,
		GasPrice: gasPrice,
		Data:     payload,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), credential.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signed.Hash().Hex(), nil
}
