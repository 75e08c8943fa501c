package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/ricolabs/procure-api/internal/models"
)

// ReceiptFSM wraps a receipt with its state machine.
// A receipt enters either verified (auto-settled by the compliance gate) or
// pending_approval (escalated); pending_approval resolves to verified or
// rejected by CFO decision. verified and rejected are terminal.
type ReceiptFSM struct {
	receipt *models.Receipt
	fsm     *fsm.FSM
}

// NewReceiptFSM creates a new receipt state machine
func NewReceiptFSM(receipt *models.Receipt) *ReceiptFSM {
	r := &ReceiptFSM{
		receipt: receipt,
	}

	r.fsm = fsm.NewFSM(
		receipt.Status,
		fsm.Events{
			// pending_approval → verified (CFO approves)
			{Name: "approve", Src: []string{models.ReceiptStatusPendingApproval}, Dst: models.ReceiptStatusVerified},

			// pending_approval → rejected
			{Name: "reject", Src: []string{models.ReceiptStatusPendingApproval}, Dst: models.ReceiptStatusRejected},
		},
		fsm.Callbacks{},
	)

	return r
}

// Approve transitions the receipt to verified
func (r *ReceiptFSM) Approve(ctx context.Context) error {
	if !r.receipt.MayApprove() {
		return fmt.Errorf("receipt cannot be approved in current state: %s", r.receipt.Status)
	}

	if err := r.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve receipt: %w", err)
	}

	r.receipt.Status = r.fsm.Current()
	return nil
}

// Reject transitions the receipt to rejected
func (r *ReceiptFSM) Reject(ctx context.Context) error {
	if !r.receipt.MayReject() {
		return fmt.Errorf("receipt cannot be rejected in current state: %s", r.receipt.Status)
	}

	if err := r.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject receipt: %w", err)
	}

	r.receipt.Status = r.fsm.Current()
	return nil
}

// Current returns the current state
func (r *ReceiptFSM) Current() string {
	return r.fsm.Current()
}
