package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/ricolabs/procure-api/internal/models"
)

// AgreementFSM wraps an agreement with its state machine.
// Edges: pending_vendor → pending_cfo → active, with rejected reachable
// from either pending state. active and rejected are terminal.
type AgreementFSM struct {
	agreement *models.Agreement
	fsm       *fsm.FSM
}

// NewAgreementFSM creates a new agreement state machine
func NewAgreementFSM(agreement *models.Agreement) *AgreementFSM {
	a := &AgreementFSM{
		agreement: agreement,
	}

	a.fsm = fsm.NewFSM(
		agreement.Status,
		fsm.Events{
			// pending_vendor → pending_cfo (vendor countersigns)
			{Name: "vendor_approve", Src: []string{models.AgreementStatusPendingVendor}, Dst: models.AgreementStatusPendingCFO},

			// pending_cfo → active (CFO activates)
			{Name: "cfo_approve", Src: []string{models.AgreementStatusPendingCFO}, Dst: models.AgreementStatusActive},

			// pending_vendor/pending_cfo → rejected
			{Name: "reject", Src: []string{models.AgreementStatusPendingVendor, models.AgreementStatusPendingCFO}, Dst: models.AgreementStatusRejected},
		},
		fsm.Callbacks{},
	)

	return a
}

// VendorApprove transitions the agreement to pending_cfo
func (a *AgreementFSM) VendorApprove(ctx context.Context) error {
	if !a.agreement.MayVendorApprove() {
		return fmt.Errorf("agreement cannot be vendor-approved in current state: %s", a.agreement.Status)
	}

	if err := a.fsm.Event(ctx, "vendor_approve"); err != nil {
		return fmt.Errorf("failed to vendor-approve agreement: %w", err)
	}

	a.agreement.Status = a.fsm.Current()
	return nil
}

// CFOApprove transitions the agreement to active
func (a *AgreementFSM) CFOApprove(ctx context.Context) error {
	if !a.agreement.MayCFOApprove() {
		return fmt.Errorf("agreement cannot be CFO-approved in current state: %s", a.agreement.Status)
	}

	if err := a.fsm.Event(ctx, "cfo_approve"); err != nil {
		return fmt.Errorf("failed to CFO-approve agreement: %w", err)
	}

	a.agreement.Status = a.fsm.Current()
	return nil
}

// Reject transitions the agreement to rejected
func (a *AgreementFSM) Reject(ctx context.Context) error {
	if !a.agreement.MayReject() {
		return fmt.Errorf("agreement cannot be rejected in current state: %s", a.agreement.Status)
	}

	if err := a.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject agreement: %w", err)
	}

	a.agreement.Status = a.fsm.Current()
	return nil
}

// Current returns the current state
func (a *AgreementFSM) Current() string {
	return a.fsm.Current()
}

// Can checks if a transition is possible
func (a *AgreementFSM) Can(event string) bool {
	return a.fsm.Can(event)
}
