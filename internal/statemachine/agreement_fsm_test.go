package statemachine

import (
	"context"
	"testing"

	"github.com/ricolabs/procure-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAgreementFSM_FullApprovalPath(t *testing.T) {
	agreement := &models.Agreement{ID: "AGR-2026-001", Status: models.AgreementStatusPendingVendor}
	ctx := context.Background()

	fsm := NewAgreementFSM(agreement)
	assert.NoError(t, fsm.VendorApprove(ctx))
	assert.Equal(t, models.AgreementStatusPendingCFO, agreement.Status)

	fsm = NewAgreementFSM(agreement)
	assert.NoError(t, fsm.CFOApprove(ctx))
	assert.Equal(t, models.AgreementStatusActive, agreement.Status)
	assert.True(t, agreement.IsTerminal())
}

func TestAgreementFSM_StageOrderEnforced(t *testing.T) {
	ctx := context.Background()

	// CFO cannot approve before the vendor countersigned
	agreement := &models.Agreement{Status: models.AgreementStatusPendingVendor}
	assert.Error(t, NewAgreementFSM(agreement).CFOApprove(ctx))
	assert.Equal(t, models.AgreementStatusPendingVendor, agreement.Status)

	// Vendor cannot approve twice
	agreement = &models.Agreement{Status: models.AgreementStatusPendingCFO}
	assert.Error(t, NewAgreementFSM(agreement).VendorApprove(ctx))
	assert.Equal(t, models.AgreementStatusPendingCFO, agreement.Status)
}

func TestAgreementFSM_RejectFromPendingStates(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{models.AgreementStatusPendingVendor, models.AgreementStatusPendingCFO} {
		agreement := &models.Agreement{Status: status}
		assert.NoError(t, NewAgreementFSM(agreement).Reject(ctx))
		assert.Equal(t, models.AgreementStatusRejected, agreement.Status)
	}
}

func TestAgreementFSM_TerminalStatesAreFinal(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{models.AgreementStatusActive, models.AgreementStatusRejected} {
		agreement := &models.Agreement{Status: status}
		fsm := NewAgreementFSM(agreement)
		assert.Error(t, fsm.VendorApprove(ctx))
		assert.Error(t, fsm.CFOApprove(ctx))
		assert.Error(t, fsm.Reject(ctx))
		assert.Equal(t, status, agreement.Status)
	}
}

func TestReceiptFSM_Transitions(t *testing.T) {
	ctx := context.Background()

	receipt := &models.Receipt{Status: models.ReceiptStatusPendingApproval}
	assert.NoError(t, NewReceiptFSM(receipt).Approve(ctx))
	assert.Equal(t, models.ReceiptStatusVerified, receipt.Status)

	receipt = &models.Receipt{Status: models.ReceiptStatusPendingApproval}
	assert.NoError(t, NewReceiptFSM(receipt).Reject(ctx))
	assert.Equal(t, models.ReceiptStatusRejected, receipt.Status)
}

func TestReceiptFSM_TerminalStatesAreFinal(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{models.ReceiptStatusVerified, models.ReceiptStatusRejected} {
		receipt := &models.Receipt{Status: status}
		fsm := NewReceiptFSM(receipt)
		assert.Error(t, fsm.Approve(ctx))
		assert.Error(t, fsm.Reject(ctx))
		assert.Equal(t, status, receipt.Status)
	}
}
