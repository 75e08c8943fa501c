package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ricolabs/procure-api/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func proofTestFixture(actualSpend int64) (*ProofService, *mockProofRepo) {
	proofRepo := &mockProofRepo{}
	receiptRepo := &mockReceiptRepo{
		mockSumVerifiedInRange: func(ctx context.Context, start, end time.Time) (int64, error) {
			return actualSpend, nil
		},
	}
	return NewProofService(proofRepo, receiptRepo), proofRepo
}

func betweenClaim(min, max int64) *ProofInput {
	return &ProofInput{
		Name:           "Q2 spend attestation",
		Purpose:        "Lender covenant check",
		DateRangeStart: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DateRangeEnd:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		ProofType:      models.ProofTypeBetween,
		RangeMin:       min,
		RangeMax:       max,
	}
}

func TestProofService_Generate_SatisfiedClaim(t *testing.T) {
	service, proofRepo := proofTestFixture(9_000_000)

	proof, err := service.Generate(context.Background(), betweenClaim(5_000_000, 15_000_000), 4)

	assert.NoError(t, err)
	assert.Len(t, proofRepo.created, 1)
	assert.NotEmpty(t, proof.ID)
	assert.True(t, strings.HasPrefix(proof.ProofHash, "0x"))
	assert.Len(t, proof.ProofHash, 66)
	assert.Equal(t, models.ProofStatusValid, proof.Status)
	assert.Equal(t, uint(4), proof.OwnerUserID)
	assert.WithinDuration(t, time.Now().Add(models.ProofValidity), proof.ExpiresAt, time.Minute)
}

// An unsatisfied claim yields a generic refusal and persists nothing. The
// error never reveals how far off the actual total was.
func TestProofService_Generate_UnsatisfiedClaim(t *testing.T) {
	service, proofRepo := proofTestFixture(20_000_000)

	proof, err := service.Generate(context.Background(), betweenClaim(5_000_000, 15_000_000), 4)

	assert.Nil(t, proof)
	assert.ErrorIs(t, err, ErrClaimNotSatisfied)
	assert.NotContains(t, err.Error(), "20")
	assert.Empty(t, proofRepo.created)
}

func TestProofService_Generate_PredicateTypes(t *testing.T) {
	tests := []struct {
		name      string
		proofType string
		min, max  int64
		actual    int64
		satisfied bool
	}{
		{"less-than holds", models.ProofTypeLessThan, 0, 10_000_000, 9_000_000, true},
		{"less-than equal boundary fails", models.ProofTypeLessThan, 0, 9_000_000, 9_000_000, false},
		{"greater-than holds", models.ProofTypeGreaterThan, 5_000_000, 0, 9_000_000, true},
		{"greater-than equal boundary fails", models.ProofTypeGreaterThan, 9_000_000, 0, 9_000_000, false},
		{"equals holds", models.ProofTypeEquals, 9_000_000, 0, 9_000_000, true},
		{"equals off by one fails", models.ProofTypeEquals, 9_000_001, 0, 9_000_000, false},
		{"between inclusive boundaries", models.ProofTypeBetween, 9_000_000, 9_000_000, 9_000_000, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := proofTestFixture(tc.actual)
			input := betweenClaim(tc.min, tc.max)
			input.ProofType = tc.proofType

			_, err := service.Generate(context.Background(), input, 4)
			if tc.satisfied {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrClaimNotSatisfied)
			}
		})
	}
}

func TestProofService_Generate_ValidationErrors(t *testing.T) {
	service, _ := proofTestFixture(9_000_000)
	ctx := context.Background()

	input := betweenClaim(5_000_000, 15_000_000)
	_, err := service.Generate(ctx, input, 0)
	assert.ErrorIs(t, err, ErrValidation)

	input = betweenClaim(5_000_000, 15_000_000)
	input.ProofType = "approximately"
	_, err = service.Generate(ctx, input, 4)
	assert.ErrorIs(t, err, ErrValidation)

	input = betweenClaim(15_000_000, 5_000_000)
	_, err = service.Generate(ctx, input, 4)
	assert.ErrorIs(t, err, ErrValidation)

	input = betweenClaim(5_000_000, 15_000_000)
	input.DateRangeEnd = input.DateRangeStart.AddDate(0, -1, 0)
	_, err = service.Generate(ctx, input, 4)
	assert.ErrorIs(t, err, ErrValidation)
}

// Expiry is derived at read time; the stored status column still says valid.
func TestProofService_Verify_LazyExpiry(t *testing.T) {
	proofRepo := &mockProofRepo{
		mockFindByID: func(ctx context.Context, id string) (*models.RangeProof, error) {
			return &models.RangeProof{
				ID:        id,
				Status:    models.ProofStatusValid,
				ExpiresAt: time.Now().Add(-time.Hour),
				Owner:     models.User{OrganizationName: "Rico Labs"},
			}, nil
		},
	}
	service := NewProofService(proofRepo, &mockReceiptRepo{})

	resp, err := service.Verify(context.Background(), "proof-1")

	assert.NoError(t, err)
	assert.Equal(t, models.ProofStatusExpired, resp.Status)
	assert.Equal(t, "Rico Labs", resp.Issuer)
}

func TestProofService_Verify_NotFound(t *testing.T) {
	proofRepo := &mockProofRepo{
		mockFindByID: func(ctx context.Context, id string) (*models.RangeProof, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewProofService(proofRepo, &mockReceiptRepo{})

	_, err := service.Verify(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProofService_Revoke(t *testing.T) {
	statusWritten := ""
	proofRepo := &mockProofRepo{
		mockFindByID: func(ctx context.Context, id string) (*models.RangeProof, error) {
			return &models.RangeProof{
				ID:        id,
				Status:    models.ProofStatusValid,
				ExpiresAt: time.Now().Add(24 * time.Hour),
			}, nil
		},
		mockUpdateStatus: func(ctx context.Context, id, status string) error {
			statusWritten = status
			return nil
		},
	}
	service := NewProofService(proofRepo, &mockReceiptRepo{})

	resp, err := service.Revoke(context.Background(), "proof-1")

	assert.NoError(t, err)
	assert.Equal(t, models.ProofStatusRevoked, statusWritten)
	assert.Equal(t, models.ProofStatusRevoked, resp.Status)
}

func TestProofService_Revoke_ExpiredProofRefused(t *testing.T) {
	proofRepo := &mockProofRepo{
		mockFindByID: func(ctx context.Context, id string) (*models.RangeProof, error) {
			return &models.RangeProof{
				ID:        id,
				Status:    models.ProofStatusValid,
				ExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	service := NewProofService(proofRepo, &mockReceiptRepo{})

	_, err := service.Revoke(context.Background(), "proof-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}
