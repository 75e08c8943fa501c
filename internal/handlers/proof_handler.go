package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ricolabs/procure-api/internal/middleware"
	"github.com/ricolabs/procure-api/internal/services"
)

type ProofHandler struct {
	proofService *services.ProofService
}

func NewProofHandler(proofService *services.ProofService) *ProofHandler {
	return &ProofHandler{proofService: proofService}
}

// @Summary Generate Range Proof
// @Description Issue a proof that the verified spend in a window satisfies a numeric claim. Fails when the claim does not hold; the aggregate is never disclosed.
// @Tags Proofs
// @Accept json
// @Produce json
// @Param request body services.ProofInput true "Claim"
// @Success 201 {object} models.RangeProof
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /proofs [post]
func (h *ProofHandler) Generate(c *gin.Context) {
	var input services.ProofInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proof payload: " + err.Error()})
		return
	}

	proof, err := h.proofService.Generate(c.Request.Context(), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"proof": proof})
}

// @Summary List Range Proofs
// @Description Get all proofs issued to the caller, statuses derived at read time
// @Tags Proofs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /proofs [get]
func (h *ProofHandler) Index(c *gin.Context) {
	proofs, err := h.proofService.List(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proofs": proofs})
}

// @Summary Verify Range Proof
// @Description Public verification endpoint. Returns the claim metadata and effective status, never the underlying spend.
// @Tags Proofs
// @Produce json
// @Param proof_id path string true "Proof ID"
// @Success 200 {object} models.RangeProofResponse
// @Failure 404 {object} map[string]string
// @Router /proofs/verify/{proof_id} [get]
func (h *ProofHandler) Verify(c *gin.Context) {
	proof, err := h.proofService.Verify(c.Request.Context(), c.Param("proof_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proof": proof})
}

// @Summary Revoke Range Proof
// @Description Permanently invalidate a valid proof. CFO only.
// @Tags Proofs
// @Produce json
// @Param proof_id path string true "Proof ID"
// @Success 200 {object} models.RangeProofResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /proofs/{proof_id}/revoke [post]
func (h *ProofHandler) Revoke(c *gin.Context) {
	proof, err := h.proofService.Revoke(c.Request.Context(), c.Param("proof_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proof": proof})
}
