package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ricolabs/procure-api/internal/middleware"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/internal/services"
)

type AgreementHandler struct {
	agreementService *services.AgreementService
}

func NewAgreementHandler(agreementService *services.AgreementService) *AgreementHandler {
	return &AgreementHandler{agreementService: agreementService}
}

// @Summary List Agreements
// @Description Get a paginated list of agreements, newest first
// @Tags Agreements
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search term"
// @Param status query string false "Filter by status (comma-separated)"
// @Param vendor_id query int false "Filter by vendor"
// @Param category_id query int false "Filter by category"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /agreements [get]
func (h *AgreementHandler) Index(c *gin.Context) {
	query := &repository.AgreementQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Status = c.Query("status")
	if vendorID, err := strconv.ParseUint(c.Query("vendor_id"), 10, 32); err == nil {
		query.VendorID = uint(vendorID)
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 32); err == nil {
		query.CategoryID = uint(categoryID)
	}

	agreements, total, err := h.agreementService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(agreements))
	for _, agreement := range agreements {
		responses = append(responses, agreement.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"agreements": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Agreement
// @Description Get an agreement by ID with vendor, category and line items
// @Tags Agreements
// @Produce json
// @Param agreement_id path string true "Agreement ID"
// @Success 200 {object} models.AgreementResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /agreements/{agreement_id} [get]
func (h *AgreementHandler) Show(c *gin.Context) {
	agreement, err := h.agreementService.FindByID(c.Request.Context(), c.Param("agreement_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreement": agreement.ToResponse()})
}

// @Summary Create Agreement
// @Description Create a procurement agreement awaiting vendor countersignature
// @Tags Agreements
// @Accept json
// @Produce json
// @Param request body services.AgreementInput true "Agreement Data"
// @Success 201 {object} models.AgreementResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /agreements [post]
func (h *AgreementHandler) Create(c *gin.Context) {
	var input services.AgreementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agreement payload: " + err.Error()})
		return
	}

	agreement, err := h.agreementService.Create(c.Request.Context(), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"agreement": agreement.ToResponse()})
}
