package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ricolabs/procure-api/internal/extraction"
	"github.com/ricolabs/procure-api/internal/middleware"
	"github.com/ricolabs/procure-api/internal/repository"
	"github.com/ricolabs/procure-api/internal/services"
	"github.com/ricolabs/procure-api/internal/storage"
)

type ReceiptHandler struct {
	receiptService *services.ReceiptService
	extractor      extraction.Extractor
	documents      storage.DocumentStore
}

func NewReceiptHandler(receiptService *services.ReceiptService, extractor extraction.Extractor, documents storage.DocumentStore) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		extractor:      extractor,
		documents:      documents,
	}
}

// @Summary List Receipts
// @Description Get a paginated list of submitted invoices, newest first
// @Tags Receipts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param agreement_id query string false "Filter by agreement"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /receipts [get]
func (h *ReceiptHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if status := c.Query("status"); status != "" {
		query.Filters["status"] = status
	}
	if agreementID := c.Query("agreement_id"); agreementID != "" {
		query.Filters["agreement_id"] = agreementID
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(receipts))
	for _, receipt := range receipts {
		responses = append(responses, receipt.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"receipts": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Recent Receipts
// @Description Get the latest submitted invoices
// @Tags Receipts
// @Produce json
// @Param limit query int false "Number of receipts" default(5)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /receipts/recent [get]
func (h *ReceiptHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	receipts, err := h.receiptService.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(receipts))
	for _, receipt := range receipts {
		responses = append(responses, receipt.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"receipts": responses})
}

// @Summary Get Receipt
// @Description Get a receipt by ID with items and settlement records
// @Tags Receipts
// @Produce json
// @Param receipt_id path string true "Receipt ID"
// @Success 200 {object} models.ReceiptResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_id} [get]
func (h *ReceiptHandler) Show(c *gin.Context) {
	receipt, err := h.receiptService.FindByID(c.Request.Context(), c.Param("receipt_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt.ToResponse()})
}

// @Summary Evaluate Receipt
// @Description Run the compliance gate against a draft invoice without persisting it
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body services.ReceiptInput true "Draft Invoice"
// @Success 200 {object} services.ComplianceReport
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/evaluate [post]
func (h *ReceiptHandler) Evaluate(c *gin.Context) {
	var input services.ReceiptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice payload: " + err.Error()})
		return
	}

	report, err := h.receiptService.Evaluate(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// @Summary Submit Receipt
// @Description Submit an invoice through the compliance gate. Accepts JSON, or multipart form with a "receipt" JSON field and an optional "document" file.
// @Tags Receipts
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} services.SubmitResult
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /receipts [post]
func (h *ReceiptHandler) Submit(c *gin.Context) {
	var input services.ReceiptInput

	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing form data: " + err.Error()})
			return
		}
		if err := bindFormJSON(c.Request.FormValue("receipt"), &input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice payload: " + err.Error()})
			return
		}
		if file, header, err := c.Request.FormFile("document"); err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(file)
			if readErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading document: " + readErr.Error()})
				return
			}
			input.Document = data
			input.FileType = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		}
	} else {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice payload: " + err.Error()})
			return
		}
	}

	result, err := h.receiptService.Submit(c.Request.Context(), &input, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

// @Summary Extract Invoice Draft
// @Description Extract structured invoice fields from OCR text. The draft is untrusted and must pass the compliance gate on submission.
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Invoice Text"
// @Success 200 {object} extraction.ReceiptDraft
// @Failure 502 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/extract [post]
func (h *ReceiptHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invoice text is required"})
		return
	}

	draft, err := h.extractor.ExtractFromText(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// @Summary Download Receipt Document
// @Description Download the stored source document of a receipt
// @Tags Receipts
// @Produce octet-stream
// @Param receipt_id path string true "Receipt ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_id}/document [get]
func (h *ReceiptHandler) DownloadDocument(c *gin.Context) {
	receipt, err := h.receiptService.FindByID(c.Request.Context(), c.Param("receipt_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if receipt.IpfsRecord == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Receipt has no stored document"})
		return
	}

	data, err := h.documents.Get(receipt.IpfsRecord.CID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	filename := receipt.ID
	if receipt.IpfsRecord.FileType != "" {
		filename += "." + receipt.IpfsRecord.FileType
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/octet-stream", data)
}
