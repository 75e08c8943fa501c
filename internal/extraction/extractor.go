package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ricolabs/procure-api/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

// ReceiptDraft is the best-effort structured reading of an uploaded invoice.
// It is untrusted input: callers validate it exactly like manually entered
// data before anything is persisted.
type ReceiptDraft struct {
	VendorName    string      `json:"vendor_name"`
	InvoiceNumber string      `json:"invoice_number"`
	ReceiptDate   string      `json:"receipt_date"`
	Subtotal      int64       `json:"subtotal"`
	TaxAmount     int64       `json:"tax_amount"`
	TotalAmount   int64       `json:"total_amount"`
	Items         []DraftItem `json:"items"`
	Confidence    float64     `json:"confidence"`
}

// DraftItem is one extracted line item
type DraftItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Total       int64  `json:"total"`
}

// Extractor is the document-extraction collaborator
type Extractor interface {
	ExtractFromText(ctx context.Context, text string) (*ReceiptDraft, error)
}

// OpenAIExtractor extracts invoice fields from OCR text via the OpenAI API
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

// NewOpenAIExtractor creates an extractor using the given API key and model
func NewOpenAIExtractor(apiKey, model string) *OpenAIExtractor {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIExtractor{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const extractionPrompt = `Extract the invoice fields from the text below and answer with a single JSON object:
{"vendor_name": string, "invoice_number": string, "receipt_date": "YYYY-MM-DD",
 "subtotal": integer minor units, "tax_amount": integer minor units,
 "total_amount": integer minor units,
 "items": [{"description": string, "quantity": integer, "unit_price": integer, "total": integer}],
 "confidence": number between 0 and 1}

Invoice text:
`

// ExtractFromText asks the model for a structured draft of the invoice
func (e *OpenAIExtractor) ExtractFromText(ctx context.Context, text string) (*ReceiptDraft, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You read procurement invoices and return structured JSON. All monetary values are integers in minor units.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: extractionPrompt + text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract invoice data: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from extraction model")
	}

	var draft ReceiptDraft
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse extraction result: %w", err)
	}

	logger.Debug("Invoice draft extracted",
		"invoice_number", draft.InvoiceNumber,
		"total_amount", draft.TotalAmount,
		"confidence", draft.Confidence)

	return &draft, nil
}
