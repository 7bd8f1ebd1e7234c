package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"welth/internal/ai"
	"welth/internal/categories"
	apperrors "welth/internal/errors"
	"welth/internal/logger"
	"welth/internal/models"
	"welth/internal/money"
)

// MaxReceiptBytes bounds the size of an uploaded receipt image.
const MaxReceiptBytes = 10 << 20

var receiptMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// receiptService extracts transaction fields from receipt images.
type receiptService struct {
	generator ai.Generator
}

// NewReceiptService creates a new ReceiptServicer.
func NewReceiptService(generator ai.Generator) ReceiptServicer {
	return &receiptService{generator: generator}
}

// receiptPayload mirrors the JSON the model is asked to return.
type receiptPayload struct {
	Amount       json.Number `json:"amount"`
	Date         string      `json:"date"`
	Description  string      `json:"description"`
	MerchantName string      `json:"merchantName"`
	Category     string      `json:"category"`
}

func receiptPrompt() string {
	ids := make([]string, 0, 16)
	for _, c := range categories.ByType(models.TransactionTypeExpense) {
		ids = append(ids, c.ID)
	}

	return "Analyze this receipt image and extract the following information in JSON format:\n" +
		"- Total amount (just the number)\n" +
		"- Date (in ISO format)\n" +
		"- Description or items purchased (brief summary)\n" +
		"- Merchant/store name\n" +
		"- Suggested category (one of: " + strings.Join(ids, ",") + ")\n\n" +
		"Only respond with valid JSON in this exact format:\n" +
		"{\n" +
		"  \"amount\": number,\n" +
		"  \"date\": \"ISO date string\",\n" +
		"  \"description\": \"string\",\n" +
		"  \"merchantName\": \"string\",\n" +
		"  \"category\": \"string\"\n" +
		"}\n\n" +
		"If it's not a receipt, return an empty object {}."
}

// ScanReceipt asks the model to read the receipt. Model or parse failures are
// hard failures; an image that is not a receipt yields an Empty result.
func (s *receiptService) ScanReceipt(ctx context.Context, image []byte, mimeType string) (*ReceiptScan, error) {
	if len(image) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt image is empty")
	}
	if len(image) > MaxReceiptBytes {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt image is too large")
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	if !receiptMIMETypes[mimeType] {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("unsupported receipt type %q", mimeType))
	}

	text, err := s.generator.Generate(ctx, receiptPrompt(), ai.Blob{MIMEType: mimeType, Data: image})
	if err != nil {
		logger.Get().Errorw("receipt scan failed", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrExternalService, err)
	}

	return parseReceipt(text)
}

func parseReceipt(text string) (*ReceiptScan, error) {
	cleaned := ai.CleanJSON(text)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrExternalService, "invalid response format from receipt scanner"), err)
	}
	if len(raw) == 0 {
		return &ReceiptScan{Empty: true}, nil
	}

	var payload receiptPayload
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrExternalService, "invalid response format from receipt scanner"), err)
	}

	scan := &ReceiptScan{
		Description:  strings.TrimSpace(payload.Description),
		MerchantName: strings.TrimSpace(payload.MerchantName),
		Category:     categories.SnapExpense(payload.Category),
	}

	if payload.Amount != "" {
		amount, err := decimal.NewFromString(payload.Amount.String())
		if err != nil {
			return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrExternalService, "receipt amount is not a number"), err)
		}
		scan.Amount = money.FromDecimal(amount.Abs())
	}

	if d, ok := parseReceiptDate(payload.Date); ok {
		scan.Date = &d
	}

	return scan, nil
}

func parseReceiptDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
