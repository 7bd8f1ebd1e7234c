package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "welth/internal/errors"
	"welth/internal/services"
)

// ReceiptHandler handles receipt scanning.
type ReceiptHandler struct {
	receiptService services.ReceiptServicer
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService services.ReceiptServicer) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ScanReceipt handles extracting transaction fields from a receipt image
// @Summary     Scan a receipt
// @Description Read amount, date, merchant and a suggested expense category from a receipt image. Images that are not receipts return empty=true.
// @Tags        receipts
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file formData file true "Receipt image (jpeg, png, webp, heic)"
// @Success     200 {object} services.ReceiptScan "Extracted fields"
// @Failure     400 {object} ErrorResponse "Missing or unsupported file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Scanner unavailable"
// @Router      /receipts/scan [post]
func (h *ReceiptHandler) ScanReceipt(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file is required"))
		return
	}
	if header.Size > services.MaxReceiptBytes {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "receipt image is too large"))
		return
	}

	f, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, services.MaxReceiptBytes+1))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	scan, err := h.receiptService.ScanReceipt(c.Request.Context(), image, header.Header.Get("Content-Type"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipt": scan})
}
