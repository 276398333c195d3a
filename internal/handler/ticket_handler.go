package handler

import (
	"bytes"
	"image/png"
	"net/http"
	"strconv"

	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/internal/service"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type TicketHandler struct {
	inventory service.InventoryService
	checkout  service.CheckoutService
}

func NewTicketHandler(inventory service.InventoryService, checkout service.CheckoutService) *TicketHandler {
	return &TicketHandler{inventory: inventory, checkout: checkout}
}

func (h *TicketHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("ticket-types/:id/availability", h.GetAvailability)
	r.GET("tickets/:code/qr", h.GetTicketQR)
}

func (h *TicketHandler) GetAvailability(c *gin.Context) {
	id, ok := bindUUIDParam(c, "id", apperrors.ErrTicketTypeNotFound)
	if !ok {
		return
	}

	availability, err := h.inventory.GetAvailability(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "GetAvailability")
		return
	}

	handleSuccess(c, availability, http.StatusOK)
}

// GetTicketQR 以 PNG 回傳核銷碼的 QR code，?size= 可調整邊長
func (h *TicketHandler) GetTicketQR(c *gin.Context) {
	ticket, err := h.checkout.GetTicketByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleError(c, err, "GetTicketQR")
		return
	}
	if ticket.Status != model.TicketStatusValid {
		respondKind(c, apperrors.KindNotFound, gin.H{"status": ticket.Status})
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > maxQRSize {
			respondKind(c, apperrors.KindInvalidInput, gin.H{"size": raw})
			return
		}
		size = n
	}

	image, err := renderQRCode(ticket.Code, size)
	if err != nil {
		handleError(c, err, "GetTicketQR")
		return
	}

	c.Data(http.StatusOK, "image/png", image)
}

func renderQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
