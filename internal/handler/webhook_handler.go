package handler

import (
	"errors"
	"net/http"

	"go-gin-ticket-reservation/internal/payment"
	"go-gin-ticket-reservation/internal/queue"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"
	"go-gin-ticket-reservation/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const signatureHeader = "Stripe-Signature"

// WebhookHandler 驗證金流回呼後放入確認隊列，由 worker 非同步完成結帳
type WebhookHandler struct {
	provider payment.Provider
	queue    queue.ConfirmationQueue
	log      *zap.Logger
}

func NewWebhookHandler(provider payment.Provider, queue queue.ConfirmationQueue) *WebhookHandler {
	return &WebhookHandler{
		provider: provider,
		queue:    queue,
		log:      logger.WithComponent("handler"),
	}
}

func (h *WebhookHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("webhooks/payments", h.ReceivePayment)
}

// ReceivePayment 只有在確認已寫入隊列後才回 200；否則回錯誤讓服務商重送
func (h *WebhookHandler) ReceivePayment(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		respondKind(c, apperrors.KindInvalidInput, nil)
		return
	}

	confirmation, err := h.provider.ParseWebhook(payload, c.GetHeader(signatureHeader))
	switch {
	case errors.Is(err, payment.ErrIgnoredEvent):
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	case errors.Is(err, apperrors.ErrInvalidInput):
		// 簽章正確但內容無法處理，重送也不會成功
		h.log.Warn("unprocessable payment webhook", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	case err != nil:
		handleError(c, err, "ReceivePayment")
		return
	}

	if err := h.queue.Publish(c.Request.Context(), confirmation); err != nil {
		handleError(c, err, "ReceivePayment")
		return
	}

	h.log.Info("payment confirmation enqueued",
		zap.String("reservation_id", confirmation.ReservationID.String()),
		zap.String("provider_ref", confirmation.ProviderRef),
	)
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
