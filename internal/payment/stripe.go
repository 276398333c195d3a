package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-gin-ticket-reservation/internal/model"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"
	"go-gin-ticket-reservation/pkg/logger"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/paymentintent"
	"github.com/stripe/stripe-go/webhook"
	"go.uber.org/zap"
)

const (
	metadataReservationID = "reservation_id"
	eventIntentSucceeded  = "payment_intent.succeeded"
)

type StripeProvider struct {
	client        paymentintent.Client
	webhookSecret string
	log           *zap.Logger
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	return &StripeProvider{
		client: paymentintent.Client{
			B:   stripe.GetBackend(stripe.APIBackend),
			Key: secretKey,
		},
		webhookSecret: webhookSecret,
		log:           logger.WithComponent("payment"),
	}
}

// CreateIntent 以 reservation id 作為 idempotency key，重複結帳只會得到同一個 PaymentIntent
func (p *StripeProvider) CreateIntent(ctx context.Context, reservation *model.Reservation, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(reservation.TotalAmount),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	params.AddMetadata(metadataReservationID, reservation.ID.String())
	params.SetIdempotencyKey(reservation.ID.String())

	pi, err := p.client.New(params)
	if err != nil {
		p.log.Error("failed to create payment intent",
			zap.String("reservation_id", reservation.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	p.log.Info("payment intent created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("payment_intent", pi.ID),
	)
	return &Intent{ProviderRef: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*model.PaymentConfirmation, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		p.log.Warn("webhook signature verification failed", zap.Error(err))
		return nil, apperrors.ErrInvalidSignature
	}
	return confirmationFromEvent(event)
}

// intentPayload 只解析結帳需要的欄位
type intentPayload struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Created  int64             `json:"created"`
	Metadata map[string]string `json:"metadata"`
}

func confirmationFromEvent(event stripe.Event) (*model.PaymentConfirmation, error) {
	if event.Type != eventIntentSucceeded {
		return nil, ErrIgnoredEvent
	}
	if event.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", apperrors.ErrInvalidInput, event.ID)
	}

	var intent intentPayload
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("%w: decode payment intent: %v", apperrors.ErrInvalidInput, err)
	}

	reservationID, err := uuid.Parse(intent.Metadata[metadataReservationID])
	if err != nil {
		return nil, fmt.Errorf("%w: payment intent %s has no reservation", apperrors.ErrInvalidInput, intent.ID)
	}

	paidAt := time.Now().UTC()
	if event.Created > 0 {
		paidAt = time.Unix(event.Created, 0).UTC()
	}

	return &model.PaymentConfirmation{
		ReservationID: reservationID,
		ProviderRef:   intent.ID,
		Amount:        intent.Amount,
		Currency:      intent.Currency,
		PaidAt:        paidAt,
	}, nil
}
