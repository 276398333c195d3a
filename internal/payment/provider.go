package payment

import (
	"context"
	"errors"

	"go-gin-ticket-reservation/internal/model"
)

// ErrIgnoredEvent 收到的 webhook 事件與結帳無關（例如 processing、payment_failed）
var ErrIgnoredEvent = errors.New("payment event ignored")

// Intent 金流服務商建立的付款意圖
type Intent struct {
	ProviderRef  string
	ClientSecret string
}

// Provider is the payment collaborator boundary: it creates a charge for a
// reservation and turns a signed callback into a confirmation.
type Provider interface {
	CreateIntent(ctx context.Context, reservation *model.Reservation, currency string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*model.PaymentConfirmation, error)
}
