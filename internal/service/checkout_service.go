package service

import (
	"context"
	"errors"
	"strings"

	"go-gin-ticket-reservation/config"
	"go-gin-ticket-reservation/internal/broker"
	"go-gin-ticket-reservation/internal/model"
	"go-gin-ticket-reservation/internal/payment"
	"go-gin-ticket-reservation/internal/repository"
	apperrors "go-gin-ticket-reservation/pkg/app_errors"
	"go-gin-ticket-reservation/pkg/logger"
	"go-gin-ticket-reservation/pkg/metrics"
	"go-gin-ticket-reservation/pkg/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type CheckoutService interface {
	// 建立付款意圖，保留單必須為 active、屬於呼叫者且尚未過期
	StartCheckout(ctx context.Context, userID, reservationID uuid.UUID) (*model.CheckoutSession, error)
	// Finalize 冪等：同一保留單重複確認只會得到同一張訂單
	Finalize(ctx context.Context, confirmation model.PaymentConfirmation) (*model.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*model.Order, error)
	GetTicketByCode(ctx context.Context, code string) (*model.Ticket, error)
}

type CheckoutServiceImpl struct {
	pool                  *pgxpool.Pool
	ticketTypeRepository  repository.TicketTypeRepository
	reservationRepository repository.ReservationRepository
	orderRepository       repository.OrderRepository
	ticketRepository      repository.TicketRepository
	provider              payment.Provider
	publisher             broker.Publisher
	clock                 clockwork.Clock
	cfg                   config.ReservationConfig
	currency              string
	log                   *zap.Logger
}

func NewCheckoutService(
	pool *pgxpool.Pool,
	ticketTypeRepository repository.TicketTypeRepository,
	reservationRepository repository.ReservationRepository,
	orderRepository repository.OrderRepository,
	ticketRepository repository.TicketRepository,
	provider payment.Provider,
	publisher broker.Publisher,
	clock clockwork.Clock,
	cfg config.ReservationConfig,
	currency string,
) CheckoutService {
	return &CheckoutServiceImpl{
		pool:                  pool,
		ticketTypeRepository:  ticketTypeRepository,
		reservationRepository: reservationRepository,
		orderRepository:       orderRepository,
		ticketRepository:      ticketRepository,
		provider:              provider,
		publisher:             publisher,
		clock:                 clock,
		cfg:                   cfg,
		currency:              currency,
		log:                   logger.WithComponent("service"),
	}
}

func (s *CheckoutServiceImpl) StartCheckout(ctx context.Context, userID, reservationID uuid.UUID) (*model.CheckoutSession, error) {
	ctx, span := tracing.StartSpan(ctx, "CheckoutService.StartCheckout")
	defer span.End()

	reservation, err := s.reservationRepository.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, apperrors.ErrReservationNotFound
	}
	if reservation.Status != model.ReservationStatusActive {
		return nil, apperrors.ErrReservationNotActive
	}
	if reservation.IsExpiredAt(s.clock.Now()) {
		return nil, apperrors.ErrReservationExpired
	}

	intent, err := s.provider.CreateIntent(ctx, reservation, s.currency)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &model.CheckoutSession{
		ReservationID: reservation.ID,
		ProviderRef:   intent.ProviderRef,
		ClientSecret:  intent.ClientSecret,
		ExpiresAt:     reservation.ExpiresAt,
		Amount:        reservation.TotalAmount,
		Currency:      s.currency,
	}, nil
}

func (s *CheckoutServiceImpl) Finalize(ctx context.Context, confirmation model.PaymentConfirmation) (*model.Order, error) {
	ctx, span := tracing.StartSpan(ctx, "CheckoutService.Finalize")
	defer span.End()

	policy := RetryPolicy{Attempts: s.cfg.ContentionRetries, Backoff: s.cfg.ContentionBackoff}

	var duplicate bool
	order, err := withContentionRetry(ctx, policy, "finalize", func(ctx context.Context) (*model.Order, error) {
		var err error
		var order *model.Order
		order, duplicate, err = s.finalize(ctx, confirmation)
		return order, err
	})
	if err != nil {
		span.RecordError(err)
		metrics.FinalizeRejectedTotal.WithLabelValues(apperrors.Kind(err)).Inc()
		fields := []zap.Field{
			zap.String("reservation_id", confirmation.ReservationID.String()),
			zap.String("provider_ref", confirmation.ProviderRef),
			zap.String("kind", apperrors.Kind(err)),
		}
		if apperrors.Kind(err) == apperrors.KindInternal {
			s.log.Error("finalize failed", append(fields, zap.Error(err))...)
		} else {
			s.log.Warn("finalize rejected", fields...)
		}
		return nil, err
	}

	if duplicate {
		metrics.FinalizeDuplicatesTotal.Inc()
		s.log.Info("duplicate confirmation, returning existing order",
			zap.String("reservation_id", confirmation.ReservationID.String()),
			zap.String("order_id", order.ID.String()),
		)
		return order, nil
	}

	s.checkPaymentMatches(confirmation, order)

	metrics.OrdersFinalizedTotal.Inc()
	s.log.Info("reservation finalized",
		zap.String("reservation_id", confirmation.ReservationID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int("tickets", len(order.Tickets)),
	)

	event := broker.NewEvent(broker.EventOrderFinalized, order.ReservationID, order.PaidAt)
	event.UserID = order.BuyerID
	event.OrderID = &order.ID
	event.Amount = order.TotalAmount
	broker.PublishBestEffort(ctx, s.publisher, event)

	return order, nil
}

// checkPaymentMatches 比對付款確認與訂單的金額、幣別。款項已經收下，
// 不一致只記錄，交由對帳處理；確認訊息沒帶的欄位不比對。
func (s *CheckoutServiceImpl) checkPaymentMatches(confirmation model.PaymentConfirmation, order *model.Order) {
	if confirmation.Amount != 0 && confirmation.Amount != order.TotalAmount {
		metrics.PaymentMismatchTotal.WithLabelValues("amount").Inc()
		s.log.Warn("payment amount mismatch",
			zap.String("reservation_id", order.ReservationID.String()),
			zap.String("provider_ref", confirmation.ProviderRef),
			zap.Int64("paid", confirmation.Amount),
			zap.Int64("expected", order.TotalAmount),
		)
	}
	if confirmation.Currency != "" && !strings.EqualFold(confirmation.Currency, s.currency) {
		metrics.PaymentMismatchTotal.WithLabelValues("currency").Inc()
		s.log.Warn("payment currency mismatch",
			zap.String("reservation_id", order.ReservationID.String()),
			zap.String("provider_ref", confirmation.ProviderRef),
			zap.String("paid", confirmation.Currency),
			zap.String("expected", s.currency),
		)
	}
}

// finalize 單次嘗試。保留單列以 FOR UPDATE 鎖定，重複送達的確認會在此排隊，
// 後到者看到 completed 直接回傳既有訂單。
func (s *CheckoutServiceImpl) finalize(ctx context.Context, confirmation model.PaymentConfirmation) (*model.Order, bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	if err := repository.SetLockTimeout(ctx, tx, s.cfg.LockTimeout); err != nil {
		return nil, false, err
	}

	reservation, err := s.reservationRepository.FindByIDForUpdate(ctx, tx, confirmation.ReservationID)
	if err != nil {
		return nil, false, err
	}

	switch reservation.Status {
	case model.ReservationStatusCompleted:
		order, err := s.orderWithTickets(ctx, tx, reservation.ID)
		if err != nil {
			return nil, false, err
		}
		return order, true, nil
	case model.ReservationStatusExpired, model.ReservationStatusCancelled:
		return nil, false, apperrors.ErrReservationNotActive
	}

	now := s.clock.Now().UTC()
	if reservation.IsExpiredAt(now) {
		return nil, false, apperrors.ErrReservationExpired
	}

	// held 轉為 sold，依 ticket type id 順序上鎖
	for _, item := range sortedItems(reservation.Items) {
		if err := s.ticketTypeRepository.CommitHeld(ctx, tx, item.TicketTypeID, item.Quantity, now); err != nil {
			return nil, false, err
		}
	}

	if _, err := s.reservationRepository.TransitionFromActive(ctx, tx, reservation.ID, model.ReservationStatusCompleted, now); err != nil {
		return nil, false, err
	}

	currency := confirmation.Currency
	if currency == "" {
		currency = s.currency
	}
	paidAt := confirmation.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	order, err := s.orderRepository.Create(ctx, tx, &model.Order{
		ID:            uuid.New(),
		ReservationID: reservation.ID,
		BuyerID:       reservation.UserID,
		TotalAmount:   reservation.TotalAmount,
		Currency:      currency,
		PaidAt:        paidAt,
		ProviderRef:   confirmation.ProviderRef,
	})
	if err != nil {
		return nil, false, err
	}

	tickets := model.NewTickets(order.ID, reservation.Items, now)
	if err := s.ticketRepository.CreateBatch(ctx, tx, tickets); err != nil {
		return nil, false, err
	}
	order.Tickets = tickets

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return order, false, nil
}

func (s *CheckoutServiceImpl) orderWithTickets(ctx context.Context, tx pgx.Tx, reservationID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepository.FindByReservationID(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepository.ListByOrderID(ctx, tx, order)
	if err != nil {
		return nil, err
	}
	order.Tickets = tickets
	return order, nil
}

func (s *CheckoutServiceImpl) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID {
		return nil, apperrors.ErrOrderNotFound
	}

	tickets, err := s.ticketRepository.ListByOrderID(ctx, nil, order)
	if err != nil {
		return nil, err
	}
	order.Tickets = tickets
	return order, nil
}

// ListOrders 不含票券明細，需要票券時再呼叫 GetOrder
func (s *CheckoutServiceImpl) ListOrders(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	return s.orderRepository.FindByBuyerID(ctx, userID)
}

func (s *CheckoutServiceImpl) GetTicketByCode(ctx context.Context, code string) (*model.Ticket, error) {
	if _, err := uuid.Parse(code); err != nil {
		return nil, apperrors.ErrTicketNotFound
	}
	return s.ticketRepository.FindByCode(ctx, code)
}

// IsOrphanedPayment 付款已完成但保留單無法再完成，需要外部退款流程處理
func IsOrphanedPayment(err error) bool {
	return errors.Is(err, apperrors.ErrReservationNotActive) || errors.Is(err, apperrors.ErrReservationExpired)
}
