package service

import (
	"bytes"
	"context"
	"sort"
	"time"

	"go-gin-ticket-reservation/config"
	"go-gin-ticket-reservation/internal/broker"
	"go-gin-ticket-reservation/internal/model"
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

type ReservationService interface {
	// 建立保留單：檢查、鎖定庫存並寫入保留單，全部在同一個交易內
	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (*model.Reservation, error)
	GetReservation(ctx context.Context, userID, id uuid.UUID) (*model.Reservation, error)
	// 使用者主動取消，與過期回收相同的 compare-and-swap
	CancelReservation(ctx context.Context, userID, id uuid.UUID) (*model.Reservation, error)
}

type ReservationServiceImpl struct {
	pool                  *pgxpool.Pool
	eventRepository       repository.EventRepository
	ticketTypeRepository  repository.TicketTypeRepository
	reservationRepository repository.ReservationRepository
	publisher             broker.Publisher
	clock                 clockwork.Clock
	cfg                   config.ReservationConfig
	log                   *zap.Logger
}

func NewReservationService(
	pool *pgxpool.Pool,
	eventRepository repository.EventRepository,
	ticketTypeRepository repository.TicketTypeRepository,
	reservationRepository repository.ReservationRepository,
	publisher broker.Publisher,
	clock clockwork.Clock,
	cfg config.ReservationConfig,
) ReservationService {
	return &ReservationServiceImpl{
		pool:                  pool,
		eventRepository:       eventRepository,
		ticketTypeRepository:  ticketTypeRepository,
		reservationRepository: reservationRepository,
		publisher:             publisher,
		clock:                 clock,
		cfg:                   cfg,
		log:                   logger.WithComponent("service"),
	}
}

func (s *ReservationServiceImpl) retryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: s.cfg.ContentionRetries, Backoff: s.cfg.ContentionBackoff}
}

func (s *ReservationServiceImpl) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (*model.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, "ReservationService.CreateReservation")
	defer span.End()

	start := time.Now()
	reservation, err := withContentionRetry(ctx, s.retryPolicy(), "create_reservation", func(ctx context.Context) (*model.Reservation, error) {
		return s.reserve(ctx, req)
	})
	metrics.ReserveLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ReservationsFailedTotal.WithLabelValues(apperrors.Kind(err)).Inc()
		span.RecordError(err)
		if apperrors.Kind(err) == apperrors.KindInternal {
			s.log.Error("create reservation failed",
				zap.String("user_id", req.UserID.String()),
				zap.String("event_id", req.EventID.String()),
				zap.Error(err),
			)
		} else {
			s.log.Warn("reservation rejected",
				zap.String("user_id", req.UserID.String()),
				zap.String("event_id", req.EventID.String()),
				zap.String("kind", apperrors.Kind(err)),
			)
		}
		return nil, err
	}

	metrics.ReservationsCreatedTotal.Inc()
	s.log.Info("reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("user_id", reservation.UserID.String()),
		zap.Int64("total_amount", reservation.TotalAmount),
		zap.Time("expires_at", reservation.ExpiresAt),
	)

	event := broker.NewEvent(broker.EventReservationCreated, reservation.ID, reservation.CreatedAt)
	event.UserID = reservation.UserID
	event.Amount = reservation.TotalAmount
	broker.PublishBestEffort(ctx, s.publisher, event)

	return reservation, nil
}

// reserve 單次嘗試；交易失敗時 defer Rollback，庫存不會部分變更
func (s *ReservationServiceImpl) reserve(ctx context.Context, req model.CreateReservationRequest) (*model.Reservation, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.SetLockTimeout(ctx, tx, s.cfg.LockTimeout); err != nil {
		return nil, err
	}

	// 1. 活動必須存在且可販售
	event, err := s.eventRepository.FindByIDForShare(ctx, tx, req.EventID)
	if err != nil {
		return nil, err
	}
	if !event.Status.IsSellable() {
		return nil, apperrors.ErrEventUnavailable
	}

	// 2. 購物車不可為空
	items := model.MergeCartItems(req.Items)
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	// 依 ticket type id 排序後上鎖，避免多品項交易互相死結
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.TicketTypeID)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })

	locked, err := s.ticketTypeRepository.FindByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	ticketTypes := make(map[uuid.UUID]*model.TicketType, len(locked))
	for _, t := range locked {
		ticketTypes[t.ID] = t
	}

	now := s.clock.Now().UTC()

	// 3. 票種存在、屬於該活動、啟用中且在販售期間
	for _, item := range items {
		t, ok := ticketTypes[item.TicketTypeID]
		if !ok || t.EventID != event.ID {
			return nil, &apperrors.TicketTypeUnavailableError{TicketTypeID: item.TicketTypeID, Reason: "not found"}
		}
		if !t.Active {
			return nil, &apperrors.TicketTypeUnavailableError{TicketTypeID: t.ID, Reason: "inactive"}
		}
		if !t.SaleWindowOpen(now) {
			return nil, &apperrors.TicketTypeUnavailableError{TicketTypeID: t.ID, Reason: "sale window closed"}
		}
	}

	// 4. 數量上下限：先逐行檢查原始明細，再檢查合併後的總數
	for _, line := range req.Items {
		if err := s.checkQuantity(ticketTypes[line.TicketTypeID], line.Quantity); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		if err := s.checkQuantity(ticketTypes[item.TicketTypeID], item.Quantity); err != nil {
			return nil, err
		}
	}

	// 5. 庫存足夠
	for _, item := range items {
		t := ticketTypes[item.TicketTypeID]
		if t.Available() < item.Quantity {
			return nil, &apperrors.InsufficientInventoryError{
				TicketTypeID: t.ID,
				Name:         t.Name,
				Requested:    item.Quantity,
				Available:    t.Available(),
			}
		}
	}

	reservation := &model.Reservation{
		ID:        uuid.New(),
		UserID:    req.UserID,
		EventID:   event.ID,
		Status:    model.ReservationStatusActive,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
		UpdatedAt: now,
		Items:     make([]model.ReservationItem, 0, len(items)),
	}

	for _, id := range ids {
		if err := s.ticketTypeRepository.Hold(ctx, tx, id, quantityOf(items, id), now); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		t := ticketTypes[item.TicketTypeID]
		reservation.Items = append(reservation.Items, model.ReservationItem{
			TicketTypeID: t.ID,
			Quantity:     item.Quantity,
			UnitPrice:    t.UnitPrice,
		})
		reservation.TotalAmount += t.UnitPrice * int64(item.Quantity)
	}

	if err := s.reservationRepository.Create(ctx, tx, reservation); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *ReservationServiceImpl) checkQuantity(t *model.TicketType, quantity int) error {
	min, max := t.QuantityBounds(s.cfg.DefaultMinPerOrder, s.cfg.DefaultMaxPerOrder)
	if quantity < min || quantity > max {
		return &apperrors.InvalidQuantityError{
			TicketTypeID: t.ID,
			Requested:    quantity,
			Min:          min,
			Max:          max,
		}
	}
	return nil
}

func quantityOf(items []model.CartItem, id uuid.UUID) int {
	for _, item := range items {
		if item.TicketTypeID == id {
			return item.Quantity
		}
	}
	return 0
}

func (s *ReservationServiceImpl) GetReservation(ctx context.Context, userID, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.reservationRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// 不洩漏他人保留單是否存在
	if reservation.UserID != userID {
		return nil, apperrors.ErrReservationNotFound
	}
	return reservation, nil
}

func (s *ReservationServiceImpl) CancelReservation(ctx context.Context, userID, id uuid.UUID) (*model.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, "ReservationService.CancelReservation")
	defer span.End()

	// 擁有者不會改變，狀態與 TTL 則在交易內的 CAS 判斷；已過期的交給回收器
	existing, err := s.GetReservation(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	reservation, err := withContentionRetry(ctx, s.retryPolicy(), "cancel_reservation", func(ctx context.Context) (*model.Reservation, error) {
		return releaseReservation(ctx, s.pool, s.ticketTypeRepository, s.reservationRepository,
			existing.ID, model.ReservationStatusCancelled, s.clock.Now().UTC(), s.cfg.LockTimeout)
	})
	if err != nil {
		if apperrors.Kind(err) == apperrors.KindInternal {
			s.log.Error("cancel reservation failed", zap.String("reservation_id", id.String()), zap.Error(err))
		} else {
			s.log.Warn("cancel reservation rejected", zap.String("reservation_id", id.String()), zap.String("kind", apperrors.Kind(err)))
		}
		return nil, err
	}

	metrics.ReservationsCancelledTotal.Inc()
	s.log.Info("reservation cancelled", zap.String("reservation_id", id.String()))

	event := broker.NewEvent(broker.EventReservationCancelled, reservation.ID, reservation.UpdatedAt)
	event.UserID = reservation.UserID
	broker.PublishBestEffort(ctx, s.publisher, event)

	return reservation, nil
}

// releaseReservation 在單一交易中把保留單從 active 移到 target，並歸還其 held 庫存。
// 取消與過期回收共用；CAS 失敗時不做任何修改。
func releaseReservation(
	ctx context.Context,
	pool *pgxpool.Pool,
	ticketTypeRepository repository.TicketTypeRepository,
	reservationRepository repository.ReservationRepository,
	id uuid.UUID,
	target model.ReservationStatus,
	now time.Time,
	lockTimeout time.Duration,
) (*model.Reservation, error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repository.SetLockTimeout(ctx, tx, lockTimeout); err != nil {
		return nil, err
	}

	reservation, err := reservationRepository.TransitionFromActive(ctx, tx, id, target, now)
	if err != nil {
		return nil, err
	}

	for _, item := range sortedItems(reservation.Items) {
		if err := ticketTypeRepository.Release(ctx, tx, item.TicketTypeID, item.Quantity, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reservation, nil
}

// sortedItems 回傳依 ticket type id 排序的副本，確保上鎖順序一致
func sortedItems(items []model.ReservationItem) []model.ReservationItem {
	sorted := make([]model.ReservationItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].TicketTypeID[:], sorted[j].TicketTypeID[:]) < 0
	})
	return sorted
}
