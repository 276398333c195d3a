package service

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

type ExpiryService interface {
	// ReclaimExpired 回收所有已過期的 active 保留單，回傳本次實際回收的數量
	ReclaimExpired(ctx context.Context) (int, error)
}

type ExpiryServiceImpl struct {
	pool                  *pgxpool.Pool
	ticketTypeRepository  repository.TicketTypeRepository
	reservationRepository repository.ReservationRepository
	publisher             broker.Publisher
	clock                 clockwork.Clock
	reservationCfg        config.ReservationConfig
	batchSize             int
	log                   *zap.Logger
}

func NewExpiryService(
	pool *pgxpool.Pool,
	ticketTypeRepository repository.TicketTypeRepository,
	reservationRepository repository.ReservationRepository,
	publisher broker.Publisher,
	clock clockwork.Clock,
	reservationCfg config.ReservationConfig,
	reclaimerCfg config.ReclaimerConfig,
) ExpiryService {
	batchSize := reclaimerCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ExpiryServiceImpl{
		pool:                  pool,
		ticketTypeRepository:  ticketTypeRepository,
		reservationRepository: reservationRepository,
		publisher:             publisher,
		clock:                 clock,
		reservationCfg:        reservationCfg,
		batchSize:             batchSize,
		log:                   logger.WithComponent("reclaimer"),
	}
}

// ReclaimExpired sweeps in batches until no expired active reservation is
// left. Each reservation is released in its own transaction; one that fails
// is logged and skipped for the rest of the sweep and the failures are
// returned joined. Losing the status race to the finalizer or a concurrent
// sweep is not an error.
func (s *ExpiryServiceImpl) ReclaimExpired(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "ExpiryService.ReclaimExpired")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ReclaimSweepDuration.Observe(time.Since(start).Seconds())
	}()

	policy := RetryPolicy{Attempts: s.reservationCfg.ContentionRetries, Backoff: s.reservationCfg.ContentionBackoff}
	now := s.clock.Now().UTC()
	reclaimed := 0
	failed := make(map[uuid.UUID]struct{})
	var errs []error

	for {
		// 失敗的保留單仍在 active，查詢要多取一些才能越過它們
		limit := s.batchSize + len(failed)
		ids, err := s.reservationRepository.ListExpiredActiveIDs(ctx, now, limit)
		if err != nil {
			errs = append(errs, err)
			break
		}

		progressed, newFailures := 0, 0
		for _, id := range ids {
			if _, skip := failed[id]; skip {
				continue
			}
			if ctx.Err() != nil {
				errs = append(errs, ctx.Err())
				return reclaimed, errors.Join(errs...)
			}

			reservation, err := withContentionRetry(ctx, policy, "reclaim_expired", func(ctx context.Context) (*model.Reservation, error) {
				return releaseReservation(ctx, s.pool, s.ticketTypeRepository, s.reservationRepository,
					id, model.ReservationStatusExpired, now, s.reservationCfg.LockTimeout)
			})
			if err != nil {
				if errors.Is(err, apperrors.ErrReservationNotActive) {
					s.log.Debug("reservation already left active", zap.String("reservation_id", id.String()))
					progressed++
					continue
				}
				span.RecordError(err)
				metrics.ReclaimFailuresTotal.Inc()
				s.log.Error("reclaim failed, skipping", zap.String("reservation_id", id.String()), zap.Error(err))
				failed[id] = struct{}{}
				newFailures++
				errs = append(errs, fmt.Errorf("reclaim %s: %w", id, err))
				continue
			}

			reclaimed++
			progressed++
			metrics.ReservationsReclaimedTotal.Inc()
			s.log.Info("reservation expired",
				zap.String("reservation_id", reservation.ID.String()),
				zap.Int("items", len(reservation.Items)),
			)

			event := broker.NewEvent(broker.EventReservationExpired, reservation.ID, now)
			event.UserID = reservation.UserID
			broker.PublishBestEffort(ctx, s.publisher, event)
		}

		if len(ids) < limit || (progressed == 0 && newFailures == 0) {
			break
		}
	}

	if reclaimed > 0 || len(failed) > 0 {
		s.log.Info("reclaim sweep finished", zap.Int("reclaimed", reclaimed), zap.Int("failed", len(failed)))
	}
	return reclaimed, errors.Join(errs...)
}
