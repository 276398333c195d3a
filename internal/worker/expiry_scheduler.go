package worker

import (
	"context"
	"time"

	"go-gin-ticket-reservation/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Reclaimer 是排程器唯一需要的回收能力
type Reclaimer interface {
	ReclaimExpired(ctx context.Context) (int, error)
}

type ExpiryScheduler struct {
	scheduler gocron.Scheduler
	reclaimer Reclaimer
	interval  time.Duration
	log       *zap.Logger
}

func NewExpiryScheduler(reclaimer Reclaimer, interval time.Duration, clock clockwork.Clock) (*ExpiryScheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}
	return &ExpiryScheduler{
		scheduler: s,
		reclaimer: reclaimer,
		interval:  interval,
		log:       logger.WithComponent("reclaimer"),
	}, nil
}

// Start 註冊回收工作並立即執行第一次。前一次 sweep 尚未結束時略過本次 tick；
// 多個 process 同時 sweep 也安全，因為每筆回收都是 compare-and-swap。
func (s *ExpiryScheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.sweep(ctx)
		}),
		gocron.WithName("reclaim-expired-reservations"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.log.Info("expiry scheduler started", zap.Duration("interval", s.interval))
	return nil
}

func (s *ExpiryScheduler) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := s.reclaimer.ReclaimExpired(ctx)
	if err != nil {
		s.log.Error("reclaim sweep failed", zap.Int("reclaimed", n), zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("reclaim sweep", zap.Int("reclaimed", n))
	}
}

// Shutdown 等待執行中的 sweep 結束
func (s *ExpiryScheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}
