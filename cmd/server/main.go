package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-gin-ticket-reservation/config"
	"go-gin-ticket-reservation/internal/broker"
	"go-gin-ticket-reservation/internal/database"
	"go-gin-ticket-reservation/internal/handler"
	"go-gin-ticket-reservation/internal/middleware"
	"go-gin-ticket-reservation/internal/payment"
	"go-gin-ticket-reservation/internal/queue"
	"go-gin-ticket-reservation/internal/ratelimit"
	"go-gin-ticket-reservation/internal/repository"
	"go-gin-ticket-reservation/internal/service"
	"go-gin-ticket-reservation/internal/worker"
	"go-gin-ticket-reservation/pkg/logger"
	"go-gin-ticket-reservation/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.LoadConfig()

	if err := logger.Init(cfg.Server.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.WithComponent("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observ.TracingEnabled {
		tp, err := tracing.Init(cfg.Observ.ServiceName, cfg.Observ.JaegerEndpoint)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer tp.Shutdown(context.Background())
	}

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	var publisher broker.Publisher = broker.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = broker.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer publisher.Close()

	clock := clockwork.NewRealClock()

	// repositories
	eventRepository := repository.NewEventRepository(pool)
	ticketTypeRepository := repository.NewTicketTypeRepository(pool)
	reservationRepository := repository.NewReservationRepository(pool)
	orderRepository := repository.NewOrderRepository(pool)
	ticketRepository := repository.NewTicketRepository(pool)

	provider := payment.NewStripeProvider(cfg.Payment.StripeSecretKey, cfg.Payment.WebhookSecret)

	// services
	reservationService := service.NewReservationService(pool, eventRepository, ticketTypeRepository,
		reservationRepository, publisher, clock, cfg.Reservation)
	checkoutService := service.NewCheckoutService(pool, ticketTypeRepository, reservationRepository,
		orderRepository, ticketRepository, provider, publisher, clock, cfg.Reservation, cfg.Payment.Currency)
	expiryService := service.NewExpiryService(pool, ticketTypeRepository, reservationRepository,
		publisher, clock, cfg.Reservation, cfg.Reclaimer)
	inventoryService := service.NewInventoryService(eventRepository, ticketTypeRepository)

	// 付款確認隊列與 worker
	confirmations, err := queue.NewRedisStreamConfirmationQueue(ctx, rdb, cfg.Queue.ConsumerID, queue.RedisStreamConfig{
		ClaimMinIdleTime: cfg.Queue.ClaimMinIdle,
		MaxRetryCount:    cfg.Queue.MaxRetries,
		OnDiscard:        worker.DeadLetterNotifier(publisher, clock),
	})
	if err != nil {
		log.Fatal("Failed to initialize confirmation queue", zap.Error(err))
	}
	confirmationWorker := worker.NewConfirmationWorker(checkoutService, confirmations, publisher, clock)
	if err := confirmationWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start confirmation worker", zap.Error(err))
	}

	scheduler, err := worker.NewExpiryScheduler(expiryService, cfg.Reclaimer.Interval, clock)
	if err != nil {
		log.Fatal("Failed to create expiry scheduler", zap.Error(err))
	}
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start expiry scheduler", zap.Error(err))
	}

	// routes
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Prometheus(), middleware.RequestLogger())

	handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": handler.PingerFunc(pool.Ping),
		"redis":    handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}, clock).RegisterRoutes(router)

	public := router.Group("/api/v1")
	handler.NewTicketHandler(inventoryService, checkoutService).RegisterRoutes(public)
	handler.NewEventHandler(inventoryService).RegisterRoutes(public)
	handler.NewWebhookHandler(provider, confirmations).RegisterRoutes(public)

	private := router.Group("/api/v1", middleware.JWTAuth(cfg.Auth.JWTSecret))
	reserveLimiter := ratelimit.NewRedisSlidingWindowLimiter(rdb, clock, "reserve", cfg.RateLimit.Window, cfg.RateLimit.ReserveMaxAttempts)
	checkoutLimiter := ratelimit.NewRedisSlidingWindowLimiter(rdb, clock, "checkout", cfg.RateLimit.Window, cfg.RateLimit.MaxAttempts)
	handler.NewReservationHandler(reservationService, checkoutService).
		RegisterRoutes(private, handler.RouteLimits{
			Reserve:  middleware.RateLimit(reserveLimiter, "reserve"),
			Checkout: middleware.RateLimit(checkoutLimiter, "checkout"),
		})
	handler.NewOrderHandler(checkoutService).RegisterRoutes(private)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Error("Expiry scheduler shutdown failed", zap.Error(err))
	}

	select {
	case <-confirmationWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn("Confirmation worker did not drain before timeout")
	}
}
