package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	appbook "github.com/boipara/bookstore/internal/application/book"
	appbuyback "github.com/boipara/bookstore/internal/application/buyback"
	appnotification "github.com/boipara/bookstore/internal/application/notification"
	apporder "github.com/boipara/bookstore/internal/application/order"
	appreturns "github.com/boipara/bookstore/internal/application/returns"
	appsearch "github.com/boipara/bookstore/internal/application/search"
	appuser "github.com/boipara/bookstore/internal/application/user"
	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/outbox"
	"github.com/boipara/bookstore/internal/domain/search"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/config"
	"github.com/boipara/bookstore/internal/infrastructure/messaging"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/memory"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/redis"
	"github.com/boipara/bookstore/internal/infrastructure/realtime"
	"github.com/boipara/bookstore/internal/interface/http/handler"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
	"github.com/boipara/bookstore/pkg/jwt"
	"github.com/boipara/bookstore/pkg/mq"
)

// App is the assembled service: the router plus the background workers that
// must run beside it.
type App struct {
	Router     *gin.Engine
	Users      user.Service
	Dispatcher *appnotification.Dispatcher
	Search     *appsearch.Engine
	Push       *pushGateway

	cfg    *config.Config
	logger *zap.Logger
}

func newApp(
	cfg *config.Config,
	router *gin.Engine,
	users user.Service,
	dispatcher *appnotification.Dispatcher,
	engine *appsearch.Engine,
	push *pushGateway,
	logger *zap.Logger,
) *App {
	return &App{
		Router:     router,
		Users:      users,
		Dispatcher: dispatcher,
		Search:     engine,
		Push:       push,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run starts the outbox dispatcher, the cache sweeper and, when bridged, the
// realtime consumer. It returns once ctx is cancelled and all of them stopped.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Dispatcher.Run(ctx)
		return nil
	})
	g.Go(func() error {
		a.Search.RunSweeper(ctx, a.cfg.Search.SweepInterval)
		return nil
	})
	if a.Push.bridge != nil {
		g.Go(func() error {
			if err := a.Push.bridge.Run(ctx, a.Push.consumer); err != nil && ctx.Err() == nil {
				return fmt.Errorf("realtime bridge: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// buildApp wires the graph by hand; wire.go declares the same graph for `wire gen`.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	db, err := mysql.NewDB(cfg, logger)
	if err != nil {
		return fail(err)
	}
	redisClient, closeRedis, err := provideRedis(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeRedis)

	// Stores
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	outboxRepo := mysql.NewOutboxRepository(db)
	returnRepo := mysql.NewReturnRepository(db)
	buybackRepo := mysql.NewBuybackRepository(db)
	searchRepo := mysql.NewSearchRepository(db)
	txManager := mysql.NewTxManager(db)

	// Domain services
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)
	notificationService := notification.NewService(notificationRepo)

	// Push gateway and outbox
	hub := provideHub(cfg, logger)
	push, closePush, err := providePushGateway(cfg, hub, logger)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closePush)
	sink, closeSink, err := provideEventSink(cfg, logger)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeSink)
	dispatcher := provideDispatcher(outboxRepo, notificationService, provideEmitter(push), sink, cfg, logger)
	waker := provideWaker(dispatcher)

	// Search
	engine := provideSearchEngine(searchRepo,
		provideSuggestionCache(cfg, redisClient),
		provideSearchHistory(cfg, redisClient),
		provideQueryCounter(cfg, redisClient),
		appsearch.NewOrderTrending(orderRepo, bookRepo),
		cfg, logger)

	// Use cases
	jwtManager := provideJWTManager(cfg)
	userHandler := handler.NewUserHandler(
		appuser.NewRegisterUseCase(userService, logger),
		appuser.NewLoginUseCase(userService, jwtManager, logger),
		appuser.NewLogoutUseCase(provideTokenRevoker(redisClient), logger),
		appuser.NewProfileUseCase(userRepo, userService),
	)
	bookHandler := handler.NewBookHandler(
		appbook.NewPublishBookUseCase(bookService, logger),
		appbook.NewListBooksUseCase(bookService, bookRepo),
		appbook.NewManageBookUseCase(bookService, logger),
	)
	orderHandler := handler.NewOrderHandler(
		apporder.NewCreateOrderUseCase(orderRepo, bookRepo, userRepo, outboxRepo, txManager, waker, logger),
		apporder.NewCancelOrderUseCase(orderRepo, bookRepo, outboxRepo, txManager, waker, logger),
		apporder.NewUpdateStatusUseCase(orderRepo, bookRepo, outboxRepo, txManager, waker, logger),
		apporder.NewQueryOrdersUseCase(orderRepo),
	)
	returnHandler := handler.NewReturnHandler(
		appreturns.NewReturnUseCase(returnRepo, orderRepo, outboxRepo, txManager, waker, logger),
	)
	buybackHandler := handler.NewBuybackHandler(
		appbuyback.NewBuybackUseCase(buybackRepo, bookService, outboxRepo, txManager, waker, logger),
	)
	notificationHandler := handler.NewNotificationHandler(appnotification.NewInboxUseCase(notificationService))
	searchHandler := handler.NewSearchHandler(engine, logger)
	realtimeHandler := provideRealtimeHandler(hub, cfg, logger)
	auth := middleware.NewAuthMiddleware(jwtManager, provideRevocationChecker(redisClient))

	router := newRouter(cfg, logger, auth, handlers{
		user:         userHandler,
		book:         bookHandler,
		order:        orderHandler,
		returns:      returnHandler,
		buyback:      buybackHandler,
		notification: notificationHandler,
		search:       searchHandler,
		realtime:     realtimeHandler,
	}, dbPinger(db))

	return newApp(cfg, router, userService, dispatcher, engine, push, logger), cleanup, nil
}

// ============================================================
// Providers shared by buildApp and the wire injector
// ============================================================

// provideRedis returns a nil client when Redis is disabled.
func provideRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Info("redis disabled, using in-process stores and client-side logout")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// The two token providers return untyped nil without Redis so callers can test
// the interface against nil.

func provideRevocationChecker(client *goredis.Client) middleware.RevocationChecker {
	if client == nil {
		return nil
	}
	return redis.NewTokenBlacklist(client)
}

func provideTokenRevoker(client *goredis.Client) appuser.TokenRevoker {
	if client == nil {
		return nil
	}
	return redis.NewTokenBlacklist(client)
}

func useRedisSearch(cfg *config.Config, client *goredis.Client) bool {
	return cfg.Search.Backend == "redis" && client != nil
}

func provideSuggestionCache(cfg *config.Config, client *goredis.Client) search.Cache {
	if useRedisSearch(cfg, client) {
		return redis.NewSuggestionCache(client, cfg.Search.CacheTTL, cfg.Search.CacheCapacity)
	}
	return memory.NewSuggestionCache(cfg.Search.CacheTTL, cfg.Search.CacheCapacity)
}

func provideSearchHistory(cfg *config.Config, client *goredis.Client) search.HistoryStore {
	if useRedisSearch(cfg, client) {
		return redis.NewSearchHistory(client)
	}
	return memory.NewSearchHistory()
}

func provideQueryCounter(cfg *config.Config, client *goredis.Client) search.QueryCounter {
	if useRedisSearch(cfg, client) {
		return redis.NewQueryCounter(client)
	}
	return memory.NewQueryCounter()
}

func provideSearchEngine(
	repo search.Repository,
	cache search.Cache,
	history search.HistoryStore,
	counter search.QueryCounter,
	trending search.TrendingSource,
	cfg *config.Config,
	logger *zap.Logger,
) *appsearch.Engine {
	return appsearch.NewEngine(repo, cache, history, counter, trending, cfg.Search.QueryTimeout, logger)
}

func provideHub(cfg *config.Config, logger *zap.Logger) *realtime.Hub {
	return realtime.NewHub(cfg.Realtime.BufferSize, logger)
}

// pushGateway is what emits go through: the local hub, or the RabbitMQ bridge
// in front of it when several instances share rooms.
type pushGateway struct {
	emitter  realtime.Emitter
	bridge   *realtime.Bridge
	consumer *mq.Consumer
}

func providePushGateway(cfg *config.Config, hub *realtime.Hub, logger *zap.Logger) (*pushGateway, func(), error) {
	if cfg.Realtime.Bridge != "rabbitmq" {
		return &pushGateway{emitter: hub}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.RealtimeExchange, "fanout", logger)
	if err != nil {
		return nil, nil, fmt.Errorf("realtime bridge publisher: %w", err)
	}
	// Every instance needs every message, so each gets its own exclusive queue.
	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.RealtimeExchange, "fanout",
		mq.QueueOptions{Exclusive: true}, []string{""}, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("realtime bridge consumer: %w", err)
	}

	bridge := realtime.NewBridge(hub, publisher, logger)
	return &pushGateway{emitter: bridge, bridge: bridge, consumer: consumer}, func() {
		_ = consumer.Close()
		_ = publisher.Close()
	}, nil
}

func provideEmitter(g *pushGateway) realtime.Emitter {
	return g.emitter
}

// provideEventSink picks where domain events go. Broker sinks sit behind a
// circuit breaker so an outage fails fast and the outbox retries later.
func provideEventSink(cfg *config.Config, logger *zap.Logger) (messaging.EventSink, func(), error) {
	var sink messaging.EventSink
	switch cfg.Outbox.EventSink {
	case "rabbitmq":
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.EventsExchange, "topic", logger)
		if err != nil {
			return nil, nil, fmt.Errorf("event sink: %w", err)
		}
		sink = messaging.NewBreakerSink("rabbitmq-events", messaging.NewRabbitSink(publisher), logger)
	case "kafka":
		sink = messaging.NewBreakerSink("kafka-events",
			messaging.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Buffer, logger), logger)
	default:
		sink = messaging.NewLogSink(logger)
	}
	logger.Info("domain event sink ready", zap.String("sink", cfg.Outbox.EventSink))
	return sink, func() { _ = sink.Close() }, nil
}

func provideDispatcher(
	repo outbox.Repository,
	notifications notification.Service,
	emitter realtime.Emitter,
	sink messaging.EventSink,
	cfg *config.Config,
	logger *zap.Logger,
) *appnotification.Dispatcher {
	return appnotification.NewDispatcher(repo, notifications, emitter, sink, appnotification.DispatcherConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
	}, logger)
}

func provideWaker(d *appnotification.Dispatcher) outbox.Waker {
	return d
}

func provideRealtimeHandler(hub *realtime.Hub, cfg *config.Config, logger *zap.Logger) *handler.RealtimeHandler {
	return handler.NewRealtimeHandler(hub, cfg.Realtime.Heartbeat, logger)
}

// dbPinger backs the readiness check.
func dbPinger(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
