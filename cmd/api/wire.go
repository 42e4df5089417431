//go:build wireinject
// +build wireinject

// Wire injector for the api binary.
//
// buildApp in app.go is the hand-written equivalent that main uses; keep both in
// sync. To regenerate: `wire gen ./cmd/api`, then switch main to InitializeApp.

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/boipara/bookstore/internal/application/book"
	appbuyback "github.com/boipara/bookstore/internal/application/buyback"
	appnotification "github.com/boipara/bookstore/internal/application/notification"
	apporder "github.com/boipara/bookstore/internal/application/order"
	appreturns "github.com/boipara/bookstore/internal/application/returns"
	appsearch "github.com/boipara/bookstore/internal/application/search"
	appuser "github.com/boipara/bookstore/internal/application/user"
	"github.com/boipara/bookstore/internal/domain/book"
	"github.com/boipara/bookstore/internal/domain/notification"
	"github.com/boipara/bookstore/internal/domain/user"
	"github.com/boipara/bookstore/internal/infrastructure/config"
	"github.com/boipara/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/boipara/bookstore/internal/interface/http/handler"
	"github.com/boipara/bookstore/internal/interface/http/middleware"
)

var infrastructureSet = wire.NewSet(
	mysql.NewDB,
	provideRedis,
	dbPinger,
)

var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewOrderRepository,
	mysql.NewNotificationRepository,
	mysql.NewOutboxRepository,
	mysql.NewReturnRepository,
	mysql.NewBuybackRepository,
	mysql.NewSearchRepository,
	mysql.NewTxManager,
)

var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	notification.NewService,
)

// pushSet covers realtime delivery and the outbox worker that feeds it.
var pushSet = wire.NewSet(
	provideHub,
	providePushGateway,
	provideEmitter,
	provideEventSink,
	provideDispatcher,
	provideWaker,
)

var searchSet = wire.NewSet(
	provideSuggestionCache,
	provideSearchHistory,
	provideQueryCounter,
	appsearch.NewOrderTrending,
	provideSearchEngine,
)

var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewProfileUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewManageBookUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewQueryOrdersUseCase,
	appreturns.NewReturnUseCase,
	appbuyback.NewBuybackUseCase,
	appnotification.NewInboxUseCase,
)

var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideRevocationChecker,
	provideTokenRevoker,
	middleware.NewAuthMiddleware,
)

var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewOrderHandler,
	handler.NewReturnHandler,
	handler.NewBuybackHandler,
	handler.NewNotificationHandler,
	handler.NewSearchHandler,
	provideRealtimeHandler,
	wire.Struct(new(handlers), "*"),
)

// InitializeApp builds the same graph as buildApp.
func InitializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		pushSet,
		searchSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		newRouter,
		newApp,
	)
	return nil, nil, nil
}
