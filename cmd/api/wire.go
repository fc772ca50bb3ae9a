//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	appreview "github.com/xiebiao/bookreview/internal/application/review"
	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/internal/interface/http/router"
)

// infrastructureSet 基础设施层：日志、数据库、Redis、JWT、消息队列
var infrastructureSet = wire.NewSet(
	provideLogger,
	database.NewDB,
	redis.NewClient,
	redis.NewSessionStore,
	provideJWTManager,
	providePublisher,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	database.NewUserRepository,
	database.NewBookRepository,
	database.NewReviewRepository,
	database.NewTxManager,
	wire.Bind(new(appbook.Transactor), new(*database.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	review.NewService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewGetProfileUseCase,

	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,

	appreview.NewRatingAggregator,
	appreview.NewListReviewsUseCase,
	appreview.NewGetReviewUseCase,
	appreview.NewAddReviewUseCase,
	appreview.NewUpdateReviewUseCase,
	appreview.NewDeleteReviewUseCase,
)

// interfaceSet HTTP接口层
var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewReviewHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用
// cleanup按创建的逆序关闭消息发布者、Redis、数据库和日志
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
