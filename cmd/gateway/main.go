package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/tucnak/telebot.v2"
	"gorm.io/gorm"

	"github.com/obadahasan/souqgateway/internal/api"
	v1 "github.com/obadahasan/souqgateway/internal/api/v1"
	"github.com/obadahasan/souqgateway/internal/bot"
	"github.com/obadahasan/souqgateway/internal/config"
	"github.com/obadahasan/souqgateway/internal/middleware"
	"github.com/obadahasan/souqgateway/internal/notify"
	"github.com/obadahasan/souqgateway/internal/repository"
	"github.com/obadahasan/souqgateway/internal/service"
	"github.com/obadahasan/souqgateway/pkg/mq"
	"github.com/obadahasan/souqgateway/pkg/mysql"
	"github.com/obadahasan/souqgateway/pkg/telegram"
)

// The gateway runs the web API and the Telegram bot in one process:
// verification codes live in memory and must be visible to both.
func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,
			NewTelegramBot,
			NewFiberApp,

			repository.NewUserAccountRepository,
			repository.NewProductRepository,
			repository.NewOrderRepository,
			repository.NewChargeKeyRepository,
			repository.NewFulfillerRepository,
			repository.NewTransactionManager,

			NewDispatcher,
			service.NewLedger,
			service.NewVerifier,
			service.NewCatalog,
			service.NewRoster,
			service.NewVault,
			service.NewEscrow,
			service.NewProductFlow,

			v1.NewHandler,
			bot.New,
		),
		fx.Invoke(startServer, startBot),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config,
	rabbit *mq.RabbitMQ, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler, cfg)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{notify.Queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("server stopped", zap.Error(err))
				}
			}()

			logger.Info("api listening", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return rabbit.Close()
		},
	})
}

func startBot(b *bot.Bot, logger *zap.Logger, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go b.Start()
			logger.Info("bot polling started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			b.Stop()
			return nil
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewTelegramBot(cfg *config.Config) (*telebot.Bot, error) {
	return telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.PollTimeout)
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func NewDispatcher(publisher mq.Publisher, cfg *config.Config, logger *zap.Logger) notify.Dispatcher {
	return notify.NewDispatcher(publisher, cfg.Market.OperatorID, logger)
}
