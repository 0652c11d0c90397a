package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/obadahasan/souqgateway/internal/config"
	"github.com/obadahasan/souqgateway/internal/consumers"
	"github.com/obadahasan/souqgateway/internal/notify"
	"github.com/obadahasan/souqgateway/pkg/mq"
	"github.com/obadahasan/souqgateway/pkg/telegram"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMQConnection,
			NewMQConsumer,
			NewMessenger,

			consumers.NewNotifyConsumer,
		),
		fx.Invoke(runNotifyConsumer),
	).Run()
}

func runNotifyConsumer(notifyConsumer consumers.NotifyConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{notify.Queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", notify.Queue))

			go func() {
				if err := notifyConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("notify consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping notify consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewMessenger(cfg *config.Config) (consumers.Messenger, error) {
	bot, err := telegram.NewSendOnlyBot(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return telegram.NewSender(bot), nil
}
