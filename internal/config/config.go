package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/obadahasan/souqgateway/pkg/mq"
	"github.com/obadahasan/souqgateway/pkg/mysql"
)

type Config struct {
	API      API          `mapstructure:"api"`
	Database mysql.Config `mapstructure:"database"`
	RabbitMQ mq.Config    `mapstructure:"rabbitmq"`
	Telegram Telegram     `mapstructure:"telegram"`
	Auth     Auth         `mapstructure:"auth"`
	Market   Market       `mapstructure:"market"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Telegram struct {
	Token       string `mapstructure:"token"`
	PollTimeout int    `mapstructure:"poll_timeout"`
}

type Auth struct {
	PrivateKey string `mapstructure:"private_key"`
}

type Market struct {
	// OperatorID is the Telegram id of the shop owner. Key generation
	// and roster commands are restricted to this account.
	OperatorID int64 `mapstructure:"operator_id"`
}

func Load() (cfg *Config, err error) {
	// .env carries the bot token and JWT key outside of version control.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("SOUQ")
	viper.AutomaticEnv()
	_ = viper.BindEnv("telegram.token", "SOUQ_TELEGRAM_TOKEN")
	_ = viper.BindEnv("auth.private_key", "SOUQ_AUTH_PRIVATE_KEY")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
