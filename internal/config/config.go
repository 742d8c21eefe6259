package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	PracticumToken string `envconfig:"PRACTICUM_TOKEN"`
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN"`
	TelegramChatID string `envconfig:"TELEGRAM_CHAT_ID"`

	Endpoint    string        `envconfig:"PRACTICUM_ENDPOINT" default:"https://practicum.yandex.ru/api/user_api/homework_statuses/"`
	RetryPeriod time.Duration `envconfig:"RETRY_PERIOD" default:"600s"`
	APITimeout  time.Duration `envconfig:"API_TIMEOUT" default:"0s"` // 0 = no request timeout

	TelegramEndpoint string `envconfig:"TELEGRAM_API_ENDPOINT" default:"https://api.telegram.org/bot%s/%s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"` // debug|info|warn|error
	LogFile  string `envconfig:"LOG_FILE" default:"main.log"`
	DBPath   string `envconfig:"DB_PATH"`   // empty disables the notification journal
	HTTPAddr string `envconfig:"HTTP_ADDR"` // empty disables /healthz
}

// Load reads an optional .env file, then environment variables into Config.
// Variables already present in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	var cfg Config
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// CheckTokens reports whether all three secrets are set and non-empty.
func (c Config) CheckTokens() bool {
	return len(c.MissingTokens()) == 0
}

// MissingTokens lists the names of empty secrets.
func (c Config) MissingTokens() []string {
	var missing []string
	if c.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.TelegramChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	return missing
}
