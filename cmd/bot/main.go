package main

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/app"
	"github.com/ykvlv/homework-bot/internal/config"
	"github.com/ykvlv/homework-bot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.CheckTokens() {
		log.Fatal("Отсутствуют переменные окружения.", zap.String("missing", strings.Join(cfg.MissingTokens(), ", ")))
	}

	application := app.New(cfg, log)
	if err := application.Run(context.Background()); err != nil {
		log.Fatal("app run failed", zap.Error(err))
	}
}
