package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/config"
	"github.com/ykvlv/homework-bot/internal/poller"
	"github.com/ykvlv/homework-bot/internal/practicum"
	"github.com/ykvlv/homework-bot/internal/store"
	"github.com/ykvlv/homework-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	sender  telegram.Sender
	httpSrv *http.Server
	journal store.Journal
}

// New builds the Bot API client. The config must already have passed
// CheckTokens. An unreachable Bot API is only logged.
func New(cfg config.Config, log *zap.Logger) *App {
	bot := telegram.NewBot(cfg.TelegramToken, cfg.TelegramEndpoint)
	if me, err := bot.GetMe(); err != nil {
		log.Warn("telegram getMe failed", zap.Error(err))
	} else {
		bot.Self = me
		log.Info("authorized on telegram", zap.String("bot", me.UserName))
	}
	return &App{cfg: cfg, log: log, sender: bot, journal: store.Noop{}}
}

func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.DBPath != "" {
		j, err := store.OpenSQLite(ctx, a.cfg.DBPath)
		if err != nil {
			a.log.Error("open sqlite failed", zap.Error(err))
			return err
		}
		a.journal = j
		a.log.Info("notification journal ready", zap.String("path", a.cfg.DBPath))
	}
	defer func() { _ = a.journal.Close() }()

	if a.cfg.HTTPAddr != "" {
		a.httpSrv = &http.Server{
			Addr:         a.cfg.HTTPAddr,
			Handler:      NewRouter(a.journal, a.log),
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
		go func() {
			if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("http server error", zap.Error(err))
			}
		}()
	}

	client := practicum.New(a.cfg.Endpoint, a.cfg.PracticumToken, a.cfg.APITimeout, a.log)
	notifier := telegram.NewNotifier(a.sender, a.cfg.TelegramChatID, a.log)
	p := poller.New(client, notifier, a.log, a.cfg.RetryPeriod, poller.WithJournal(a.journal))

	err := p.Run(ctx)
	a.log.Info("shutdown signal received")

	if a.httpSrv != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.httpSrv.Shutdown(shCtx); err != nil {
			a.log.Warn("http server shutdown error", zap.Error(err))
		}
		cancel()
	}
	return err
}
