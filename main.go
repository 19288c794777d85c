package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glezervv/reminder-bot/config"
	"github.com/glezervv/reminder-bot/db"
	"github.com/glezervv/reminder-bot/metrics"
	"github.com/glezervv/reminder-bot/reminder"
	"github.com/glezervv/reminder-bot/tgbot"
	"github.com/glezervv/reminder-bot/web"
)

// getLogger creates a logger for the given namespace
func getLogger(ns string) *zap.SugaredLogger {
	logger, _ := zap.NewDevelopment(zap.Fields(zap.String("ns", ns)))
	return logger.Sugar()
}

func main() {
	logger := getLogger("main")
	defer logger.Sync()

	// .env is optional, environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed loading configuration", "err", err)
	}

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := db.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("failed to initialize database", "err", err)
	}
	defer d.Close()

	if err := d.Init(ctx); err != nil {
		logger.Fatalw("failed creating reminders table", "err", err)
	}

	b, err := tgbot.NewTBot(cfg.TelegramToken, d, getLogger("tgbot"))
	if err != nil {
		logger.Fatalw("failed to initialize Telegram Bot", "err", err)
	}

	mgr := reminder.NewManager(d, b, cfg.TickInterval, getLogger("reminder"))
	if err := mgr.Start(ctx); err != nil {
		logger.Fatalw("failed starting reminder manager", "err", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewServer(d, getLogger("web")).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		b.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("server shutdown error", "err", err)
		}

		if err := mgr.Stop(); err != nil && err != reminder.ErrNotRunning {
			logger.Errorw("reminder manager stop error", "err", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("service failed", "err", err)
	}
	logger.Info("shutdown complete")
}
