package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xela07ax/incentive-bridge/internal/bot"
	"github.com/xela07ax/incentive-bridge/internal/infra"
	"github.com/xela07ax/incentive-bridge/internal/metrics"
	"github.com/xela07ax/incentive-bridge/internal/server"
	"github.com/xela07ax/incentive-bridge/internal/store/airtable"
)

func main() {
	// 1. Конфигурация (файл + ENV), валидация обязательных ключей
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// 2. Логгер
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// 3. Метрики
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// 4. Ресурсы: record store клиент и чат-сессия
	store := airtable.NewClient(cfg.Airtable, logger)

	sess, err := bot.NewSession(cfg.Discord, logger)
	if err != nil {
		logger.Fatal("discord session init failed", zap.Error(err))
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sess.Start(appCtx); err != nil {
		logger.Fatal("discord login failed", zap.Error(err))
	}

	sess.RegisterInteractionHandler(bot.NewInteractionHandler(store, logger, m))

	// 5. HTTP Server
	webhookH := server.NewWebhookHandler(cfg.Webhook.Secret, store, sess, logger, m)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.New(cfg, logger, m, webhookH, reg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("incentive bridge started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("incentive bridge stopping")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := sess.Stop(); err != nil {
		logger.Error("discord session close failed", zap.Error(err))
	}
	logger.Info("incentive bridge exited properly")
}
