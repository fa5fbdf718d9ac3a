// cmd/analytics-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"shopify-analytics-service/internal/agent"
	"shopify-analytics-service/internal/common/cache"
	"shopify-analytics-service/internal/common/config"
	"shopify-analytics-service/internal/common/genai"
	"shopify-analytics-service/internal/common/logger"
	"shopify-analytics-service/internal/common/observability"
	"shopify-analytics-service/internal/common/shopify"
	synthesizeresponse "shopify-analytics-service/internal/pipeline/synthesize-response"
	"shopify-analytics-service/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting analytics service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("analytics-service")
	defer obs.Shutdown()

	// --- Optional answer cache with retry ---
	var answerCache *cache.AnswerCache
	if cfg.Cache.Enabled {
		answerCache, err = cache.New(
			cfg.Cache.Address,
			cfg.Cache.Password,
			cfg.Cache.DB,
			time.Duration(cfg.Cache.TTL)*time.Second,
			log,
		)
		if err != nil {
			zapLog.Fatal("cache initialization failed", zap.Error(err))
		}
		defer answerCache.Close()

		err = retryWithBackoff(func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return answerCache.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("cache unreachable", zap.Error(err))
		}
		zapLog.Info("Answer cache connected", zap.String("address", cfg.Cache.Address))
	}

	// --- External clients ---
	storeClient := shopify.NewClient(
		cfg.Shopify.APIVersion,
		time.Duration(cfg.Shopify.Timeout)*time.Millisecond,
		cfg.Shopify.MaxRetries,
		log,
	)

	genaiClient := genai.NewClient(
		cfg.GenAI.BaseURL,
		cfg.GenAI.APIKey,
		cfg.GenAI.Model,
		time.Duration(cfg.GenAI.Timeout)*time.Millisecond,
		log,
	)

	// --- Pipeline ---
	synthesizer := synthesizeresponse.NewSynthesizer(genaiClient, synthesizeresponse.Config{
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
	}, log)

	questionAgent := agent.New(storeClient, synthesizer, log)

	// --- HTTP shell ---
	srv := server.New(
		questionAgent,
		answerCache,
		obs,
		cfg.Server.Addr(),
		time.Duration(cfg.Server.ReadTimeout)*time.Millisecond,
		time.Duration(cfg.Server.WriteTimeout)*time.Millisecond,
		log,
	)

	// pprof rides on the default mux via the blank import above.
	go func() {
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			zapLog.Warn("debug server stopped", zap.Error(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	zapLog.Info("Analytics service started", zap.String("addr", cfg.Server.Addr()))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Analytics service stopped")
}
