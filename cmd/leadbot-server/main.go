// cmd/leadbot-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsclients "leadbot/internal/common/aws"
	"leadbot/internal/common/config"
	"leadbot/internal/common/database"
	"leadbot/internal/common/logger"
	"leadbot/internal/common/observability"
	"leadbot/internal/notifier"
	qualifyworkflow "leadbot/internal/pipeline/qualify-workflow"
	"leadbot/internal/responder"
	"leadbot/internal/server"
	"leadbot/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting leadbot server", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// Infrastructure clients, each with startup retry. The responder endpoint
	// is not probed here: it degrades per turn instead of blocking startup.
	var pg *database.PostgresClient
	err = retryWithBackoff(ctx, "postgres", log, func() error {
		var connErr error
		pg, connErr = database.NewPostgres(cfg.Database.Postgres)
		if connErr != nil {
			return connErr
		}
		return pg.Ping(ctx)
	})
	if err != nil {
		log.Error("postgres unavailable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer pg.Close()

	var rdb *database.RedisClient
	err = retryWithBackoff(ctx, "redis", log, func() error {
		var connErr error
		rdb, connErr = database.NewRedis(cfg.Database.Redis)
		if connErr != nil {
			return connErr
		}
		return rdb.Ping(ctx)
	})
	if err != nil {
		log.Error("redis unavailable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer rdb.Close()

	var es *database.ElasticsearchClient
	err = retryWithBackoff(ctx, "elasticsearch", log, func() error {
		var connErr error
		es, connErr = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if connErr != nil {
			return connErr
		}
		return es.Ping()
	})
	if err != nil {
		log.Error("elasticsearch unavailable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	sesClient, err := awsclients.NewSESClient(ctx, cfg.Notifications.AWSRegion)
	if err != nil {
		log.Error("failed to create SES client", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	snsClient, err := awsclients.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
	if err != nil {
		log.Error("failed to create SNS client", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	persistence := store.NewPostgresStore(pg.GetDB(), log)
	sessions := store.NewRedisSessionStore(rdb.GetClient(), time.Duration(cfg.Pipeline.SessionTTL)*time.Second, log)
	replyCache := store.NewRedisReplyCache(rdb.GetClient(), time.Duration(cfg.Pipeline.ReplyCacheTTL)*time.Second, log)
	leadIndex := store.NewESLeadIndex(es.Client, cfg.Database.Elasticsearch.LeadIndex, log)

	notify := notifier.NewAWSNotifier(cfg.Notifications, sesClient, snsClient, log)
	resp := responder.NewChatResponder(cfg.Responder, log)

	workflow := qualifyworkflow.New(
		qualifyworkflow.Config{
			NotifyScoreThreshold: cfg.Pipeline.NotifyScoreThreshold,
			CallScoreThreshold:   cfg.Pipeline.CallScoreThreshold,
			NeedsReviewAttempts:  cfg.Pipeline.NeedsReviewAttempts,
			SideEffectTimeout:    10 * time.Second,
		},
		resp, notify, persistence, leadIndex, obs, log,
	)

	srv := server.New(workflow, sessions, replyCache, leadIndex, log)

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	debugServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.DebugPort),
		Handler: server.DebugRoutes(),
	}

	go func() {
		log.Info("debug server listening", map[string]interface{}{"port": cfg.Server.DebugPort})
		if err := debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("debug server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	go func() {
		log.Info("api server listening", map[string]interface{}{"port": cfg.Server.Port})
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("api server failed", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("api server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := debugServer.Shutdown(shutdownCtx); err != nil {
		log.Error("debug server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("shutdown complete", nil)
}

// retryWithBackoff retries an infrastructure connection with exponential
// backoff before giving up.
func retryWithBackoff(ctx context.Context, name string, log logger.Logger, fn func() error) error {
	const maxAttempts = 5
	backoff := time.Second

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		log.Warn("connection attempt failed", map[string]interface{}{
			"target":  name,
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
