// Command geoknow serves the hybrid spatiotemporal question answering API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geoknow/internal/config"
	dbPostgres "github.com/kailas-cloud/geoknow/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/geoknow/internal/db/redis"
	"github.com/kailas-cloud/geoknow/internal/domain"
	logpkg "github.com/kailas-cloud/geoknow/internal/logger"
	"github.com/kailas-cloud/geoknow/internal/metrics"
	"github.com/kailas-cloud/geoknow/internal/repository/gazetteer"
	historyrepo "github.com/kailas-cloud/geoknow/internal/repository/history"
	"github.com/kailas-cloud/geoknow/internal/repository/structured"
	"github.com/kailas-cloud/geoknow/internal/repository/vector"
	chiTransport "github.com/kailas-cloud/geoknow/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/geoknow/internal/transport/openai"
	answeruc "github.com/kailas-cloud/geoknow/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/geoknow/internal/usecase/health"
	historyuc "github.com/kailas-cloud/geoknow/internal/usecase/history"
	ingestuc "github.com/kailas-cloud/geoknow/internal/usecase/ingest"
	intentuc "github.com/kailas-cloud/geoknow/internal/usecase/intent"
	retrievaluc "github.com/kailas-cloud/geoknow/internal/usecase/retrieval"
	searchuc "github.com/kailas-cloud/geoknow/internal/usecase/search"
	"github.com/kailas-cloud/geoknow/internal/version"
)

func main() {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "geoknow:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "geoknow: logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, env, &cfg, logger)
	stop()
	if err != nil {
		logger.Error("geoknow exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func millis(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// run wires the service and serves until ctx is cancelled.
func run(ctx context.Context, env string, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("geoknow starting",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("port", cfg.HTTP.Port),
		zap.Strings("redis", cfg.Redis.Addrs),
		zap.String("embedding_model", cfg.LLM.Embedding.Model),
		zap.String("chat_model", cfg.LLM.Chat.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:       cfg.Redis.Addrs,
		Username:    cfg.Redis.Username,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: seconds(cfg.Redis.DialTimeoutSec),
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer store.Close()
	if err := store.WaitForReady(ctx, seconds(cfg.Redis.ReadinessTimeout)); err != nil {
		return err
	}

	pool, err := dbPostgres.NewPool(ctx, dbPostgres.Config{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		MaxConnLifetime: seconds(cfg.Postgres.MaxConnLifetimeSec),
	})
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	if err := pool.WaitForReady(ctx, seconds(cfg.Postgres.ReadinessTimeout)); err != nil {
		return err
	}
	logger.Info("backends ready")

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()
	metrics.RegisterLLMMetrics()

	vectorRepo := vector.New(store)
	if err := vectorRepo.EnsureIndex(ctx, domain.VectorConfig{
		Dimensions:  cfg.LLM.Embedding.Dimensions,
		HNSWM:       cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
		Recreate:    cfg.Index.Recreate,
	}); err != nil {
		return fmt.Errorf("vector index: %w", err)
	}
	structuredRepo := structured.New(pool)
	places := gazetteer.New(store)

	emb := cfg.LLM.Embedding
	baseEmbedder := openaiTransport.NewEmbedder(providerConfig(cfg, emb.Provider, emb.Model, logger), emb.Dimensions)
	docEmbedder := buildEmbedder(baseEmbedder, cfg, emb.DocumentInstruction, nil, logger)
	queryEmbedder := buildEmbedder(baseEmbedder, cfg, emb.QueryInstruction, store, logger)

	chat := cfg.LLM.Chat
	generator := openaiTransport.NewGenerator(
		providerConfig(cfg, chat.Provider, chat.Model, logger),
		openaiTransport.GeneratorOptions{
			MaxTokens:    chat.MaxTokens,
			Temperature:  chat.Temperature,
			SystemPrompt: chat.SystemPrompt,
		},
	)

	// A nil interface, never a typed nil, disables structuring.
	var structurer intentuc.Structurer
	if sc := cfg.LLM.Structurer; !sc.Disabled {
		structurer = openaiTransport.NewStructurer(providerConfig(cfg, sc.Provider, sc.Model, logger), sc.JSONMode)
	}

	intentSvc := intentuc.New(structurer, places, intentuc.NewNormalizer(eras(cfg.Eras)), queryEmbedder, logger)
	retrievalSvc := retrievaluc.New(vectorRepo, structuredRepo, millis(cfg.Retrieval.TimeoutMs), logger)

	var (
		history  answeruc.HistoryRecorder
		recorder *historyuc.Recorder
	)
	if !cfg.History.Disabled {
		recorder, err = historyuc.NewRecorder(historyrepo.New(pool), cfg.History.Workers, millis(cfg.History.TimeoutMs), logger)
		if err != nil {
			return fmt.Errorf("history recorder: %w", err)
		}
		history = recorder
	}

	api := chiTransport.NewServer(
		answeruc.New(intentSvc, retrievalSvc, generator, history, answeruc.Options{
			DefaultTopK: cfg.Retrieval.DefaultTopK,
			MaxTopK:     cfg.Retrieval.MaxTopK,
		}, logger),
		searchuc.New(structuredRepo, retrievalSvc, queryEmbedder),
		ingestuc.New(structuredRepo, vectorRepo, places, docEmbedder, logger),
		healthuc.New(store, pool, &llmHealthChecker{embedder: baseEmbedder, generator: generator}),
		logger,
	)

	r := chi.NewRouter()
	r.Use(recoverJSON(logger), chiMiddleware.RequestID, accessLog(logger), metrics.Middleware())
	api.Routes(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  seconds(cfg.HTTP.ReadTimeoutSec),
		WriteTimeout: seconds(cfg.HTTP.WriteTimeoutSec),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	grace := seconds(cfg.HTTP.ShutdownSec)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	// History writes are drained once no request can enqueue more.
	if recorder != nil {
		if err := recorder.Close(grace); err != nil {
			logger.Warn("history recorder did not drain", zap.Error(err))
		}
	}
	logger.Info("stopped")
	return nil
}
