// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "coaching-workers/internal/common/aws"
	"coaching-workers/internal/common/camunda"
	"coaching-workers/internal/common/config"
	"coaching-workers/internal/common/database"
	"coaching-workers/internal/common/geo"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/observability"
	"coaching-workers/internal/common/sirene"
	"coaching-workers/internal/eligibility"
	"coaching-workers/internal/equity"
	"coaching-workers/internal/reporting"
	"coaching-workers/internal/repository"
	"coaching-workers/internal/workflow"

	// Intake Workers (4)
	lcr "coaching-workers/internal/workers/intake/lookup-company-registry"
	se "coaching-workers/internal/workers/intake/score-eligibility"
	spa "coaching-workers/internal/workers/intake/submit-pre-application"
	wpa "coaching-workers/internal/workers/intake/withdraw-pre-application"

	// Admission Workers (2)
	ac "coaching-workers/internal/workers/admission/admit-candidate"
	as "coaching-workers/internal/workers/admission/advance-stage"

	// Jury Workers (3)
	djd "coaching-workers/internal/workers/jury/delete-jury-decision"
	rjd "coaching-workers/internal/workers/jury/record-jury-decision"
	ujd "coaching-workers/internal/workers/jury/update-jury-decision"

	// Communication & Reporting Workers (2)
	ia "coaching-workers/internal/workers/reporting/index-assessment"
	sdn "coaching-workers/internal/workers/communication/send-decision-notification"
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

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := repository.Migrate(ctx, pg.DB); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("Schema migrated")
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	indexer := reporting.NewIndexer(esClient.Client, cfg.Reporting.AssessmentIndex, log)
	if err := indexer.EnsureIndex(ctx); err != nil {
		zapLog.Fatal("assessment index setup failed", zap.Error(err))
	}

	// --- Init Redis with retry ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Domain services ---
	zoneLookup := equity.NewCachedLookup(
		geo.NewClient(cfg.Geo.BaseURL, cfg.Geo.APIKey, cfg.Geo.Timeout()),
		redis.Client, cfg.Geo.CacheTTL(), log,
	)
	resolver := equity.NewResolver(zoneLookup, cfg.Eligibility.AdjacencyThresholdMeters, cfg.Geo.Timeout(), log)
	evaluator := eligibility.NewEvaluator(resolver, log)
	registry := sirene.NewClient(cfg.Registry.BaseURL, cfg.Registry.Token, cfg.Registry.Timeout())

	coordinator := workflow.NewCoordinator(
		workflow.SQLTransactor(repository.NewStore(pg.DB, log)),
		evaluator, registry, log,
		workflow.WithTracer(obs.Tracer()),
	)

	// --- START: Register ALL 11 Workers ---
	client := zeebe.GetClient()
	var workers []worker.JobWorker

	start := func(taskType string, handler camunda.JobHandlerFunc) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		wc := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.StartWorker(client, camunda.WorkerOptions{
			TaskType:      taskType,
			MaxJobsActive: wc.MaxJobsActive,
			Timeout:       config.GetDuration(wc.Timeout),
		}, handler, obs, log))
	}

	// --- 1. Intake Workers (4) ---
	start(spa.TaskType, spa.NewHandler(spa.LoadConfig(config.GetWorkerConfig(cfg, spa.TaskType)), coordinator, log).Handle)
	start(lcr.TaskType, lcr.NewHandler(lcr.LoadConfig(config.GetWorkerConfig(cfg, lcr.TaskType)), coordinator, log).Handle)
	start(se.TaskType, se.NewHandler(se.LoadConfig(config.GetWorkerConfig(cfg, se.TaskType)), coordinator, log).Handle)
	start(wpa.TaskType, wpa.NewHandler(wpa.LoadConfig(config.GetWorkerConfig(cfg, wpa.TaskType)), coordinator, log).Handle)

	// --- 2. Admission Workers (2) ---
	start(ac.TaskType, ac.NewHandler(ac.LoadConfig(config.GetWorkerConfig(cfg, ac.TaskType)), coordinator, log).Handle)
	start(as.TaskType, as.NewHandler(as.LoadConfig(config.GetWorkerConfig(cfg, as.TaskType)), coordinator, log).Handle)

	// --- 3. Jury Workers (3) ---
	start(rjd.TaskType, rjd.NewHandler(rjd.LoadConfig(config.GetWorkerConfig(cfg, rjd.TaskType)), coordinator, log).Handle)
	start(ujd.TaskType, ujd.NewHandler(ujd.LoadConfig(config.GetWorkerConfig(cfg, ujd.TaskType)), coordinator, log).Handle)
	start(djd.TaskType, djd.NewHandler(djd.LoadConfig(config.GetWorkerConfig(cfg, djd.TaskType)), coordinator, log).Handle)

	// --- 4. Communication & Reporting Workers (2) ---
	if config.IsWorkerEnabled(cfg, sdn.TaskType) {
		aws, err := awsclients.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("failed to create AWS clients", zap.Error(err))
		}
		handler := sdn.NewHandler(
			sdn.LoadConfig(config.GetWorkerConfig(cfg, sdn.TaskType), cfg.Notifications),
			aws.SES, aws.SNS, log,
		)
		start(sdn.TaskType, handler.Handle)
	}
	start(ia.TaskType, ia.NewHandler(ia.LoadConfig(config.GetWorkerConfig(cfg, ia.TaskType)), coordinator, indexer, log).Handle)

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := http.StatusOK
		for name, ping := range map[string]func(context.Context) error{
			"postgres":      pg.Ping,
			"redis":         redis.Ping,
			"elasticsearch": esClient.Ping,
			"zeebe":         zeebe.HealthCheck,
		} {
			if err := ping(checkCtx); err != nil {
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		label := "ready"
		if status != http.StatusOK {
			label = "not_ready"
		}
		writeStatus(w, status, label, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string, checks map[string]string) {
	body := map[string]interface{}{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if checks != nil {
		body["checks"] = checks
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
