package camunda

import (
	"context"
	"time"

	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/metrics"
	"coaching-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
)

// JobHandlerFunc is the signature every task handler exposes.
type JobHandlerFunc func(client worker.JobClient, job entities.Job)

// WorkerOptions configures one job subscription.
type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

// Instrument wraps handler with the active-jobs gauge, duration histogram and a span.
func Instrument(taskType string, handler JobHandlerFunc, obs *observability.Observability) JobHandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		_, span := obs.StartSpan(context.Background(), "job "+taskType,
			attribute.Int64("zeebe.job.key", job.Key),
			attribute.Int64("zeebe.process_instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		handler(client, job)

		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		obs.RecordJobDuration(context.Background(), taskType, elapsed, "handled")
		obs.RecordJobProcessed(context.Background(), taskType, "handled")
	}
}

// StartWorker opens a job worker for opts.TaskType.
func StartWorker(client zbc.Client, opts WorkerOptions, handler JobHandlerFunc, obs *observability.Observability, log logger.Logger) worker.JobWorker {
	w := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(worker.JobHandler(Instrument(opts.TaskType, handler, obs))).
		MaxJobsActive(opts.MaxJobsActive).
		Timeout(opts.Timeout).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      opts.TaskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return w
}
