package camunda

import (
	"context"
	"encoding/json"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/metrics"
	"coaching-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ParseVariables checks the job variables against schema, then decodes them into dst.
func ParseVariables(job entities.Job, schema *validation.Schema, dst interface{}) error {
	raw := []byte(job.Variables)
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := schema.Validate(raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.NewValidationError("variables", err.Error())
	}
	return nil
}

// CompleteJob sends output back as the job's result variables.
func CompleteJob(client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
	log.Info("job completed successfully", map[string]interface{}{"jobKey": job.Key})
}

// FailJob counts the failure and lets the error handler pick retry or BPMN error.
func FailJob(ctx context.Context, client worker.JobClient, job entities.Job, handler *apperrors.ErrorHandler, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, string(apperrors.CodeOf(err))).Inc()
	handler.HandleJobError(ctx, client, job, err)
}
