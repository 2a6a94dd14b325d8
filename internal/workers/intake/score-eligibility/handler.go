package scoreeligibility

import (
	"context"

	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-eligibility"
)

// Scorer is the workflow operation behind this task.
type Scorer interface {
	ScoreEligibility(ctx context.Context, preApplicationID string) (*models.EligibilityAssessment, error)
}

type Handler struct {
	config       *Config
	scorer       Scorer
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, scorer Scorer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.ParseVariables(job, inputSchema, &input); err != nil {
		camunda.FailJob(context.Background(), client, job, h.errorHandler, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		camunda.FailJob(context.Background(), client, job, h.errorHandler, err)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	assessment, err := h.scorer.ScoreEligibility(ctx, input.PreApplicationID)
	if err != nil {
		return nil, err
	}

	h.logger.Info("eligibility scored", map[string]interface{}{
		"preApplicationId": input.PreApplicationID,
		"verdict":          string(assessment.Verdict),
	})

	return &Output{
		AssessmentID:    assessment.ID,
		Verdict:         assessment.Verdict,
		RevenueOK:       assessment.RevenueOK,
		EquityZoneOK:    assessment.EquityZoneOK,
		TenureOK:        assessment.TenureOK,
		TenureYears:     assessment.TenureYears,
		Detail:          assessment.Detail,
		EligibilityDone: true,
	}, nil
}
