package withdrawpreapplication

import (
	"context"
	"time"

	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "withdraw-pre-application"
)

type Withdrawer interface {
	WithdrawPreApplication(ctx context.Context, preApplicationID string) (*models.PreApplication, error)
}

type Handler struct {
	config       *Config
	withdrawer   Withdrawer
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, withdrawer Withdrawer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		withdrawer:   withdrawer,
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
	pa, err := h.withdrawer.WithdrawPreApplication(ctx, input.PreApplicationID)
	if err != nil {
		return nil, err
	}

	if input.Reason != "" {
		h.logger.Info("withdrawal reason", map[string]interface{}{
			"preApplicationId": pa.ID,
			"reason":           input.Reason,
		})
	}

	return &Output{
		PreApplicationID:     pa.ID,
		PreApplicationStatus: string(pa.Status),
		WithdrawnAt:          pa.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}
