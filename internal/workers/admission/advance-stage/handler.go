package advancestage

import (
	"context"
	"time"

	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"
	"coaching-workers/internal/workflow"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "advance-stage"
)

type StageService interface {
	AdvanceStage(ctx context.Context, admissionID, progressID string, state models.StageState) (*workflow.StageAdvanceResult, error)
}

type Handler struct {
	config       *Config
	stages       StageService
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, stages StageService, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		stages:       stages,
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
	state, err := models.ParseStageState(input.State)
	if err != nil {
		return nil, err
	}

	res, err := h.stages.AdvanceStage(ctx, input.AdmissionID, input.ProgressID, state)
	if err != nil {
		return nil, err
	}
	sp := res.Progress

	remaining := 0
	for _, s := range res.Stages {
		if !s.State.Terminal() {
			remaining++
		}
	}

	return &Output{
		ProgressID:        sp.ID,
		StageCode:         sp.StageCode,
		StageState:        string(sp.State),
		StartedAt:         formatTime(sp.StartedAt),
		FinishedAt:        formatTime(sp.FinishedAt),
		RemainingStages:   remaining,
		AllStagesFinished: remaining == 0,
	}, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
