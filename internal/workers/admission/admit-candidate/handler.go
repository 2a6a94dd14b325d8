package admitcandidate

import (
	"context"
	"time"

	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/workflow"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "admit-candidate"
)

type Admitter interface {
	Admit(ctx context.Context, cmd workflow.AdmitCommand) (*workflow.AdmitResult, error)
}

type Handler struct {
	config       *Config
	admitter     Admitter
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, admitter Admitter, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		admitter:     admitter,
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
	res, err := h.admitter.Admit(ctx, workflow.AdmitCommand{
		PreApplicationID: input.PreApplicationID,
		CohortID:         input.CohortID,
		AdvisorIDs:       input.AdvisorIDs,
	})
	if err != nil {
		return nil, err
	}

	out := &Output{
		AdmissionID:     res.Admission.ID,
		AdmissionStatus: string(res.Admission.Status),
		AdmittedAt:      res.Admission.AdmittedAt.UTC().Format(time.RFC3339),
		Stages:          make([]StageSnapshot, 0, len(res.Stages)),
	}
	for _, sp := range res.Stages {
		out.Stages = append(out.Stages, StageSnapshot{
			ProgressID: sp.ID,
			Code:       sp.StageCode,
			Label:      sp.StageLabel,
			Sequence:   sp.Sequence,
			State:      string(sp.State),
		})
	}
	return out, nil
}
