package updatejurydecision

import (
	"context"
	"time"

	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/jury"
	"coaching-workers/internal/models"
	"coaching-workers/internal/workflow"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "update-jury-decision"
)

type Updater interface {
	UpdateDecision(ctx context.Context, cmd jury.UpdateCommand) (*workflow.DecisionResult, error)
}

type Handler struct {
	config       *Config
	updater      Updater
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, updater Updater, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		updater:      updater,
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

// Execute rewrites every mutable field of the decision with the job's values.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	decision, err := models.ParseDecision(input.Decision)
	if err != nil {
		return nil, err
	}

	res, err := h.updater.UpdateDecision(ctx, jury.UpdateCommand{
		DecisionID: input.DecisionID,
		Fields: jury.Fields{
			Decision:        decision,
			AdvisorID:       input.AdvisorID,
			CohortID:        input.CohortID,
			PartnerID:       input.PartnerID,
			Comment:         input.Comment,
			NotifyCandidate: input.NotifyCandidate,
			NotifyAdvisor:   input.NotifyAdvisor,
			NotifyPartner:   input.NotifyPartner,
		},
	})
	if err != nil {
		return nil, err
	}

	d := res.Decision
	out := &Output{
		DecisionID:      d.ID,
		Decision:        string(d.Decision),
		StatusChanged:   res.CandidateStatus != "",
		CandidateStatus: string(res.CandidateStatus),
		DecidedAt:       d.DecidedAt.UTC().Format(time.RFC3339),
		NotifyCandidate: d.NotifyCandidate,
		NotifyAdvisor:   d.NotifyAdvisor,
		NotifyPartner:   d.NotifyPartner,
	}
	if res.Redirection != nil {
		out.RedirectionID = &res.Redirection.ID
	}
	return out, nil
}
