package submitpreapplication

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
	TaskType = "submit-pre-application"
)

type Submitter interface {
	SubmitPreApplication(ctx context.Context, cmd workflow.SubmitCommand) (*workflow.SubmitResult, error)
}

type Handler struct {
	config       *Config
	submitter    Submitter
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, submitter Submitter, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		submitter:    submitter,
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
	cmd, err := toCommand(input)
	if err != nil {
		return nil, err
	}

	res, err := h.submitter.SubmitPreApplication(ctx, cmd)
	if err != nil {
		return nil, err
	}

	return &Output{
		CandidateID:          res.Candidate.ID,
		PreApplicationID:     res.PreApplication.ID,
		PreApplicationStatus: string(res.PreApplication.Status),
		CandidateCreated:     res.CandidateCreated,
		SubmittedAt:          res.PreApplication.SubmittedAt.UTC().Format(time.RFC3339),
	}, nil
}

func toCommand(input *Input) (workflow.SubmitCommand, error) {
	cmd := workflow.SubmitCommand{
		CandidateID: input.CandidateID,
		ProgramID:   input.ProgramID,
		FormData:    input.FormData,
	}

	if c := input.Candidate; c != nil {
		birth, err := parseDate("candidate.birthDate", c.BirthDate)
		if err != nil {
			return cmd, err
		}
		cmd.Candidate = &models.Candidate{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
			Address:   c.Address,
			BirthDate: birth,
			Gender:    c.Gender,
		}
	}

	if co := input.Company; co != nil {
		founded, err := parseDate("company.foundedOn", co.FoundedOn)
		if err != nil {
			return cmd, err
		}
		cmd.Company = &models.Company{
			SIREN:           co.SIREN,
			LegalName:       co.LegalName,
			Address:         co.Address,
			FoundedOn:       founded,
			RevenueInterval: co.RevenueInterval,
		}
	}
	return cmd, nil
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "expected YYYY-MM-DD")
	}
	return &t, nil
}
