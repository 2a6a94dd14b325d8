package lookupcompanyregistry

import (
	"context"

	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/sirene"
	"coaching-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "lookup-company-registry"
)

type Enricher interface {
	EnrichCompany(ctx context.Context, candidateID, siren string) (*models.Company, error)
}

type Handler struct {
	config       *Config
	enricher     Enricher
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, enricher Enricher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		enricher:     enricher,
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
	// reject malformed numbers before spending a registry call
	siren, err := sirene.NormalizeSIREN(input.SIREN)
	if err != nil {
		return nil, err
	}

	company, err := h.enricher.EnrichCompany(ctx, input.CandidateID, siren)
	if err != nil {
		return nil, err
	}

	out := &Output{
		CompanyID:       company.ID,
		SIREN:           company.SIREN,
		LegalName:       company.LegalName,
		CompanyAddress:  company.Address,
		ActivityCode:    company.ActivityCode,
		Latitude:        company.Latitude,
		Longitude:       company.Longitude,
		CompanyEnriched: true,
	}
	if company.FoundedOn != nil {
		out.FoundedOn = company.FoundedOn.Format("2006-01-02")
	}
	return out, nil
}
