package indexassessment

import (
	"context"

	"coaching-workers/internal/common/camunda"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"
	"coaching-workers/internal/reporting"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "index-assessment"
)

type ReportSource interface {
	AssessmentReport(ctx context.Context, preApplicationID string) (*models.AssessmentReport, error)
}

type ReportIndexer interface {
	Index(ctx context.Context, report *models.AssessmentReport) (*reporting.IndexResult, error)
	CountByVerdict(ctx context.Context, programCode string) (map[models.Verdict]int64, error)
}

type Handler struct {
	config       *Config
	source       ReportSource
	indexer      ReportIndexer
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, source ReportSource, indexer ReportIndexer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
		indexer:      indexer,
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
	report, err := h.source.AssessmentReport(ctx, input.PreApplicationID)
	if err != nil {
		return nil, err
	}

	res, err := h.indexer.Index(ctx, report)
	if err != nil {
		return nil, err
	}

	out := &Output{
		IndexName:       res.Index,
		DocumentID:      res.DocumentID,
		IndexResult:     res.Result,
		DocumentVersion: res.Version,
	}

	if h.config.IncludeCounts {
		counts, err := h.indexer.CountByVerdict(ctx, report.ProgramCode)
		if err != nil {
			// the document is indexed; totals are informational
			h.logger.Warn("verdict totals unavailable", map[string]interface{}{
				"programCode": report.ProgramCode,
				"error":       err.Error(),
			})
			return out, nil
		}
		out.ProgramVerdictSum = make(map[string]int64, len(counts))
		for v, n := range counts {
			out.ProgramVerdictSum[string(v)] = n
		}
	}
	return out, nil
}
