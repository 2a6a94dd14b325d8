package main

const configTemplate = `package {{ .PackageName }}

import (
	"time"

	"{{ .Module }}/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wc config.WorkerConfig) *Config {
	return &Config{Timeout: config.GetDuration(wc.Timeout)}
}
`

const modelsTemplate = `package {{ .PackageName }}

import "{{ .Module }}/internal/common/validation"

type Input struct {
	ID string ` + "`" + `json:"id"` + "`" + `
}

type Output struct {
	ID string ` + "`" + `json:"id"` + "`" + `
}

var inputSchema = validation.MustCompile(TaskType, ` + "`" + `{
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": {"type": "string", "minLength": 1}
  }
}` + "`" + `)
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"

	"{{ .Module }}/internal/common/camunda"
	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

type {{ .Service }} interface {
	{{ .Method }}(ctx context.Context, id string) error
}

type Handler struct {
	config       *Config
	service      {{ .Service }}
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, service {{ .Service }}, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      service,
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
	if err := h.service.{{ .Method }}(ctx, input.ID); err != nil {
		return nil, err
	}
	return &Output{ID: input.ID}, nil
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type Mock{{ .Service }} struct {
	mock.Mock
}

func (m *Mock{{ .Service }}) {{ .Method }}(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestHandler_Execute(t *testing.T) {
	svc := new(Mock{{ .Service }})
	svc.On("{{ .Method }}", mock.Anything, "id-1").Return(nil)

	handler := NewHandler(&Config{Timeout: 5 * time.Second}, svc, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{ID: "id-1"})

	require.NoError(t, err)
	assert.Equal(t, "id-1", output.ID)
	svc.AssertExpectations(t)
}

func TestHandler_Execute_NotFound(t *testing.T) {
	svc := new(Mock{{ .Service }})
	svc.On("{{ .Method }}", mock.Anything, "id-2").Return(apperrors.NewNotFoundError("resource", "id-2"))

	handler := NewHandler(&Config{Timeout: 5 * time.Second}, svc, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), &Input{ID: "id-2"})

	assert.True(t, apperrors.IsNotFound(err))
}
`
