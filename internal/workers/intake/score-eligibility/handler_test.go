package scoreeligibility

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"coaching-workers/internal/common/camunda"
	"coaching-workers/internal/common/config"
	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Scorer
// ==========================

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) ScoreEligibility(ctx context.Context, preApplicationID string) (*models.EligibilityAssessment, error) {
	args := m.Called(ctx, preApplicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EligibilityAssessment), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 15 * time.Second}
}

func createMockJob(variables map[string]interface{}) entities.Job {
	raw, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       7,
		Type:      TaskType,
		Retries:   3,
		Variables: string(raw),
	}}
}

func tenure(v int) *int { return &v }

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	scorer := new(MockScorer)
	zone := "Franc-Moisin Bel-Air"
	zero := 0.0
	scorer.On("ScoreEligibility", mock.Anything, "pa-1").Return(&models.EligibilityAssessment{
		ID:               "as-1",
		PreApplicationID: "pa-1",
		RevenueOK:        true,
		EquityZoneOK:     true,
		TenureOK:         true,
		TenureYears:      tenure(4),
		Verdict:          models.VerdictOK,
		Detail: models.AssessmentDetail{
			Addresses: []models.AddressAnalysis{
				{Kind: models.AddressPersonal, Address: "1 rue A", Outcome: models.Resolved{DistanceMeters: &zero, ZoneName: &zone}},
			},
			FinalStatus: models.QPVInside,
		},
	}, nil)

	handler := NewHandler(createTestConfig(), scorer, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{PreApplicationID: "pa-1"})

	require.NoError(t, err)
	assert.Equal(t, "as-1", output.AssessmentID)
	assert.Equal(t, models.VerdictOK, output.Verdict)
	assert.Equal(t, 4, *output.TenureYears)
	assert.True(t, output.EligibilityDone)

	raw, err := json.Marshal(output)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"statut_qpv_final":"QPV"`)
	scorer.AssertExpectations(t)
}

func TestHandler_Execute_PropagatesTypedErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", apperrors.NewNotFoundError("pre-application", "pa-x"), apperrors.IsNotFound},
		{"withdrawn", apperrors.NewInvalidTransitionError("withdrawn", "under_review"), apperrors.IsInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := new(MockScorer)
			scorer.On("ScoreEligibility", mock.Anything, "pa-x").Return(nil, tt.err)

			handler := NewHandler(createTestConfig(), scorer, logger.NewTestLogger(t))
			output, err := handler.Execute(context.Background(), &Input{PreApplicationID: "pa-x"})

			assert.Nil(t, output)
			assert.True(t, tt.check(err))
		})
	}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	var input Input
	err := camunda.ParseVariables(createMockJob(map[string]interface{}{
		"preApplicationId": "pa-1",
		"processOwner":     "ops",
	}), inputSchema, &input)
	require.NoError(t, err)
	assert.Equal(t, "pa-1", input.PreApplicationID)

	err = camunda.ParseVariables(createMockJob(map[string]interface{}{}), inputSchema, &input)
	assert.True(t, apperrors.IsValidation(err))

	err = camunda.ParseVariables(createMockJob(map[string]interface{}{"preApplicationId": ""}), inputSchema, &input)
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoadConfig_MinimumTimeout(t *testing.T) {
	assert.Equal(t, 15*time.Second, LoadConfig(config.WorkerConfig{Timeout: 2000}).Timeout)
	assert.Equal(t, 45*time.Second, LoadConfig(config.WorkerConfig{Timeout: 45000}).Timeout)
}
