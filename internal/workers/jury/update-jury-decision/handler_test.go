package updatejurydecision

import (
	"context"
	"testing"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/jury"
	"coaching-workers/internal/models"
	"coaching-workers/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUpdater struct {
	mock.Mock
}

func (m *MockUpdater) UpdateDecision(ctx context.Context, cmd jury.UpdateCommand) (*workflow.DecisionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.DecisionResult), args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}

func TestHandler_Execute_TagChanged(t *testing.T) {
	advisor := "adv-7"
	updater := new(MockUpdater)
	updater.On("UpdateDecision", mock.Anything, mock.MatchedBy(func(cmd jury.UpdateCommand) bool {
		return cmd.DecisionID == "dec-1" && cmd.Decision == models.DecisionAccepted && *cmd.AdvisorID == advisor
	})).Return(&workflow.DecisionResult{
		Decision: models.JuryDecision{
			ID:        "dec-1",
			Decision:  models.DecisionAccepted,
			AdvisorID: &advisor,
			DecidedAt: time.Date(2024, 6, 21, 10, 0, 0, 0, time.UTC),
		},
		CandidateStatus: models.DecisionAccepted,
	}, nil)

	handler := NewHandler(createTestConfig(), updater, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{DecisionID: "dec-1", Decision: "accepted", AdvisorID: &advisor})

	require.NoError(t, err)
	assert.True(t, output.StatusChanged)
	assert.Equal(t, "accepted", output.CandidateStatus)
	assert.Nil(t, output.RedirectionID)
	updater.AssertExpectations(t)
}

func TestHandler_Execute_SameTag(t *testing.T) {
	updater := new(MockUpdater)
	updater.On("UpdateDecision", mock.Anything, mock.Anything).Return(&workflow.DecisionResult{
		Decision: models.JuryDecision{ID: "dec-1", Decision: models.DecisionRejected, Comment: "typo fixed"},
	}, nil)

	handler := NewHandler(createTestConfig(), updater, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{DecisionID: "dec-1", Decision: "rejected", Comment: "typo fixed"})

	require.NoError(t, err)
	assert.False(t, output.StatusChanged)
	assert.Empty(t, output.CandidateStatus)
}

func TestHandler_Execute_Errors(t *testing.T) {
	updater := new(MockUpdater)
	handler := NewHandler(createTestConfig(), updater, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{DecisionID: "dec-1", Decision: "unknown"})
	assert.True(t, apperrors.IsValidation(err))
	updater.AssertNotCalled(t, "UpdateDecision", mock.Anything, mock.Anything)

	updater.On("UpdateDecision", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("jury decision", "dec-9"))
	_, err = handler.Execute(context.Background(), &Input{DecisionID: "dec-9", Decision: "pending"})
	assert.True(t, apperrors.IsNotFound(err))
}
