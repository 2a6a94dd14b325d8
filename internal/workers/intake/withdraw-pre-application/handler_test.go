package withdrawpreapplication

import (
	"context"
	"testing"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWithdrawer struct {
	mock.Mock
}

func (m *MockWithdrawer) WithdrawPreApplication(ctx context.Context, preApplicationID string) (*models.PreApplication, error) {
	args := m.Called(ctx, preApplicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PreApplication), args.Error(1)
}

func TestHandler_Execute(t *testing.T) {
	at := time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)
	withdrawer := new(MockWithdrawer)
	withdrawer.On("WithdrawPreApplication", mock.Anything, "pa-1").Return(&models.PreApplication{
		ID:        "pa-1",
		Status:    models.PreApplicationWithdrawn,
		UpdatedAt: at,
	}, nil)

	handler := NewHandler(&Config{Timeout: time.Second}, withdrawer, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{PreApplicationID: "pa-1", Reason: "moved abroad"})

	require.NoError(t, err)
	assert.Equal(t, "withdrawn", output.PreApplicationStatus)
	assert.Equal(t, "2024-06-03T14:30:00Z", output.WithdrawnAt)
}

func TestHandler_Execute_AlreadyCompleted(t *testing.T) {
	withdrawer := new(MockWithdrawer)
	withdrawer.On("WithdrawPreApplication", mock.Anything, "pa-2").
		Return(nil, apperrors.NewInvalidTransitionError("completed", "withdrawn"))

	handler := NewHandler(&Config{Timeout: time.Second}, withdrawer, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{PreApplicationID: "pa-2"})

	assert.Nil(t, output)
	assert.True(t, apperrors.IsInvalidTransition(err))
	assert.False(t, apperrors.Normalize(err).Retryable)
}
