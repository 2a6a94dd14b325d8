// Package pipeline instantiates and advances the per-admission stage progress records.
package pipeline

import (
	"context"
	"sort"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/metrics"
	"coaching-workers/internal/models"

	"github.com/google/uuid"
)

// Store is the persistence the tracker needs. Implementations run inside the caller's
// transaction.
type Store interface {
	ListActiveStages(ctx context.Context, programID string) ([]models.PipelineStage, error)
	InsertStageProgress(ctx context.Context, p *models.StageProgress) error
	GetStageProgress(ctx context.Context, id string) (*models.StageProgress, error)
	UpdateStageProgress(ctx context.Context, p *models.StageProgress) error
	ListStageProgress(ctx context.Context, admissionID string) ([]models.StageProgress, error)
}

type Tracker struct {
	now    func() time.Time
	logger logger.Logger
}

type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(log logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		now:    func() time.Time { return time.Now().UTC() },
		logger: log.WithFields(map[string]interface{}{"component": "pipeline-tracker"}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Instantiate creates one todo progress row per active stage of the admission's program,
// in stage sequence order.
func (t *Tracker) Instantiate(ctx context.Context, store Store, admission *models.Admission) ([]models.StageProgress, error) {
	stages, err := store.ListActiveStages(ctx, admission.ProgramID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Sequence < stages[j].Sequence })

	out := make([]models.StageProgress, 0, len(stages))
	for _, stage := range stages {
		if !stage.Active {
			continue
		}
		p := models.StageProgress{
			ID:          uuid.New().String(),
			AdmissionID: admission.ID,
			StageID:     stage.ID,
			StageCode:   stage.Code,
			StageLabel:  stage.Label,
			Sequence:    stage.Sequence,
			State:       models.StageTodo,
		}
		if err := store.InsertStageProgress(ctx, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	t.logger.Info("pipeline instantiated", map[string]interface{}{
		"admissionId": admission.ID,
		"stages":      len(out),
	})
	return out, nil
}

// Advance moves a progress row to state. Unknown tags and moves out of a terminal state
// are invalid transitions. Timestamps already recorded are never changed.
func (t *Tracker) Advance(ctx context.Context, store Store, progressID string, state models.StageState) (*models.StageProgress, error) {
	if !state.Valid() {
		return nil, apperrors.NewInvalidTransitionError("", string(state))
	}

	p, err := store.GetStageProgress(ctx, progressID)
	if err != nil {
		return nil, err
	}

	if p.State == state {
		return p, nil
	}
	if p.State.Terminal() {
		return nil, apperrors.NewInvalidTransitionError(string(p.State), string(state))
	}

	now := t.now()
	switch state {
	case models.StageInProgress:
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
	case models.StageDone:
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
		if p.FinishedAt == nil {
			p.FinishedAt = &now
		}
	case models.StageTodo, models.StageSkipped:
	}

	from := p.State
	p.State = state
	if err := store.UpdateStageProgress(ctx, p); err != nil {
		return nil, err
	}

	metrics.StageTransitions.WithLabelValues(string(state)).Inc()
	t.logger.Info("stage advanced", map[string]interface{}{
		"progressId": p.ID,
		"from":       string(from),
		"to":         string(state),
	})
	return p, nil
}

// List returns the admission's progress rows in stage sequence order.
func (t *Tracker) List(ctx context.Context, store Store, admissionID string) ([]models.StageProgress, error) {
	rows, err := store.ListStageProgress(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Sequence < rows[j].Sequence })
	return rows, nil
}
