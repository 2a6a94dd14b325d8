package pipeline

import (
	"context"
	"testing"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

type memStore struct {
	stages   []models.PipelineStage
	progress map[string]*models.StageProgress
}

func newMemStore(stages ...models.PipelineStage) *memStore {
	return &memStore{stages: stages, progress: map[string]*models.StageProgress{}}
}

func (m *memStore) ListActiveStages(_ context.Context, programID string) ([]models.PipelineStage, error) {
	var out []models.PipelineStage
	for _, s := range m.stages {
		if s.ProgramID == programID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) InsertStageProgress(_ context.Context, p *models.StageProgress) error {
	cp := *p
	m.progress[p.ID] = &cp
	return nil
}

func (m *memStore) GetStageProgress(_ context.Context, id string) (*models.StageProgress, error) {
	p, ok := m.progress[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("stage progress", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) UpdateStageProgress(_ context.Context, p *models.StageProgress) error {
	cp := *p
	m.progress[p.ID] = &cp
	return nil
}

func (m *memStore) ListStageProgress(_ context.Context, admissionID string) ([]models.StageProgress, error) {
	var out []models.StageProgress
	for _, p := range m.progress {
		if p.AdmissionID == admissionID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func programStages() []models.PipelineStage {
	return []models.PipelineStage{
		{ID: "s3", ProgramID: "p1", Code: "pitch", Label: "Pitch", Sequence: 3, Active: true},
		{ID: "s1", ProgramID: "p1", Code: "diag", Label: "Diagnostic", Sequence: 1, Active: true},
		{ID: "s2", ProgramID: "p1", Code: "legacy", Label: "Legacy", Sequence: 2, Active: false},
		{ID: "s4", ProgramID: "p1", Code: "bp", Label: "Business plan", Sequence: 2, Active: true},
		{ID: "x1", ProgramID: "other", Code: "x", Label: "X", Sequence: 1, Active: true},
	}
}

func setup(t *testing.T) (*Tracker, *memStore, *fakeClock, []models.StageProgress) {
	clock := &fakeClock{t: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)}
	store := newMemStore(programStages()...)
	tracker := NewTracker(logger.NewTestLogger(t), WithClock(clock.now))

	rows, err := tracker.Instantiate(context.Background(), store, &models.Admission{ID: "a1", ProgramID: "p1"})
	require.NoError(t, err)
	return tracker, store, clock, rows
}

// ==========================
// Instantiate
// ==========================

func TestInstantiate_ActiveStagesInSequence(t *testing.T) {
	_, store, _, rows := setup(t)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"diag", "bp", "pitch"}, []string{rows[0].StageCode, rows[1].StageCode, rows[2].StageCode})
	for _, r := range rows {
		assert.Equal(t, models.StageTodo, r.State)
		assert.Nil(t, r.StartedAt)
		assert.Nil(t, r.FinishedAt)
		assert.Equal(t, "a1", r.AdmissionID)
	}
	assert.Len(t, store.progress, 3)
}

// ==========================
// Advance
// ==========================

func TestAdvance_DoneBackfillsStart(t *testing.T) {
	tracker, store, clock, rows := setup(t)
	clock.advance(time.Hour)

	p, err := tracker.Advance(context.Background(), store, rows[0].ID, models.StageDone)

	require.NoError(t, err)
	require.NotNil(t, p.StartedAt)
	require.NotNil(t, p.FinishedAt)
	assert.Equal(t, *p.StartedAt, *p.FinishedAt)
	assert.Equal(t, clock.t, *p.FinishedAt)
}

func TestAdvance_KeepsExistingStart(t *testing.T) {
	tracker, store, clock, rows := setup(t)
	ctx := context.Background()

	started, err := tracker.Advance(ctx, store, rows[1].ID, models.StageInProgress)
	require.NoError(t, err)
	startedAt := *started.StartedAt

	clock.advance(48 * time.Hour)
	done, err := tracker.Advance(ctx, store, rows[1].ID, models.StageDone)

	require.NoError(t, err)
	assert.Equal(t, startedAt, *done.StartedAt)
	assert.True(t, done.FinishedAt.After(*done.StartedAt))
}

func TestAdvance_BackwardMoveKeepsTimestamps(t *testing.T) {
	tracker, store, clock, rows := setup(t)
	ctx := context.Background()

	_, err := tracker.Advance(ctx, store, rows[0].ID, models.StageInProgress)
	require.NoError(t, err)
	clock.advance(time.Hour)

	back, err := tracker.Advance(ctx, store, rows[0].ID, models.StageTodo)
	require.NoError(t, err)
	assert.Equal(t, models.StageTodo, back.State)
	require.NotNil(t, back.StartedAt)

	clock.advance(time.Hour)
	again, err := tracker.Advance(ctx, store, rows[0].ID, models.StageInProgress)
	require.NoError(t, err)
	assert.Equal(t, *back.StartedAt, *again.StartedAt)
}

func TestAdvance_SkippedFromTodoOrInProgress(t *testing.T) {
	tracker, store, _, rows := setup(t)
	ctx := context.Background()

	skipped, err := tracker.Advance(ctx, store, rows[0].ID, models.StageSkipped)
	require.NoError(t, err)
	assert.Nil(t, skipped.StartedAt)

	_, err = tracker.Advance(ctx, store, rows[1].ID, models.StageInProgress)
	require.NoError(t, err)
	skipped, err = tracker.Advance(ctx, store, rows[1].ID, models.StageSkipped)
	require.NoError(t, err)
	assert.NotNil(t, skipped.StartedAt)
	assert.Nil(t, skipped.FinishedAt)
}

func TestAdvance_TerminalStates(t *testing.T) {
	tracker, store, _, rows := setup(t)
	ctx := context.Background()

	done, err := tracker.Advance(ctx, store, rows[0].ID, models.StageDone)
	require.NoError(t, err)

	same, err := tracker.Advance(ctx, store, rows[0].ID, models.StageDone)
	require.NoError(t, err)
	assert.Equal(t, *done.FinishedAt, *same.FinishedAt)

	_, err = tracker.Advance(ctx, store, rows[0].ID, models.StageInProgress)
	assert.True(t, apperrors.IsInvalidTransition(err))

	_, err = tracker.Advance(ctx, store, rows[1].ID, models.StageSkipped)
	require.NoError(t, err)
	_, err = tracker.Advance(ctx, store, rows[1].ID, models.StageDone)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestAdvance_Errors(t *testing.T) {
	tracker, store, _, rows := setup(t)
	ctx := context.Background()

	_, err := tracker.Advance(ctx, store, "missing", models.StageDone)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = tracker.Advance(ctx, store, rows[0].ID, models.StageState("paused"))
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestAdvance_AnyStageOrder(t *testing.T) {
	tracker, store, _, rows := setup(t)

	_, err := tracker.Advance(context.Background(), store, rows[2].ID, models.StageDone)
	require.NoError(t, err)

	list, err := tracker.List(context.Background(), store, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StageTodo, list[0].State)
	assert.Equal(t, models.StageDone, list[2].State)
}
