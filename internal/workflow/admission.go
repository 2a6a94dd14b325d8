package workflow

import (
	"context"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type AdmitCommand struct {
	PreApplicationID string
	CohortID         *string
	AdvisorIDs       []string
}

type AdmitResult struct {
	Admission models.Admission
	Stages    []models.StageProgress
}

// Admit creates the admission of a pre-application, instantiates its pipeline and
// completes the pre-application.
func (c *Coordinator) Admit(ctx context.Context, cmd AdmitCommand) (res *AdmitResult, err error) {
	ctx, span := c.startSpan(ctx, "Admit", attribute.String("preApplication.id", cmd.PreApplicationID))
	defer func() { endSpan(span, err) }()

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		pa, err := tx.GetPreApplication(ctx, cmd.PreApplicationID)
		if err != nil {
			return err
		}

		existing, err := tx.FindAdmissionByPreApplication(ctx, pa.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflictError("admission", pa.ID)
		}
		if !pa.Status.CanMoveTo(models.PreApplicationCompleted) {
			return apperrors.NewInvalidTransitionError(string(pa.Status), string(models.PreApplicationCompleted))
		}

		now := c.now()
		admission := models.Admission{
			ID:               uuid.New().String(),
			PreApplicationID: pa.ID,
			CandidateID:      pa.CandidateID,
			ProgramID:        pa.ProgramID,
			CohortID:         cmd.CohortID,
			AdvisorIDs:       cmd.AdvisorIDs,
			Status:           models.AdmissionActive,
			AdmittedAt:       now,
		}
		if err := tx.InsertAdmission(ctx, &admission); err != nil {
			return err
		}

		stages, err := c.tracker.Instantiate(ctx, tx, &admission)
		if err != nil {
			return err
		}

		if err := tx.UpdatePreApplicationStatus(ctx, pa.ID, models.PreApplicationCompleted, now); err != nil {
			return err
		}

		res = &AdmitResult{Admission: admission, Stages: stages}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("candidate admitted", map[string]interface{}{
		"admissionId":      res.Admission.ID,
		"preApplicationId": cmd.PreApplicationID,
		"stages":           len(res.Stages),
	})
	return res, nil
}

type StageAdvanceResult struct {
	Progress models.StageProgress
	// Stages is the admission's full pipeline after the move, in sequence order.
	Stages []models.StageProgress
}

// AdvanceStage moves one stage of an admission to state. A progress row that belongs to
// another admission is reported as not found.
func (c *Coordinator) AdvanceStage(ctx context.Context, admissionID, progressID string, state models.StageState) (res *StageAdvanceResult, err error) {
	ctx, span := c.startSpan(ctx, "AdvanceStage",
		attribute.String("admission.id", admissionID),
		attribute.String("stageProgress.id", progressID),
		attribute.String("stage.state", string(state)),
	)
	defer func() { endSpan(span, err) }()

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		current, err := tx.GetStageProgress(ctx, progressID)
		if err != nil {
			return err
		}
		if current.AdmissionID != admissionID {
			return apperrors.NewNotFoundError("stage progress", progressID)
		}

		p, err := c.tracker.Advance(ctx, tx, progressID, state)
		if err != nil {
			return err
		}
		all, err := c.tracker.List(ctx, tx, admissionID)
		if err != nil {
			return err
		}
		res = &StageAdvanceResult{Progress: *p, Stages: all}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListStages returns the stage progress of an admission in sequence order.
func (c *Coordinator) ListStages(ctx context.Context, admissionID string) (out []models.StageProgress, err error) {
	ctx, span := c.startSpan(ctx, "ListStages", attribute.String("admission.id", admissionID))
	defer func() { endSpan(span, err) }()

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		var err error
		out, err = c.tracker.List(ctx, tx, admissionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
