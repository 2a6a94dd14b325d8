package repository

import (
	"context"
	"database/sql"
	"errors"

	"coaching-workers/internal/models"

	"github.com/lib/pq"
)

// FindAdmissionByPreApplication returns nil, nil when the pre-application was not admitted.
func (r *Repository) FindAdmissionByPreApplication(ctx context.Context, preApplicationID string) (*models.Admission, error) {
	var a models.Admission
	err := r.db.QueryRowContext(ctx, `
		SELECT id, pre_application_id, candidate_id, program_id, cohort_id, advisor_ids, status, admitted_at
		FROM admissions WHERE pre_application_id = $1`, preApplicationID).Scan(
		&a.ID, &a.PreApplicationID, &a.CandidateID, &a.ProgramID, &a.CohortID,
		pq.Array(&a.AdvisorIDs), &a.Status, &a.AdmittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find admission", "admission", preApplicationID, err)
	}
	return &a, nil
}

func (r *Repository) InsertAdmission(ctx context.Context, a *models.Admission) error {
	advisors := a.AdvisorIDs
	if advisors == nil {
		advisors = []string{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admissions (id, pre_application_id, candidate_id, program_id, cohort_id, advisor_ids, status, admitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.PreApplicationID, a.CandidateID, a.ProgramID, a.CohortID,
		pq.Array(advisors), a.Status, a.AdmittedAt,
	)
	return mapError("insert admission", "admission", a.PreApplicationID, err)
}

func (r *Repository) ListActiveStages(ctx context.Context, programID string) ([]models.PipelineStage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, program_id, code, label, sequence, active
		FROM pipeline_stages
		WHERE program_id = $1 AND active
		ORDER BY sequence, code`, programID)
	if err != nil {
		return nil, mapError("list stages", "pipeline stage", programID, err)
	}
	defer rows.Close()

	var stages []models.PipelineStage
	for rows.Next() {
		var s models.PipelineStage
		if err := rows.Scan(&s.ID, &s.ProgramID, &s.Code, &s.Label, &s.Sequence, &s.Active); err != nil {
			return nil, mapError("scan stage", "pipeline stage", programID, err)
		}
		stages = append(stages, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list stages", "pipeline stage", programID, err)
	}
	return stages, nil
}

func (r *Repository) InsertStageProgress(ctx context.Context, p *models.StageProgress) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stage_progress (id, admission_id, stage_id, state, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.AdmissionID, p.StageID, p.State, p.StartedAt, p.FinishedAt,
	)
	return mapError("insert stage progress", "stage progress", p.AdmissionID+"/"+p.StageID, err)
}

const stageProgressQuery = `
	SELECT sp.id, sp.admission_id, sp.stage_id, ps.code, ps.label, ps.sequence,
	       sp.state, sp.started_at, sp.finished_at
	FROM stage_progress sp
	JOIN pipeline_stages ps ON ps.id = sp.stage_id`

func scanStageProgress(row scanner) (*models.StageProgress, error) {
	var p models.StageProgress
	err := row.Scan(&p.ID, &p.AdmissionID, &p.StageID, &p.StageCode, &p.StageLabel, &p.Sequence,
		&p.State, &p.StartedAt, &p.FinishedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) GetStageProgress(ctx context.Context, id string) (*models.StageProgress, error) {
	p, err := scanStageProgress(r.db.QueryRowContext(ctx, stageProgressQuery+` WHERE sp.id = $1 FOR UPDATE OF sp`, id))
	if err != nil {
		return nil, mapError("get stage progress", "stage progress", id, err)
	}
	return p, nil
}

func (r *Repository) UpdateStageProgress(ctx context.Context, p *models.StageProgress) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stage_progress SET state = $2, started_at = $3, finished_at = $4
		WHERE id = $1`,
		p.ID, p.State, p.StartedAt, p.FinishedAt,
	)
	if err != nil {
		return mapError("update stage progress", "stage progress", p.ID, err)
	}
	return requireRow(res, "stage progress", p.ID)
}

func (r *Repository) ListStageProgress(ctx context.Context, admissionID string) ([]models.StageProgress, error) {
	rows, err := r.db.QueryContext(ctx, stageProgressQuery+` WHERE sp.admission_id = $1 ORDER BY ps.sequence, ps.code`, admissionID)
	if err != nil {
		return nil, mapError("list stage progress", "stage progress", admissionID, err)
	}
	defer rows.Close()

	var out []models.StageProgress
	for rows.Next() {
		p, err := scanStageProgress(rows)
		if err != nil {
			return nil, mapError("scan stage progress", "stage progress", admissionID, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list stage progress", "stage progress", admissionID, err)
	}
	return out, nil
}
