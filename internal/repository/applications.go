package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/models"
)

const preApplicationColumns = `id, candidate_id, program_id, form_data, status, submitted_at, updated_at`

func scanPreApplication(row scanner) (*models.PreApplication, error) {
	var p models.PreApplication
	var formData []byte
	if err := row.Scan(&p.ID, &p.CandidateID, &p.ProgramID, &formData, &p.Status, &p.SubmittedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(formData) > 0 {
		p.FormData = json.RawMessage(formData)
	}
	return &p, nil
}

func (r *Repository) GetPreApplication(ctx context.Context, id string) (*models.PreApplication, error) {
	p, err := scanPreApplication(r.db.QueryRowContext(ctx,
		`SELECT `+preApplicationColumns+` FROM pre_applications WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get pre-application", "pre-application", id, err)
	}
	return p, nil
}

// FindPreApplication returns nil, nil when the candidate never applied to the program.
func (r *Repository) FindPreApplication(ctx context.Context, candidateID, programID string) (*models.PreApplication, error) {
	p, err := scanPreApplication(r.db.QueryRowContext(ctx,
		`SELECT `+preApplicationColumns+` FROM pre_applications WHERE candidate_id = $1 AND program_id = $2`,
		candidateID, programID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find pre-application", "pre-application", candidateID+"/"+programID, err)
	}
	return p, nil
}

func (r *Repository) InsertPreApplication(ctx context.Context, p *models.PreApplication) error {
	var formData interface{}
	if len(p.FormData) > 0 {
		formData = []byte(p.FormData)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pre_applications (`+preApplicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.CandidateID, p.ProgramID, formData, p.Status, p.SubmittedAt, p.UpdatedAt,
	)
	return mapError("insert pre-application", "pre-application", p.CandidateID+"/"+p.ProgramID, err)
}

func (r *Repository) UpdatePreApplicationStatus(ctx context.Context, id string, status models.PreApplicationStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pre_applications SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, at)
	if err != nil {
		return mapError("update pre-application status", "pre-application", id, err)
	}
	return requireRow(res, "pre-application", id)
}

// UpsertAssessment overwrites the assessment of the pre-application in place.
func (r *Repository) UpsertAssessment(ctx context.Context, a *models.EligibilityAssessment) error {
	detail, err := json.Marshal(a.Detail)
	if err != nil {
		return apperrors.NewValidationError("detail", err.Error())
	}
	// on conflict the stored row keeps its id; a.ID is refreshed from it
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO eligibility_assessments (
			id, pre_application_id, revenue_ok, equity_zone_ok, tenure_ok,
			tenure_years, verdict, detail, assessed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (pre_application_id) DO UPDATE SET
			revenue_ok = EXCLUDED.revenue_ok,
			equity_zone_ok = EXCLUDED.equity_zone_ok,
			tenure_ok = EXCLUDED.tenure_ok,
			tenure_years = EXCLUDED.tenure_years,
			verdict = EXCLUDED.verdict,
			detail = EXCLUDED.detail,
			assessed_at = EXCLUDED.assessed_at
		RETURNING id`,
		a.ID, a.PreApplicationID, a.RevenueOK, a.EquityZoneOK, a.TenureOK,
		a.TenureYears, a.Verdict, detail, a.AssessedAt,
	).Scan(&a.ID)
	return mapError("upsert assessment", "eligibility assessment", a.PreApplicationID, err)
}

func (r *Repository) GetAssessment(ctx context.Context, preApplicationID string) (*models.EligibilityAssessment, error) {
	var a models.EligibilityAssessment
	var detail []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, pre_application_id, revenue_ok, equity_zone_ok, tenure_ok,
		       tenure_years, verdict, detail, assessed_at
		FROM eligibility_assessments WHERE pre_application_id = $1`, preApplicationID).Scan(
		&a.ID, &a.PreApplicationID, &a.RevenueOK, &a.EquityZoneOK, &a.TenureOK,
		&a.TenureYears, &a.Verdict, &detail, &a.AssessedAt,
	)
	if err != nil {
		return nil, mapError("get assessment", "eligibility assessment", preApplicationID, err)
	}

	parsed, err := models.ParseAssessmentDetail(detail)
	if err != nil {
		return nil, err
	}
	a.Detail = *parsed
	return &a, nil
}

// GetScoringSnapshot reads the pre-application with its candidate, company and program.
func (r *Repository) GetScoringSnapshot(ctx context.Context, preApplicationID string) (*models.ScoringSnapshot, error) {
	pa, err := r.GetPreApplication(ctx, preApplicationID)
	if err != nil {
		return nil, err
	}
	candidate, err := r.GetCandidate(ctx, pa.CandidateID)
	if err != nil {
		return nil, err
	}
	company, err := r.GetCompanyByCandidate(ctx, pa.CandidateID)
	if err != nil {
		return nil, err
	}
	program, err := r.GetProgram(ctx, pa.ProgramID)
	if err != nil {
		return nil, err
	}
	return &models.ScoringSnapshot{
		PreApplication: *pa,
		Candidate:      *candidate,
		Company:        *company,
		Program:        *program,
	}, nil
}
