package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coaching-workers/internal/models"
)

const candidateColumns = `id, first_name, last_name, email, phone, address, birth_date, gender, status, created_at, updated_at`

func scanCandidate(row scanner) (*models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.BirthDate, &c.Gender, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get candidate", "candidate", id, err)
	}
	return c, nil
}

// FindCandidateByEmail returns nil, nil when no candidate uses the address.
func (r *Repository) FindCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find candidate", "candidate", email, err)
	}
	return c, nil
}

func (r *Repository) InsertCandidate(ctx context.Context, c *models.Candidate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		c.BirthDate, c.Gender, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	return mapError("insert candidate", "candidate", c.Email, err)
}

func (r *Repository) UpdateCandidateStatus(ctx context.Context, candidateID string, status models.Decision, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE candidates SET status = $2, updated_at = $3 WHERE id = $1`,
		candidateID, status, at)
	if err != nil {
		return mapError("update candidate status", "candidate", candidateID, err)
	}
	return requireRow(res, "candidate", candidateID)
}

const companyColumns = `id, candidate_id, siren, legal_name, address, activity_code, founded_on,
	revenue_interval, zone_status, latitude, longitude, updated_at`

func scanCompany(row scanner) (*models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.CandidateID, &c.SIREN, &c.LegalName, &c.Address, &c.ActivityCode,
		&c.FoundedOn, &c.RevenueInterval, &c.ZoneStatus, &c.Latitude, &c.Longitude, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetCompanyByCandidate(ctx context.Context, candidateID string) (*models.Company, error) {
	c, err := scanCompany(r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE candidate_id = $1`, candidateID))
	if err != nil {
		return nil, mapError("get company", "company", candidateID, err)
	}
	return c, nil
}

func (r *Repository) InsertCompany(ctx context.Context, c *models.Company) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO companies (`+companyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.CandidateID, c.SIREN, c.LegalName, c.Address, c.ActivityCode, c.FoundedOn,
		c.RevenueInterval, c.ZoneStatus, c.Latitude, c.Longitude, c.UpdatedAt,
	)
	return mapError("insert company", "company", c.CandidateID, err)
}

func (r *Repository) UpdateCompany(ctx context.Context, c *models.Company) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE companies SET siren = $2, legal_name = $3, address = $4, activity_code = $5,
			founded_on = $6, revenue_interval = $7, zone_status = $8, latitude = $9,
			longitude = $10, updated_at = $11
		WHERE id = $1`,
		c.ID, c.SIREN, c.LegalName, c.Address, c.ActivityCode, c.FoundedOn,
		c.RevenueInterval, c.ZoneStatus, c.Latitude, c.Longitude, c.UpdatedAt,
	)
	if err != nil {
		return mapError("update company", "company", c.ID, err)
	}
	return requireRow(res, "company", c.ID)
}

func (r *Repository) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	var p models.Program
	err := r.db.QueryRowContext(ctx, `
		SELECT id, code, name, revenue_min, revenue_max, min_tenure_years
		FROM programs WHERE id = $1`, id).Scan(
		&p.ID, &p.Code, &p.Name,
		&p.Thresholds.RevenueMin, &p.Thresholds.RevenueMax, &p.Thresholds.MinTenureYears,
	)
	if err != nil {
		return nil, mapError("get program", "program", id, err)
	}
	return &p, nil
}

func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("rows affected", entity, id, err)
	}
	if n == 0 {
		return mapError("rows affected", entity, id, sql.ErrNoRows)
	}
	return nil
}
