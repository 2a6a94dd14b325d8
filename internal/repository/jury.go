package repository

import (
	"context"
	"database/sql"
	"errors"

	"coaching-workers/internal/models"
)

func (r *Repository) GetJurySession(ctx context.Context, id string) (*models.JurySession, error) {
	var s models.JurySession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, program_id, cohort_id, scheduled_at FROM jury_sessions WHERE id = $1`, id).Scan(
		&s.ID, &s.ProgramID, &s.CohortID, &s.ScheduledAt,
	)
	if err != nil {
		return nil, mapError("get jury session", "jury session", id, err)
	}
	return &s, nil
}

const juryDecisionColumns = `id, candidate_id, session_id, decision, advisor_id, cohort_id, partner_id,
	comment, notify_candidate, notify_advisor, notify_partner, decided_at`

func scanJuryDecision(row scanner) (*models.JuryDecision, error) {
	var d models.JuryDecision
	err := row.Scan(&d.ID, &d.CandidateID, &d.SessionID, &d.Decision, &d.AdvisorID, &d.CohortID, &d.PartnerID,
		&d.Comment, &d.NotifyCandidate, &d.NotifyAdvisor, &d.NotifyPartner, &d.DecidedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) GetJuryDecision(ctx context.Context, id string) (*models.JuryDecision, error) {
	d, err := scanJuryDecision(r.db.QueryRowContext(ctx,
		`SELECT `+juryDecisionColumns+` FROM jury_decisions WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError("get jury decision", "jury decision", id, err)
	}
	return d, nil
}

// FindJuryDecision returns nil, nil when the pair has no decision.
func (r *Repository) FindJuryDecision(ctx context.Context, candidateID, sessionID string) (*models.JuryDecision, error) {
	d, err := scanJuryDecision(r.db.QueryRowContext(ctx,
		`SELECT `+juryDecisionColumns+` FROM jury_decisions WHERE candidate_id = $1 AND session_id = $2`,
		candidateID, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError("find jury decision", "jury decision", candidateID+"/"+sessionID, err)
	}
	return d, nil
}

func (r *Repository) InsertJuryDecision(ctx context.Context, d *models.JuryDecision) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jury_decisions (`+juryDecisionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.ID, d.CandidateID, d.SessionID, d.Decision, d.AdvisorID, d.CohortID, d.PartnerID,
		d.Comment, d.NotifyCandidate, d.NotifyAdvisor, d.NotifyPartner, d.DecidedAt,
	)
	return mapError("insert jury decision", "jury decision", d.CandidateID+"/"+d.SessionID, err)
}

func (r *Repository) UpdateJuryDecision(ctx context.Context, d *models.JuryDecision) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jury_decisions SET decision = $2, advisor_id = $3, cohort_id = $4, partner_id = $5,
			comment = $6, notify_candidate = $7, notify_advisor = $8, notify_partner = $9, decided_at = $10
		WHERE id = $1`,
		d.ID, d.Decision, d.AdvisorID, d.CohortID, d.PartnerID,
		d.Comment, d.NotifyCandidate, d.NotifyAdvisor, d.NotifyPartner, d.DecidedAt,
	)
	if err != nil {
		return mapError("update jury decision", "jury decision", d.ID, err)
	}
	return requireRow(res, "jury decision", d.ID)
}

func (r *Repository) DeleteJuryDecision(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jury_decisions WHERE id = $1`, id)
	if err != nil {
		return mapError("delete jury decision", "jury decision", id, err)
	}
	return requireRow(res, "jury decision", id)
}

func (r *Repository) CountRedirections(ctx context.Context, decisionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM redirections WHERE decision_id = $1`, decisionID).Scan(&n)
	if err != nil {
		return 0, mapError("count redirections", "redirection", decisionID, err)
	}
	return n, nil
}

func (r *Repository) InsertRedirection(ctx context.Context, rd *models.Redirection) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO redirections (id, decision_id, candidate_id, partner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rd.ID, rd.DecisionID, rd.CandidateID, rd.PartnerID, rd.CreatedAt,
	)
	return mapError("insert redirection", "redirection", rd.DecisionID, err)
}

// DeleteRedirections removes every redirection of a decision and returns how many went.
func (r *Repository) DeleteRedirections(ctx context.Context, decisionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM redirections WHERE decision_id = $1`, decisionID)
	if err != nil {
		return 0, mapError("delete redirections", "redirection", decisionID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError("delete redirections", "redirection", decisionID, err)
	}
	return n, nil
}
