package workflow

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/metrics"
	"coaching-workers/internal/eligibility"
	"coaching-workers/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// SubmitCommand is a pre-application submission. An existing candidate is referenced by
// CandidateID; otherwise Candidate (and optionally Company) describe a new one, reused
// when a candidate with the same email already exists.
type SubmitCommand struct {
	CandidateID string
	Candidate   *models.Candidate
	Company     *models.Company
	ProgramID   string
	FormData    json.RawMessage
}

type SubmitResult struct {
	Candidate        models.Candidate
	PreApplication   models.PreApplication
	CandidateCreated bool
}

// SubmitPreApplication registers a candidate's application to a program.
func (c *Coordinator) SubmitPreApplication(ctx context.Context, cmd SubmitCommand) (res *SubmitResult, err error) {
	ctx, span := c.startSpan(ctx, "SubmitPreApplication", attribute.String("program.id", cmd.ProgramID))
	defer func() { endSpan(span, err) }()

	if cmd.ProgramID == "" {
		return nil, apperrors.NewValidationError("programId", "required")
	}
	if cmd.CandidateID == "" && (cmd.Candidate == nil || strings.TrimSpace(cmd.Candidate.Email) == "") {
		return nil, apperrors.NewValidationError("candidate", "either candidateId or a candidate with an email is required")
	}

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		if _, err := tx.GetProgram(ctx, cmd.ProgramID); err != nil {
			return err
		}

		candidate, created, err := c.resolveCandidate(ctx, tx, cmd)
		if err != nil {
			return err
		}

		existing, err := tx.FindPreApplication(ctx, candidate.ID, cmd.ProgramID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflictError("pre-application", candidate.ID+"/"+cmd.ProgramID)
		}

		now := c.now()
		pa := models.PreApplication{
			ID:          uuid.New().String(),
			CandidateID: candidate.ID,
			ProgramID:   cmd.ProgramID,
			FormData:    cmd.FormData,
			Status:      models.PreApplicationSubmitted,
			SubmittedAt: now,
			UpdatedAt:   now,
		}
		if err := tx.InsertPreApplication(ctx, &pa); err != nil {
			return err
		}

		res = &SubmitResult{Candidate: *candidate, PreApplication: pa, CandidateCreated: created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("pre-application submitted", map[string]interface{}{
		"preApplicationId": res.PreApplication.ID,
		"candidateId":      res.Candidate.ID,
		"programId":        cmd.ProgramID,
		"candidateCreated": res.CandidateCreated,
	})
	return res, nil
}

func (c *Coordinator) resolveCandidate(ctx context.Context, tx Tx, cmd SubmitCommand) (*models.Candidate, bool, error) {
	if cmd.CandidateID != "" {
		candidate, err := tx.GetCandidate(ctx, cmd.CandidateID)
		if err != nil {
			return nil, false, err
		}
		return candidate, false, c.refreshCompany(ctx, tx, candidate.ID, cmd.Company)
	}

	candidate, err := tx.FindCandidateByEmail(ctx, cmd.Candidate.Email)
	if err != nil {
		return nil, false, err
	}
	if candidate != nil {
		return candidate, false, c.refreshCompany(ctx, tx, candidate.ID, cmd.Company)
	}

	now := c.now()
	candidate = &models.Candidate{
		ID:        uuid.New().String(),
		FirstName: cmd.Candidate.FirstName,
		LastName:  cmd.Candidate.LastName,
		Email:     strings.TrimSpace(cmd.Candidate.Email),
		Phone:     cmd.Candidate.Phone,
		Address:   cmd.Candidate.Address,
		BirthDate: cmd.Candidate.BirthDate,
		Gender:    cmd.Candidate.Gender,
		Status:    models.DecisionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.InsertCandidate(ctx, candidate); err != nil {
		return nil, false, err
	}

	company := models.Company{}
	if cmd.Company != nil {
		company = *cmd.Company
	}
	company.ID = uuid.New().String()
	company.CandidateID = candidate.ID
	company.ZoneStatus = models.ZoneNone
	company.UpdatedAt = now
	if err := tx.InsertCompany(ctx, &company); err != nil {
		return nil, false, err
	}
	return candidate, true, nil
}

// refreshCompany copies the non-empty submitted company fields onto the stored company.
func (c *Coordinator) refreshCompany(ctx context.Context, tx Tx, candidateID string, submitted *models.Company) error {
	if submitted == nil {
		return nil
	}
	company, err := tx.GetCompanyByCandidate(ctx, candidateID)
	if err != nil {
		return err
	}
	if submitted.SIREN != "" {
		company.SIREN = submitted.SIREN
	}
	if submitted.LegalName != "" {
		company.LegalName = submitted.LegalName
	}
	if submitted.Address != "" {
		company.Address = submitted.Address
	}
	if submitted.RevenueInterval != "" {
		company.RevenueInterval = submitted.RevenueInterval
	}
	if submitted.FoundedOn != nil {
		company.FoundedOn = submitted.FoundedOn
	}
	company.UpdatedAt = c.now()
	return tx.UpdateCompany(ctx, company)
}

// ScoreEligibility evaluates a pre-application and stores the assessment. Every lookup
// completes before the write transaction starts.
func (c *Coordinator) ScoreEligibility(ctx context.Context, preApplicationID string) (out *models.EligibilityAssessment, err error) {
	ctx, span := c.startSpan(ctx, "ScoreEligibility", attribute.String("preApplication.id", preApplicationID))
	defer func() { endSpan(span, err) }()

	var snap *models.ScoringSnapshot
	err = c.tx.WithTx(ctx, func(tx Tx) error {
		var err error
		snap, err = tx.GetScoringSnapshot(ctx, preApplicationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if snap.PreApplication.Status == models.PreApplicationWithdrawn {
		return nil, apperrors.NewInvalidTransitionError(string(snap.PreApplication.Status), string(models.PreApplicationUnderReview))
	}

	scoredAt := c.now()
	var tenure *int
	if snap.Company.FoundedOn != nil {
		years := eligibility.TenureYears(*snap.Company.FoundedOn, scoredAt)
		tenure = &years
	}

	result, err := c.evaluator.Evaluate(ctx, eligibility.Input{
		PersonalAddress: snap.Candidate.Address,
		CompanyAddress:  snap.Company.Address,
		RevenueInterval: snap.Company.RevenueInterval,
		TenureYears:     tenure,
		Thresholds:      snap.Program.Thresholds,
	})
	if err != nil {
		return nil, err
	}

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		pa, err := tx.GetPreApplication(ctx, preApplicationID)
		if err != nil {
			return err
		}

		assessment := models.EligibilityAssessment{
			ID:               uuid.New().String(),
			PreApplicationID: preApplicationID,
			RevenueOK:        result.RevenueOK,
			EquityZoneOK:     result.EquityZoneOK,
			TenureOK:         result.TenureOK,
			TenureYears:      result.TenureYears,
			Verdict:          result.Verdict,
			Detail:           result.Detail,
			AssessedAt:       scoredAt,
		}
		if err := tx.UpsertAssessment(ctx, &assessment); err != nil {
			return err
		}

		company, err := tx.GetCompanyByCandidate(ctx, pa.CandidateID)
		if err != nil {
			return err
		}
		company.ZoneStatus = result.ZoneStatus
		company.UpdatedAt = scoredAt
		if err := tx.UpdateCompany(ctx, company); err != nil {
			return err
		}

		switch pa.Status {
		case models.PreApplicationSubmitted:
			if err := tx.UpdatePreApplicationStatus(ctx, pa.ID, models.PreApplicationUnderReview, scoredAt); err != nil {
				return err
			}
		case models.PreApplicationUnderReview, models.PreApplicationCompleted:
		case models.PreApplicationWithdrawn:
			return apperrors.NewInvalidTransitionError(string(pa.Status), string(models.PreApplicationUnderReview))
		}

		out, err = tx.GetAssessment(ctx, preApplicationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.EligibilityVerdicts.WithLabelValues(string(out.Verdict)).Inc()
	span.SetAttributes(attribute.String("eligibility.verdict", string(out.Verdict)))
	c.logger.Info("eligibility scored", map[string]interface{}{
		"preApplicationId": preApplicationID,
		"verdict":          string(out.Verdict),
		"revenueOk":        out.RevenueOK,
		"equityZoneOk":     out.EquityZoneOK,
		"tenureOk":         out.TenureOK,
	})
	return out, nil
}

// WithdrawPreApplication closes a pre-application on the candidate's request.
func (c *Coordinator) WithdrawPreApplication(ctx context.Context, preApplicationID string) (out *models.PreApplication, err error) {
	ctx, span := c.startSpan(ctx, "WithdrawPreApplication", attribute.String("preApplication.id", preApplicationID))
	defer func() { endSpan(span, err) }()

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		pa, err := tx.GetPreApplication(ctx, preApplicationID)
		if err != nil {
			return err
		}
		if !pa.Status.CanMoveTo(models.PreApplicationWithdrawn) {
			return apperrors.NewInvalidTransitionError(string(pa.Status), string(models.PreApplicationWithdrawn))
		}
		now := c.now()
		if err := tx.UpdatePreApplicationStatus(ctx, pa.ID, models.PreApplicationWithdrawn, now); err != nil {
			return err
		}
		pa.Status = models.PreApplicationWithdrawn
		pa.UpdatedAt = now
		out = pa
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("pre-application withdrawn", map[string]interface{}{"preApplicationId": preApplicationID})
	return out, nil
}

// EnrichCompany fills the empty company fields from the business registry.
func (c *Coordinator) EnrichCompany(ctx context.Context, candidateID, siren string) (out *models.Company, err error) {
	ctx, span := c.startSpan(ctx, "EnrichCompany", attribute.String("candidate.id", candidateID))
	defer func() { endSpan(span, err) }()

	record, err := c.registry.Lookup(ctx, siren)
	if err != nil {
		return nil, err
	}

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		company, err := tx.GetCompanyByCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		company.SIREN = record.SIREN
		if company.LegalName == "" {
			company.LegalName = record.LegalName
		}
		if company.Address == "" {
			company.Address = record.Address
		}
		if company.ActivityCode == "" {
			company.ActivityCode = record.ActivityCode
		}
		if company.FoundedOn == nil {
			company.FoundedOn = record.FoundedOn
		}
		if company.Latitude == nil || company.Longitude == nil {
			company.Latitude, company.Longitude = record.Latitude, record.Longitude
		}
		company.UpdatedAt = c.now()
		if err := tx.UpdateCompany(ctx, company); err != nil {
			return err
		}
		out = company
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("company enriched from registry", map[string]interface{}{
		"candidateId": candidateID,
		"siren":       out.SIREN,
	})
	return out, nil
}

// AssessmentReport builds the reporting view of a scored pre-application.
func (c *Coordinator) AssessmentReport(ctx context.Context, preApplicationID string) (out *models.AssessmentReport, err error) {
	ctx, span := c.startSpan(ctx, "AssessmentReport", attribute.String("preApplication.id", preApplicationID))
	defer func() { endSpan(span, err) }()

	err = c.tx.WithTx(ctx, func(tx Tx) error {
		snap, err := tx.GetScoringSnapshot(ctx, preApplicationID)
		if err != nil {
			return err
		}
		a, err := tx.GetAssessment(ctx, preApplicationID)
		if err != nil {
			return err
		}
		out = &models.AssessmentReport{
			PreApplicationID: preApplicationID,
			CandidateID:      snap.Candidate.ID,
			CandidateName:    strings.TrimSpace(snap.Candidate.FirstName + " " + snap.Candidate.LastName),
			ProgramCode:      snap.Program.Code,
			Status:           string(snap.PreApplication.Status),
			Verdict:          a.Verdict,
			RevenueOK:        a.RevenueOK,
			EquityZoneOK:     a.EquityZoneOK,
			TenureOK:         a.TenureOK,
			ZoneStatus:       snap.Company.ZoneStatus,
			Detail:           a.Detail,
			AssessedAt:       a.AssessedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
