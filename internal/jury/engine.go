// Package jury records jury decisions and derives the cascades they imply.
package jury

import (
	"context"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/metrics"
	"coaching-workers/internal/models"

	"github.com/google/uuid"
)

// Store is the persistence the engine needs. Implementations run inside the caller's
// transaction.
type Store interface {
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	GetJurySession(ctx context.Context, id string) (*models.JurySession, error)
	// FindJuryDecision returns nil, nil when the pair has no decision.
	FindJuryDecision(ctx context.Context, candidateID, sessionID string) (*models.JuryDecision, error)
	GetJuryDecision(ctx context.Context, id string) (*models.JuryDecision, error)
	InsertJuryDecision(ctx context.Context, d *models.JuryDecision) error
	UpdateJuryDecision(ctx context.Context, d *models.JuryDecision) error
	CountRedirections(ctx context.Context, decisionID string) (int, error)
}

// Effect is a change to another entity that a decision implies. The coordinator applies
// effects in order within the same transaction.
type Effect interface {
	isEffect()
}

// ProjectCandidateStatus sets Candidate.Status.
type ProjectCandidateStatus struct {
	CandidateID string
	Status      models.Decision
}

// CreateRedirection inserts a redirection to a partner.
type CreateRedirection struct {
	Redirection models.Redirection
}

// RemoveRedirections deletes the redirections of a decision.
type RemoveRedirections struct {
	DecisionID string
}

// RemoveDecision deletes the decision itself. It always comes after the cascades that
// still reference it.
type RemoveDecision struct {
	DecisionID string
}

func (ProjectCandidateStatus) isEffect() {}
func (CreateRedirection) isEffect()      {}
func (RemoveRedirections) isEffect()     {}
func (RemoveDecision) isEffect()         {}

// Outcome is the persisted decision and the effects still to apply.
type Outcome struct {
	Decision models.JuryDecision
	Effects  []Effect
}

// Fields are the mutable attributes of a decision.
type Fields struct {
	Decision        models.Decision `json:"decision"`
	AdvisorID       *string         `json:"advisorId,omitempty"`
	CohortID        *string         `json:"cohortId,omitempty"`
	PartnerID       *string         `json:"partnerId,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	NotifyCandidate bool            `json:"notifyCandidate"`
	NotifyAdvisor   bool            `json:"notifyAdvisor"`
	NotifyPartner   bool            `json:"notifyPartner"`
}

type RecordCommand struct {
	CandidateID string `json:"candidateId"`
	SessionID   string `json:"sessionId"`
	Fields
}

type UpdateCommand struct {
	DecisionID string `json:"decisionId"`
	Fields
}

type Engine struct {
	now    func() time.Time
	logger logger.Logger
}

type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		now:    func() time.Time { return time.Now().UTC() },
		logger: log.WithFields(map[string]interface{}{"component": "jury-engine"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Record persists the first decision for a (candidate, session) pair.
func (e *Engine) Record(ctx context.Context, store Store, cmd RecordCommand) (*Outcome, error) {
	if !cmd.Decision.Valid() {
		return nil, apperrors.NewValidationError("decision", "unknown decision: "+string(cmd.Decision))
	}
	if _, err := store.GetCandidate(ctx, cmd.CandidateID); err != nil {
		return nil, err
	}
	if _, err := store.GetJurySession(ctx, cmd.SessionID); err != nil {
		return nil, err
	}

	existing, err := store.FindJuryDecision(ctx, cmd.CandidateID, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("jury decision", cmd.CandidateID+"/"+cmd.SessionID)
	}

	d := models.JuryDecision{
		ID:          uuid.New().String(),
		CandidateID: cmd.CandidateID,
		SessionID:   cmd.SessionID,
		DecidedAt:   e.now(),
	}
	e.apply(&d, cmd.Fields)

	if err := store.InsertJuryDecision(ctx, &d); err != nil {
		return nil, err
	}

	out := &Outcome{
		Decision: d,
		Effects:  []Effect{ProjectCandidateStatus{CandidateID: d.CandidateID, Status: d.Decision}},
	}
	if r := e.redirectionFor(d); r != nil {
		out.Effects = append(out.Effects, CreateRedirection{Redirection: *r})
	}

	metrics.JuryDecisions.WithLabelValues("record", string(d.Decision)).Inc()
	e.logger.Info("jury decision recorded", map[string]interface{}{
		"decisionId":  d.ID,
		"candidateId": d.CandidateID,
		"sessionId":   d.SessionID,
		"decision":    string(d.Decision),
	})
	return out, nil
}

// Update rewrites a decision. The candidate status is re-projected only when the tag
// changes. Redirections created earlier are kept when the tag moves away from redirected.
func (e *Engine) Update(ctx context.Context, store Store, cmd UpdateCommand) (*Outcome, error) {
	if !cmd.Decision.Valid() {
		return nil, apperrors.NewValidationError("decision", "unknown decision: "+string(cmd.Decision))
	}
	d, err := store.GetJuryDecision(ctx, cmd.DecisionID)
	if err != nil {
		return nil, err
	}

	previous := d.Decision
	e.apply(d, cmd.Fields)
	d.DecidedAt = e.now()

	if err := store.UpdateJuryDecision(ctx, d); err != nil {
		return nil, err
	}

	out := &Outcome{Decision: *d}
	if d.Decision != previous {
		out.Effects = append(out.Effects, ProjectCandidateStatus{CandidateID: d.CandidateID, Status: d.Decision})
	}
	if r := e.redirectionFor(*d); r != nil {
		n, err := store.CountRedirections(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			out.Effects = append(out.Effects, CreateRedirection{Redirection: *r})
		}
	}
	if previous == models.DecisionRedirected && d.Decision != models.DecisionRedirected {
		e.logger.Warn("decision moved away from redirected, existing redirection kept", map[string]interface{}{
			"decisionId": d.ID,
		})
	}

	metrics.JuryDecisions.WithLabelValues("update", string(d.Decision)).Inc()
	e.logger.Info("jury decision updated", map[string]interface{}{
		"decisionId": d.ID,
		"from":       string(previous),
		"to":         string(d.Decision),
	})
	return out, nil
}

// Delete plans the removal of a decision: its redirections go first, the candidate is
// reset to pending, then the decision row is dropped.
func (e *Engine) Delete(ctx context.Context, store Store, decisionID string) (*Outcome, error) {
	d, err := store.GetJuryDecision(ctx, decisionID)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Decision: *d,
		Effects: []Effect{
			RemoveRedirections{DecisionID: d.ID},
			ProjectCandidateStatus{CandidateID: d.CandidateID, Status: models.DecisionPending},
			RemoveDecision{DecisionID: d.ID},
		},
	}

	metrics.JuryDecisions.WithLabelValues("delete", string(d.Decision)).Inc()
	e.logger.Info("jury decision deleted", map[string]interface{}{
		"decisionId":  d.ID,
		"candidateId": d.CandidateID,
	})
	return out, nil
}

// apply copies fields onto d, dropping advisor and cohort unless accepted and partner
// unless redirected.
func (e *Engine) apply(d *models.JuryDecision, f Fields) {
	d.Decision = f.Decision
	d.Comment = f.Comment
	d.NotifyCandidate = f.NotifyCandidate
	d.NotifyAdvisor = f.NotifyAdvisor
	d.NotifyPartner = f.NotifyPartner
	d.AdvisorID, d.CohortID, d.PartnerID = f.AdvisorID, f.CohortID, f.PartnerID

	var dropped []string
	switch f.Decision {
	case models.DecisionAccepted:
		if d.PartnerID != nil {
			dropped = append(dropped, "partnerId")
			d.PartnerID = nil
		}
	case models.DecisionRedirected:
		if d.AdvisorID != nil {
			dropped = append(dropped, "advisorId")
			d.AdvisorID = nil
		}
		if d.CohortID != nil {
			dropped = append(dropped, "cohortId")
			d.CohortID = nil
		}
	case models.DecisionPending, models.DecisionRejected:
		if d.AdvisorID != nil {
			dropped = append(dropped, "advisorId")
		}
		if d.CohortID != nil {
			dropped = append(dropped, "cohortId")
		}
		if d.PartnerID != nil {
			dropped = append(dropped, "partnerId")
		}
		d.AdvisorID, d.CohortID, d.PartnerID = nil, nil, nil
	}

	if len(dropped) > 0 {
		e.logger.Warn("fields not allowed for decision were cleared", map[string]interface{}{
			"decision": string(f.Decision),
			"cleared":  dropped,
		})
	}
}

func (e *Engine) redirectionFor(d models.JuryDecision) *models.Redirection {
	if d.Decision != models.DecisionRedirected || d.PartnerID == nil || *d.PartnerID == "" {
		return nil
	}
	return &models.Redirection{
		ID:          uuid.New().String(),
		DecisionID:  d.ID,
		CandidateID: d.CandidateID,
		PartnerID:   *d.PartnerID,
		CreatedAt:   d.DecidedAt,
	}
}
