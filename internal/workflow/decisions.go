package workflow

import (
	"context"

	"coaching-workers/internal/jury"
	"coaching-workers/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// DecisionResult is a persisted decision and the cascades applied with it.
type DecisionResult struct {
	Decision            models.JuryDecision `json:"decision"`
	CandidateStatus     models.Decision     `json:"candidateStatus,omitempty"`
	Redirection         *models.Redirection `json:"redirection,omitempty"`
	RedirectionsRemoved int64               `json:"redirectionsRemoved"`
}

// RecordDecision stores the first decision of a candidate in a jury session.
func (c *Coordinator) RecordDecision(ctx context.Context, cmd jury.RecordCommand) (res *DecisionResult, err error) {
	ctx, span := c.startSpan(ctx, "RecordDecision",
		attribute.String("candidate.id", cmd.CandidateID),
		attribute.String("jury.session.id", cmd.SessionID),
		attribute.String("jury.decision", string(cmd.Decision)),
	)
	defer func() { endSpan(span, err) }()

	return c.decide(ctx, func(tx Tx) (*jury.Outcome, error) {
		return c.engine.Record(ctx, tx, cmd)
	})
}

// UpdateDecision rewrites an existing decision.
func (c *Coordinator) UpdateDecision(ctx context.Context, cmd jury.UpdateCommand) (res *DecisionResult, err error) {
	ctx, span := c.startSpan(ctx, "UpdateDecision",
		attribute.String("jury.decision.id", cmd.DecisionID),
		attribute.String("jury.decision", string(cmd.Decision)),
	)
	defer func() { endSpan(span, err) }()

	return c.decide(ctx, func(tx Tx) (*jury.Outcome, error) {
		return c.engine.Update(ctx, tx, cmd)
	})
}

// DeleteDecision removes a decision and resets the candidate to pending.
func (c *Coordinator) DeleteDecision(ctx context.Context, decisionID string) (res *DecisionResult, err error) {
	ctx, span := c.startSpan(ctx, "DeleteDecision", attribute.String("jury.decision.id", decisionID))
	defer func() { endSpan(span, err) }()

	return c.decide(ctx, func(tx Tx) (*jury.Outcome, error) {
		return c.engine.Delete(ctx, tx, decisionID)
	})
}

func (c *Coordinator) decide(ctx context.Context, run func(Tx) (*jury.Outcome, error)) (*DecisionResult, error) {
	var res *DecisionResult
	err := c.tx.WithTx(ctx, func(tx Tx) error {
		outcome, err := run(tx)
		if err != nil {
			return err
		}
		res = &DecisionResult{Decision: outcome.Decision}
		return c.applyEffects(ctx, tx, outcome.Effects, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
