// Package eligibility computes the eligibility verdict of a pre-application from its
// declared revenue, business tenure and equity-zone proximity.
package eligibility

import (
	"context"

	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/equity"
	"coaching-workers/internal/models"
)

// ZoneResolver classifies a set of addresses.
type ZoneResolver interface {
	ResolveAll(ctx context.Context, inputs []equity.AddressInput) *equity.Aggregate
}

// Input is what the evaluator needs about one pre-application.
type Input struct {
	PersonalAddress string
	CompanyAddress  string
	RevenueInterval string
	TenureYears     *int
	Thresholds      models.Thresholds
}

// Result is the outcome of one evaluation.
type Result struct {
	RevenueOK       bool
	EquityZoneOK    bool
	TenureOK        bool
	TenureYears     *int
	DeclaredRevenue *RevenueRange
	ZoneStatus      models.ZoneStatus
	Verdict         models.Verdict
	Detail          models.AssessmentDetail
}

type Evaluator struct {
	resolver ZoneResolver
	logger   logger.Logger
}

func NewEvaluator(resolver ZoneResolver, log logger.Logger) *Evaluator {
	return &Evaluator{
		resolver: resolver,
		logger:   log.WithFields(map[string]interface{}{"component": "eligibility-evaluator"}),
	}
}

// Evaluate runs the three checks. Lookup failures are recorded in the detail and count as
// a failed equity check. The only error returned is the caller's context ending.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) (*Result, error) {
	declared, parsed := ParseRevenueRange(in.RevenueInterval)
	if !parsed && in.RevenueInterval != "" {
		e.logger.Debug("revenue interval unreadable, no constraint applied", map[string]interface{}{
			"revenueInterval": in.RevenueInterval,
		})
	}

	agg := e.resolver.ResolveAll(ctx, []equity.AddressInput{
		{Kind: models.AddressPersonal, Address: in.PersonalAddress},
		{Kind: models.AddressCompany, Address: in.CompanyAddress},
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{
		RevenueOK:    RevenueWithinThresholds(declared, parsed, in.Thresholds.RevenueMin, in.Thresholds.RevenueMax),
		EquityZoneOK: agg.Status == models.ZoneInside,
		TenureOK:     TenureMeetsMinimum(in.TenureYears, in.Thresholds.MinTenureYears),
		TenureYears:  in.TenureYears,
		ZoneStatus:   agg.Status,
	}
	if parsed {
		res.DeclaredRevenue = &declared
	}

	final := models.QPVOutside
	if res.EquityZoneOK {
		final = models.QPVInside
	}
	res.Detail = models.AssessmentDetail{Addresses: agg.Analyses, FinalStatus: final}
	res.Verdict = VerdictFor(res.RevenueOK, res.EquityZoneOK, res.TenureOK)
	return res, nil
}

// VerdictFor counts passing checks: three is ok, two is attention, fewer is ko.
func VerdictFor(checks ...bool) models.Verdict {
	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	switch {
	case passed >= 3:
		return models.VerdictOK
	case passed == 2:
		return models.VerdictAttention
	default:
		return models.VerdictKO
	}
}
