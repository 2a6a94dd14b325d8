// Package equity classifies addresses against priority urban zones (QPV) by distance.
package equity

import (
	"context"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/metrics"
	"coaching-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

// Lookup answers the distance from an address to the nearest zone.
type Lookup interface {
	Lookup(ctx context.Context, address string) (*models.ZoneLookupResult, error)
}

// Resolution is the classification of one address.
type Resolution struct {
	Status         models.ZoneStatus `json:"status"`
	DistanceMeters *float64          `json:"distanceMeters,omitempty"`
	ZoneName       *string           `json:"zoneName,omitempty"`
}

// AddressInput is one address to classify.
type AddressInput struct {
	Kind    models.AddressKind
	Address string
}

// Aggregate is the combined classification of several addresses.
type Aggregate struct {
	Status   models.ZoneStatus
	Analyses []models.AddressAnalysis
}

type Resolver struct {
	lookup          Lookup
	thresholdMeters float64
	timeout         time.Duration
	logger          logger.Logger
}

// NewResolver builds a resolver. timeout bounds each address lookup independently;
// zero leaves the caller's deadline in charge.
func NewResolver(lookup Lookup, thresholdMeters float64, timeout time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		lookup:          lookup,
		thresholdMeters: thresholdMeters,
		timeout:         timeout,
		logger:          log.WithFields(map[string]interface{}{"component": "equity-resolver"}),
	}
}

// Classify maps a distance to a zone status. A nil or negative distance means no zone.
func Classify(distanceMeters *float64, thresholdMeters float64) models.ZoneStatus {
	if distanceMeters == nil || *distanceMeters < 0 {
		return models.ZoneNone
	}
	switch d := *distanceMeters; {
	case d == 0:
		return models.ZoneInside
	case d <= thresholdMeters:
		return models.ZoneAdjacent
	default:
		return models.ZoneNone
	}
}

// Resolve looks up and classifies one address.
func (r *Resolver) Resolve(ctx context.Context, address string) (*Resolution, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	answer, err := r.lookup.Lookup(ctx, address)
	if err != nil {
		metrics.ZoneLookups.WithLabelValues("failed").Inc()
		return nil, err
	}

	res := &Resolution{
		Status:         Classify(answer.DistanceMeters, r.thresholdMeters),
		DistanceMeters: answer.DistanceMeters,
		ZoneName:       answer.ZoneName,
	}
	metrics.ZoneLookups.WithLabelValues(string(res.Status)).Inc()
	return res, nil
}

// ResolveAll classifies every address concurrently. A failed lookup is recorded in its
// analysis entry and never aborts the others. Analyses keep the order of inputs.
func (r *Resolver) ResolveAll(ctx context.Context, inputs []AddressInput) *Aggregate {
	analyses := make([]models.AddressAnalysis, len(inputs))
	statuses := make([]models.ZoneStatus, len(inputs))

	var g errgroup.Group
	for i, in := range inputs {
		i, in := i, in
		analyses[i] = models.AddressAnalysis{Kind: in.Kind, Address: in.Address}
		statuses[i] = models.ZoneNone

		if in.Address == "" {
			analyses[i].Address = models.UnavailableAddress
			analyses[i].Outcome = models.Unavailable{}
			continue
		}

		g.Go(func() error {
			res, err := r.Resolve(ctx, in.Address)
			if err != nil {
				r.logger.Warn("zone lookup failed", map[string]interface{}{
					"addressType": string(in.Kind),
					"error":       err.Error(),
				})
				analyses[i].Outcome = models.Failed{Message: failureMessage(err)}
				return nil
			}
			statuses[i] = res.Status
			analyses[i].Outcome = models.Resolved{DistanceMeters: res.DistanceMeters, ZoneName: res.ZoneName}
			return nil
		})
	}
	_ = g.Wait()

	best := models.ZoneNone
	for _, s := range statuses {
		if s.Rank() > best.Rank() {
			best = s
		}
	}
	return &Aggregate{Status: best, Analyses: analyses}
}

func failureMessage(err error) string {
	if apperrors.IsExternalUnavailable(err) {
		return apperrors.UserMessage(err)
	}
	return err.Error()
}
