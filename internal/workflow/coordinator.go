// Package workflow sequences intake, scoring, admission, pipeline and jury operations,
// each in one transaction, and owns every cross-entity write.
package workflow

import (
	"context"
	"fmt"
	"time"

	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/observability"
	"coaching-workers/internal/eligibility"
	"coaching-workers/internal/jury"
	"coaching-workers/internal/models"
	"coaching-workers/internal/pipeline"
	"coaching-workers/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tx is the storage visible inside one transaction.
type Tx interface {
	pipeline.Store
	jury.Store

	FindCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error)
	InsertCandidate(ctx context.Context, c *models.Candidate) error
	UpdateCandidateStatus(ctx context.Context, candidateID string, status models.Decision, at time.Time) error
	GetCompanyByCandidate(ctx context.Context, candidateID string) (*models.Company, error)
	InsertCompany(ctx context.Context, c *models.Company) error
	UpdateCompany(ctx context.Context, c *models.Company) error
	GetProgram(ctx context.Context, id string) (*models.Program, error)

	GetPreApplication(ctx context.Context, id string) (*models.PreApplication, error)
	FindPreApplication(ctx context.Context, candidateID, programID string) (*models.PreApplication, error)
	InsertPreApplication(ctx context.Context, p *models.PreApplication) error
	UpdatePreApplicationStatus(ctx context.Context, id string, status models.PreApplicationStatus, at time.Time) error
	GetScoringSnapshot(ctx context.Context, preApplicationID string) (*models.ScoringSnapshot, error)
	UpsertAssessment(ctx context.Context, a *models.EligibilityAssessment) error
	GetAssessment(ctx context.Context, preApplicationID string) (*models.EligibilityAssessment, error)

	FindAdmissionByPreApplication(ctx context.Context, preApplicationID string) (*models.Admission, error)
	InsertAdmission(ctx context.Context, a *models.Admission) error

	DeleteJuryDecision(ctx context.Context, id string) error
	InsertRedirection(ctx context.Context, r *models.Redirection) error
	DeleteRedirections(ctx context.Context, decisionID string) (int64, error)
}

// Transactor runs fn in a transaction committed only when fn returns nil.
type Transactor interface {
	WithTx(ctx context.Context, fn func(Tx) error) error
}

type sqlTransactor struct {
	store *repository.Store
}

// SQLTransactor adapts the PostgreSQL store.
func SQLTransactor(store *repository.Store) Transactor {
	return sqlTransactor{store: store}
}

func (t sqlTransactor) WithTx(ctx context.Context, fn func(Tx) error) error {
	return t.store.WithTx(ctx, func(r *repository.Repository) error { return fn(r) })
}

// Evaluator scores a pre-application.
type Evaluator interface {
	Evaluate(ctx context.Context, in eligibility.Input) (*eligibility.Result, error)
}

// Registry looks up a company by SIREN.
type Registry interface {
	Lookup(ctx context.Context, siren string) (*models.RegistryRecord, error)
}

type Coordinator struct {
	tx        Transactor
	evaluator Evaluator
	registry  Registry
	tracker   *pipeline.Tracker
	engine    *jury.Engine
	tracer    trace.Tracer
	now       func() time.Time
	logger    logger.Logger
}

type Option func(*Coordinator)

// WithClock overrides the time source of the coordinator and its components.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = tracer }
}

func NewCoordinator(tx Transactor, evaluator Evaluator, registry Registry, log logger.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		tx:        tx,
		evaluator: evaluator,
		registry:  registry,
		tracer:    otel.Tracer("coaching-workers/workflow"),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    log.WithFields(map[string]interface{}{"component": "workflow-coordinator"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tracker = pipeline.NewTracker(log, pipeline.WithClock(c.now))
	c.engine = jury.NewEngine(log, jury.WithClock(c.now))
	return c
}

func (c *Coordinator) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "workflow."+op, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	observability.EndSpan(span, err)
}

// applyEffects writes the cascades of a jury outcome inside tx.
func (c *Coordinator) applyEffects(ctx context.Context, tx Tx, effects []jury.Effect, res *DecisionResult) error {
	for _, effect := range effects {
		switch e := effect.(type) {
		case jury.ProjectCandidateStatus:
			if err := tx.UpdateCandidateStatus(ctx, e.CandidateID, e.Status, c.now()); err != nil {
				return err
			}
			res.CandidateStatus = e.Status
		case jury.CreateRedirection:
			r := e.Redirection
			if err := tx.InsertRedirection(ctx, &r); err != nil {
				return err
			}
			res.Redirection = &r
		case jury.RemoveRedirections:
			n, err := tx.DeleteRedirections(ctx, e.DecisionID)
			if err != nil {
				return err
			}
			res.RedirectionsRemoved += n
		case jury.RemoveDecision:
			if err := tx.DeleteJuryDecision(ctx, e.DecisionID); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unhandled jury effect %T", effect)
		}
	}
	return nil
}
