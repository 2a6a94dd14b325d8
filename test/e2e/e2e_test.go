//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coaching-workers/internal/common/config"
	"coaching-workers/internal/common/database"
	"coaching-workers/internal/common/geo"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/common/sirene"
	"coaching-workers/internal/eligibility"
	"coaching-workers/internal/equity"
	"coaching-workers/internal/models"
	"coaching-workers/internal/reporting"
	"coaching-workers/internal/repository"
	"coaching-workers/internal/workflow"

	ac "coaching-workers/internal/workers/admission/admit-candidate"
	as "coaching-workers/internal/workers/admission/advance-stage"
	djd "coaching-workers/internal/workers/jury/delete-jury-decision"
	rjd "coaching-workers/internal/workers/jury/record-jury-decision"
	ujd "coaching-workers/internal/workers/jury/update-jury-decision"
	ia "coaching-workers/internal/workers/reporting/index-assessment"
	se "coaching-workers/internal/workers/intake/score-eligibility"
	spa "coaching-workers/internal/workers/intake/submit-pre-application"
)

// services are the live dependencies started by docker-compose.
type services struct {
	cfg     *config.Config
	pg      *database.PostgresClient
	redis   *database.RedisClient
	indexer *reporting.Indexer
}

func connect(t *testing.T) *services {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("set E2E=1 with postgres, redis and elasticsearch running on localhost")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	cfg.Reporting.AssessmentIndex = "candidate-assessments-e2e"

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "PostgreSQL ping failed")
	require.NoError(t, repository.Migrate(ctx, pg.DB))
	t.Cleanup(func() { _ = pg.Close() })

	rdb := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, rdb.Ping(ctx), "Redis ping failed")
	t.Cleanup(func() { _ = rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "Elasticsearch ping failed")

	indexer := reporting.NewIndexer(es.Client, cfg.Reporting.AssessmentIndex, logger.NewTestLogger(t))
	require.NoError(t, indexer.EnsureIndex(ctx))

	return &services{cfg: cfg, pg: pg, redis: rdb, indexer: indexer}
}

// seedProgram inserts a program with two pipeline stages and one jury session.
func seedProgram(t *testing.T, db *sql.DB) (programID, sessionID string) {
	t.Helper()
	ctx := context.Background()

	programID = uuid.NewString()
	sessionID = uuid.NewString()
	code := "E2E-" + programID[:8]

	_, err := db.ExecContext(ctx,
		`INSERT INTO programs (id, code, name, revenue_min, revenue_max, min_tenure_years) VALUES ($1, $2, $3, $4, $5, $6)`,
		programID, code, "Programme E2E", 5000, nil, 1)
	require.NoError(t, err)

	for i, stage := range []string{"diagnostic", "coaching"} {
		_, err := db.ExecContext(ctx,
			`INSERT INTO pipeline_stages (id, program_id, code, label, sequence, active) VALUES ($1, $2, $3, $4, $5, TRUE)`,
			uuid.NewString(), programID, stage, stage, i+1)
		require.NoError(t, err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO jury_sessions (id, program_id, scheduled_at) VALUES ($1, $2, $3)`,
		sessionID, programID, time.Now().UTC())
	require.NoError(t, err)
	return programID, sessionID
}

// geoStub answers every address as inside a zone.
func geoStub(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"distance_m": 0, "nom_qp": "Quartier E2E"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newCoordinator(t *testing.T, s *services, geoURL string) *workflow.Coordinator {
	log := logger.NewTestLogger(t)
	lookup := equity.NewCachedLookup(geo.NewClient(geoURL, "", 5*time.Second), s.redis.Client, time.Minute, log)
	resolver := equity.NewResolver(lookup, s.cfg.Eligibility.AdjacencyThresholdMeters, 5*time.Second, log)

	return workflow.NewCoordinator(
		workflow.SQLTransactor(repository.NewStore(s.pg.DB, log)),
		eligibility.NewEvaluator(resolver, log),
		sirene.NewClient(s.cfg.Registry.BaseURL, "", 5*time.Second),
		log,
	)
}

func TestFullE2E(t *testing.T) {
	s := connect(t)
	log := logger.NewTestLogger(t)
	coordinator := newCoordinator(t, s, geoStub(t).URL)
	programID, sessionID := seedProgram(t, s.pg.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	wc := config.WorkerConfig{Enabled: true, MaxJobsActive: 1, Timeout: 30000}
	email := fmt.Sprintf("e2e-%s@example.fr", uuid.NewString()[:8])

	// 1. Intake
	submitted, err := spa.NewHandler(spa.LoadConfig(wc), coordinator, log).Execute(ctx, &spa.Input{
		ProgramID: programID,
		Candidate: &spa.CandidateInput{
			FirstName: "Awa",
			LastName:  "Diallo",
			Email:     email,
			Address:   "12 rue des Lilas, 93000 Bobigny",
		},
		Company: &spa.CompanyInput{
			LegalName:       "Diallo Conseil",
			Address:         "3 avenue Jean Jaurès, 93000 Bobigny",
			FoundedOn:       "2019-03-01",
			RevenueInterval: "10 000 - 50 000",
		},
	})
	require.NoError(t, err)
	assert.True(t, submitted.CandidateCreated)
	assert.Equal(t, "submitted", submitted.PreApplicationStatus)

	scored, err := se.NewHandler(se.LoadConfig(wc), coordinator, log).Execute(ctx, &se.Input{PreApplicationID: submitted.PreApplicationID})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictOK, scored.Verdict)
	assert.Len(t, scored.Detail.Addresses, 2)

	// scoring twice keeps one assessment
	rescored, err := se.NewHandler(se.LoadConfig(wc), coordinator, log).Execute(ctx, &se.Input{PreApplicationID: submitted.PreApplicationID})
	require.NoError(t, err)
	assert.Equal(t, scored.AssessmentID, rescored.AssessmentID)

	indexed, err := ia.NewHandler(ia.LoadConfig(wc), coordinator, s.indexer, log).Execute(ctx, &ia.Input{PreApplicationID: submitted.PreApplicationID})
	require.NoError(t, err)
	assert.Equal(t, submitted.PreApplicationID, indexed.DocumentID)

	// 2. Jury
	recorded, err := rjd.NewHandler(rjd.LoadConfig(wc), coordinator, log).Execute(ctx, &rjd.Input{
		CandidateID:     submitted.CandidateID,
		SessionID:       sessionID,
		Decision:        "redirected",
		PartnerID:       strPtr("bge-93"),
		NotifyCandidate: true,
		NotifyPartner:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "redirected", recorded.CandidateStatus)
	require.NotNil(t, recorded.RedirectionID)

	updated, err := ujd.NewHandler(ujd.LoadConfig(wc), coordinator, log).Execute(ctx, &ujd.Input{
		DecisionID: recorded.DecisionID,
		Decision:   "accepted",
		AdvisorID:  strPtr("advisor-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "accepted", updated.CandidateStatus)

	// 3. Admission
	admitted, err := ac.NewHandler(ac.LoadConfig(wc), coordinator, log).Execute(ctx, &ac.Input{
		PreApplicationID: submitted.PreApplicationID,
		AdvisorIDs:       []string{"advisor-1"},
	})
	require.NoError(t, err)
	require.Len(t, admitted.Stages, 2)

	advance := as.NewHandler(as.LoadConfig(wc), coordinator, log)
	for i, stage := range admitted.Stages {
		_, err := advance.Execute(ctx, &as.Input{AdmissionID: admitted.AdmissionID, ProgressID: stage.ProgressID, State: "in_progress"})
		require.NoError(t, err)

		done, err := advance.Execute(ctx, &as.Input{AdmissionID: admitted.AdmissionID, ProgressID: stage.ProgressID, State: "done"})
		require.NoError(t, err)
		assert.Equal(t, len(admitted.Stages)-i-1, done.RemainingStages)
	}

	// 4. Deleting the decision puts the candidate back to pending
	deleted, err := djd.NewHandler(djd.LoadConfig(wc), coordinator, log).Execute(ctx, &djd.Input{DecisionID: recorded.DecisionID})
	require.NoError(t, err)
	assert.Equal(t, "pending", deleted.CandidateStatus)
	assert.True(t, deleted.DecisionDeleted)
}

func TestE2E_DuplicateSubmissionConflicts(t *testing.T) {
	s := connect(t)
	log := logger.NewTestLogger(t)
	coordinator := newCoordinator(t, s, geoStub(t).URL)
	programID, _ := seedProgram(t, s.pg.DB)

	handler := spa.NewHandler(spa.LoadConfig(config.WorkerConfig{Timeout: 10000}), coordinator, log)
	input := &spa.Input{
		ProgramID: programID,
		Candidate: &spa.CandidateInput{
			FirstName: "Hugo",
			LastName:  "Martin",
			Email:     fmt.Sprintf("e2e-%s@example.fr", uuid.NewString()[:8]),
		},
	}

	first, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), &spa.Input{ProgramID: programID, CandidateID: first.CandidateID})
	require.Error(t, err)
}

func strPtr(s string) *string { return &s }
