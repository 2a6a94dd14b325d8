package reporting

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func setupElasticsearch(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func sampleReport() *models.AssessmentReport {
	return &models.AssessmentReport{
		PreApplicationID: "pa-1",
		CandidateID:      "c-1",
		CandidateName:    "Jean Martin",
		ProgramCode:      "ACD",
		Status:           "under_review",
		Verdict:          models.VerdictOK,
		RevenueOK:        true,
		EquityZoneOK:     true,
		TenureOK:         true,
		ZoneStatus:       models.ZoneInside,
		Detail: models.AssessmentDetail{
			Addresses:   []models.AddressAnalysis{{Kind: models.AddressCompany, Outcome: models.Unavailable{}}},
			FinalStatus: models.QPVInside,
		},
		AssessedAt: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}
}

// ==========================
// Index
// ==========================

func TestIndex_PutsDocumentUnderPreApplicationID(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]interface{}

	client := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_index":"candidate-assessments","_id":"pa-1","_version":1,"result":"created"}`))
	})

	res, err := NewIndexer(client, "candidate-assessments", logger.NewTestLogger(t)).
		Index(context.Background(), sampleReport())

	require.NoError(t, err)
	assert.Equal(t, "/candidate-assessments/_doc/pa-1", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "created", res.Result)
	assert.Equal(t, int64(1), res.Version)
	assert.Equal(t, "ok", gotBody["verdict"])

	detail := gotBody["detail"].(map[string]interface{})
	assert.Equal(t, "QPV", detail["statut_qpv_final"])
}

func TestIndex_ErrorResponse(t *testing.T) {
	client := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"mapper_parsing_exception"},"status":400}`))
	})

	_, err := NewIndexer(client, "candidate-assessments", logger.NewTestLogger(t)).
		Index(context.Background(), sampleReport())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeIndexingFailed, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

// ==========================
// EnsureIndex
// ==========================

func TestEnsureIndex_CreatesMissingIndex(t *testing.T) {
	var created bool
	client := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			created = true
			raw, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(raw), `"verdict"`)
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	})

	require.NoError(t, NewIndexer(client, "candidate-assessments", logger.NewTestLogger(t)).EnsureIndex(context.Background()))
	assert.True(t, created)
}

func TestEnsureIndex_ExistingIndexUntouched(t *testing.T) {
	client := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, NewIndexer(client, "candidate-assessments", logger.NewTestLogger(t)).EnsureIndex(context.Background()))
}

// ==========================
// CountByVerdict
// ==========================

func TestCountByVerdict(t *testing.T) {
	client := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candidate-assessments/_search", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"took": 2,
			"hits": {"total": {"value": 7}, "hits": []},
			"aggregations": {"verdicts": {"buckets": [
				{"key": "ok", "doc_count": 4},
				{"key": "ko", "doc_count": 3},
				{"key": "legacy", "doc_count": 1}
			]}}
		}`))
	})

	counts, err := NewIndexer(client, "candidate-assessments", logger.NewTestLogger(t)).
		CountByVerdict(context.Background(), "ACD")

	require.NoError(t, err)
	assert.Equal(t, map[models.Verdict]int64{models.VerdictOK: 4, models.VerdictKO: 3}, counts)
}
