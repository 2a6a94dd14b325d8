// Package reporting pushes assessment reports to Elasticsearch for the reporting screens.
package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"
	"coaching-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const indexMapping = `{
  "mappings": {
    "properties": {
      "preApplicationId": {"type": "keyword"},
      "candidateId":      {"type": "keyword"},
      "candidateName":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "programCode":      {"type": "keyword"},
      "status":           {"type": "keyword"},
      "verdict":          {"type": "keyword"},
      "revenueOk":        {"type": "boolean"},
      "equityZoneOk":     {"type": "boolean"},
      "tenureOk":         {"type": "boolean"},
      "zoneStatus":       {"type": "keyword"},
      "detail":           {"type": "object", "enabled": false},
      "assessedAt":       {"type": "date"}
    }
  }
}`

// IndexResult is the acknowledgement of an indexed report.
type IndexResult struct {
	Index      string `json:"index"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result"`
	Version    int64  `json:"version"`
}

type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "assessment-indexer", "index": index}),
	}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewIndexingFailedError(i.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: i.index, Body: strings.NewReader(indexMapping)}.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewIndexingFailedError(i.index, err)
	}
	defer res.Body.Close()
	if res.IsError() && !strings.Contains(readBody(res.Body), "resource_already_exists_exception") {
		return apperrors.NewIndexingFailedError(i.index, fmt.Errorf("create index: %s", res.Status()))
	}

	i.logger.Info("index created", nil)
	return nil
}

// Index upserts report under its pre-application ID, so re-scoring replaces the document.
func (i *Indexer) Index(ctx context.Context, report *models.AssessmentReport) (*IndexResult, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return nil, apperrors.NewValidationError("report", err.Error())
	}

	res, err := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: report.PreApplicationID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client)
	if err != nil {
		return nil, apperrors.NewIndexingFailedError(i.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewIndexingFailedError(i.index, fmt.Errorf("%s: %s", res.Status(), readBody(res.Body)))
	}

	var ack struct {
		Index   string `json:"_index"`
		ID      string `json:"_id"`
		Result  string `json:"result"`
		Version int64  `json:"_version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&ack); err != nil {
		return nil, apperrors.NewIndexingFailedError(i.index, fmt.Errorf("decode response: %w", err))
	}

	i.logger.Info("assessment indexed", map[string]interface{}{
		"preApplicationId": report.PreApplicationID,
		"result":           ack.Result,
		"version":          ack.Version,
	})
	return &IndexResult{Index: ack.Index, DocumentID: ack.ID, Result: ack.Result, Version: ack.Version}, nil
}

// CountByVerdict returns how many indexed assessments of a program carry each verdict.
func (i *Indexer) CountByVerdict(ctx context.Context, programCode string) (map[models.Verdict]int64, error) {
	query := map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"term": map[string]interface{}{"programCode": programCode},
		},
		"aggs": map[string]interface{}{
			"verdicts": map[string]interface{}{
				"terms": map[string]interface{}{"field": "verdict"},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperrors.NewIndexingFailedError(i.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperrors.NewIndexingFailedError(i.index, fmt.Errorf("search: %s", res.Status()))
	}

	var r struct {
		Aggregations struct {
			Verdicts struct {
				Buckets []struct {
					Key      string `json:"key"`
					DocCount int64  `json:"doc_count"`
				} `json:"buckets"`
			} `json:"verdicts"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, apperrors.NewIndexingFailedError(i.index, fmt.Errorf("decode response: %w", err))
	}

	out := make(map[models.Verdict]int64, len(r.Aggregations.Verdicts.Buckets))
	for _, b := range r.Aggregations.Verdicts.Buckets {
		v, err := models.ParseVerdict(b.Key)
		if err != nil {
			i.logger.Warn("unknown verdict in index", map[string]interface{}{"verdict": b.Key})
			continue
		}
		out[v] = b.DocCount
	}
	return out, nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}
