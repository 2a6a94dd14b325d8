package indexassessment

import "coaching-workers/internal/common/validation"

type Input struct {
	PreApplicationID string `json:"preApplicationId"`
}

type Output struct {
	IndexName         string           `json:"indexName"`
	DocumentID        string           `json:"documentId"`
	IndexResult       string           `json:"indexResult"`
	DocumentVersion   int64            `json:"documentVersion"`
	ProgramVerdictSum map[string]int64 `json:"programVerdictCounts,omitempty"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["preApplicationId"],
  "properties": {
    "preApplicationId": {"type": "string", "minLength": 1}
  }
}`)
