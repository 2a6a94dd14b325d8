package admitcandidate

import "coaching-workers/internal/common/validation"

type Input struct {
	PreApplicationID string   `json:"preApplicationId"`
	CohortID         *string  `json:"cohortId,omitempty"`
	AdvisorIDs       []string `json:"advisorIds,omitempty"`
}

type Output struct {
	AdmissionID     string          `json:"admissionId"`
	AdmissionStatus string          `json:"admissionStatus"`
	AdmittedAt      string          `json:"admittedAt"`
	Stages          []StageSnapshot `json:"stages"`
}

type StageSnapshot struct {
	ProgressID string `json:"progressId"`
	Code       string `json:"code"`
	Label      string `json:"label"`
	Sequence   int    `json:"sequence"`
	State      string `json:"state"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["preApplicationId"],
  "properties": {
    "preApplicationId": {"type": "string", "minLength": 1},
    "cohortId": {"type": ["string", "null"]},
    "advisorIds": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "uniqueItems": true
    }
  }
}`)
