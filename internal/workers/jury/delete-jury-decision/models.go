package deletejurydecision

import "coaching-workers/internal/common/validation"

type Input struct {
	DecisionID string `json:"decisionId"`
}

type Output struct {
	DecisionID          string `json:"decisionId"`
	CandidateID         string `json:"candidateId"`
	CandidateStatus     string `json:"candidateStatus"`
	RedirectionsRemoved int64  `json:"redirectionsRemoved"`
	DecisionDeleted     bool   `json:"decisionDeleted"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["decisionId"],
  "properties": {
    "decisionId": {"type": "string", "minLength": 1}
  }
}`)
