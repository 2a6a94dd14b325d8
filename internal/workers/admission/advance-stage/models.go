package advancestage

import "coaching-workers/internal/common/validation"

type Input struct {
	AdmissionID string `json:"admissionId"`
	ProgressID  string `json:"progressId"`
	State       string `json:"stageState"`
}

type Output struct {
	ProgressID        string `json:"progressId"`
	StageCode         string `json:"stageCode"`
	StageState        string `json:"stageState"`
	StartedAt         string `json:"startedAt,omitempty"`
	FinishedAt        string `json:"finishedAt,omitempty"`
	RemainingStages   int    `json:"remainingStages"`
	AllStagesFinished bool   `json:"allStagesFinished"`
}

// stageState is left as a plain string so unknown tags reach the tracker and come back
// as an invalid transition rather than a schema failure.
var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["admissionId", "progressId", "stageState"],
  "properties": {
    "admissionId": {"type": "string", "minLength": 1},
    "progressId": {"type": "string", "minLength": 1},
    "stageState": {"type": "string"}
  }
}`)
