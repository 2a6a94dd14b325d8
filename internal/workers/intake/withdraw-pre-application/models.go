package withdrawpreapplication

import "coaching-workers/internal/common/validation"

type Input struct {
	PreApplicationID string `json:"preApplicationId"`
	Reason           string `json:"withdrawalReason,omitempty"`
}

type Output struct {
	PreApplicationID     string `json:"preApplicationId"`
	PreApplicationStatus string `json:"preApplicationStatus"`
	WithdrawnAt          string `json:"withdrawnAt"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["preApplicationId"],
  "properties": {
    "preApplicationId": {"type": "string", "minLength": 1},
    "withdrawalReason": {"type": "string", "maxLength": 500}
  }
}`)
