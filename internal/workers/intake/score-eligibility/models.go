package scoreeligibility

import (
	"coaching-workers/internal/common/validation"
	"coaching-workers/internal/models"
)

type Input struct {
	PreApplicationID string `json:"preApplicationId"`
}

type Output struct {
	AssessmentID    string                  `json:"assessmentId"`
	Verdict         models.Verdict          `json:"verdict"`
	RevenueOK       bool                    `json:"revenueOk"`
	EquityZoneOK    bool                    `json:"equityZoneOk"`
	TenureOK        bool                    `json:"tenureOk"`
	TenureYears     *int                    `json:"tenureYears,omitempty"`
	Detail          models.AssessmentDetail `json:"eligibilityDetail"`
	EligibilityDone bool                    `json:"eligibilityScored"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["preApplicationId"],
  "properties": {
    "preApplicationId": {"type": "string", "minLength": 1}
  }
}`)
