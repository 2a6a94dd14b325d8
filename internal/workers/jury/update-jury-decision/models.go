package updatejurydecision

import "coaching-workers/internal/common/validation"

type Input struct {
	DecisionID      string  `json:"decisionId"`
	Decision        string  `json:"decision"`
	AdvisorID       *string `json:"advisorId,omitempty"`
	CohortID        *string `json:"cohortId,omitempty"`
	PartnerID       *string `json:"partnerId,omitempty"`
	Comment         string  `json:"comment,omitempty"`
	NotifyCandidate bool    `json:"notifyCandidate"`
	NotifyAdvisor   bool    `json:"notifyAdvisor"`
	NotifyPartner   bool    `json:"notifyPartner"`
}

type Output struct {
	DecisionID      string  `json:"decisionId"`
	Decision        string  `json:"decision"`
	StatusChanged   bool    `json:"candidateStatusChanged"`
	CandidateStatus string  `json:"candidateStatus,omitempty"`
	RedirectionID   *string `json:"redirectionId,omitempty"`
	DecidedAt       string  `json:"decidedAt"`
	NotifyCandidate bool    `json:"notifyCandidate"`
	NotifyAdvisor   bool    `json:"notifyAdvisor"`
	NotifyPartner   bool    `json:"notifyPartner"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["decisionId", "decision"],
  "properties": {
    "decisionId": {"type": "string", "minLength": 1},
    "decision": {"type": "string"},
    "advisorId": {"type": ["string", "null"]},
    "cohortId": {"type": ["string", "null"]},
    "partnerId": {"type": ["string", "null"]},
    "comment": {"type": "string", "maxLength": 2000}
  }
}`)
