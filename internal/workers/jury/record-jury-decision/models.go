package recordjurydecision

import "coaching-workers/internal/common/validation"

type Input struct {
	CandidateID     string  `json:"candidateId"`
	SessionID       string  `json:"sessionId"`
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
	CandidateStatus string  `json:"candidateStatus"`
	RedirectionID   *string `json:"redirectionId,omitempty"`
	DecidedAt       string  `json:"decidedAt"`
	NotifyCandidate bool    `json:"notifyCandidate"`
	NotifyAdvisor   bool    `json:"notifyAdvisor"`
	NotifyPartner   bool    `json:"notifyPartner"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["candidateId", "sessionId", "decision"],
  "properties": {
    "candidateId": {"type": "string", "minLength": 1},
    "sessionId": {"type": "string", "minLength": 1},
    "decision": {"type": "string", "enum": ["pending", "accepted", "redirected", "rejected"]},
    "advisorId": {"type": ["string", "null"]},
    "cohortId": {"type": ["string", "null"]},
    "partnerId": {"type": ["string", "null"]},
    "comment": {"type": "string", "maxLength": 2000},
    "notifyCandidate": {"type": "boolean"},
    "notifyAdvisor": {"type": "boolean"},
    "notifyPartner": {"type": "boolean"}
  }
}`)
