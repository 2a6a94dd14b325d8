package senddecisionnotification

import "coaching-workers/internal/common/validation"

const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"

	DeliverySent   = "sent"
	DeliveryFailed = "failed"

	ChannelEmail = "email"
	ChannelSMS   = "sms"

	RecipientCandidate = "candidate"
	RecipientAdvisor   = "advisor"
	RecipientPartner   = "partner"
)

type Input struct {
	DecisionID      string `json:"decisionId"`
	Decision        string `json:"decision"`
	ProgramName     string `json:"programName,omitempty"`
	CandidateName   string `json:"candidateName,omitempty"`
	CandidateEmail  string `json:"candidateEmail,omitempty"`
	CandidatePhone  string `json:"candidatePhone,omitempty"`
	AdvisorEmail    string `json:"advisorEmail,omitempty"`
	PartnerEmail    string `json:"partnerEmail,omitempty"`
	PartnerName     string `json:"partnerName,omitempty"`
	Comment         string `json:"comment,omitempty"`
	NotifyCandidate bool   `json:"notifyCandidate"`
	NotifyAdvisor   bool   `json:"notifyAdvisor"`
	NotifyPartner   bool   `json:"notifyPartner"`
}

type Delivery struct {
	Recipient string `json:"recipient"`
	Channel   string `json:"channel"`
	MessageID string `json:"messageId,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type Output struct {
	NotificationStatus string     `json:"notificationStatus"`
	Deliveries         []Delivery `json:"deliveries"`
	SentAt             string     `json:"sentAt"`
}

var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["decisionId", "decision"],
  "properties": {
    "decisionId": {"type": "string", "minLength": 1},
    "decision": {"type": "string", "enum": ["pending", "accepted", "redirected", "rejected"]},
    "candidateEmail": {"type": "string"},
    "candidatePhone": {"type": "string", "pattern": "^(\\+[0-9]{8,15})?$"},
    "advisorEmail": {"type": "string"},
    "partnerEmail": {"type": "string"},
    "comment": {"type": "string"},
    "notifyCandidate": {"type": "boolean"},
    "notifyAdvisor": {"type": "boolean"},
    "notifyPartner": {"type": "boolean"}
  }
}`)
