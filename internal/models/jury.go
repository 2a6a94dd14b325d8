package models

import "time"

// JurySession is a scheduled jury meeting for a program.
type JurySession struct {
	ID          string    `json:"id" db:"id"`
	ProgramID   string    `json:"programId" db:"program_id"`
	CohortID    *string   `json:"cohortId,omitempty" db:"cohort_id"`
	ScheduledAt time.Time `json:"scheduledAt" db:"scheduled_at"`
}

// JuryDecision is the outcome for one candidate in one session. At most one per
// (candidate, session). Advisor and cohort are only set when accepted, partner only
// when redirected.
type JuryDecision struct {
	ID              string    `json:"id" db:"id"`
	CandidateID     string    `json:"candidateId" db:"candidate_id"`
	SessionID       string    `json:"sessionId" db:"session_id"`
	Decision        Decision  `json:"decision" db:"decision"`
	AdvisorID       *string   `json:"advisorId,omitempty" db:"advisor_id"`
	CohortID        *string   `json:"cohortId,omitempty" db:"cohort_id"`
	PartnerID       *string   `json:"partnerId,omitempty" db:"partner_id"`
	Comment         string    `json:"comment,omitempty" db:"comment"`
	NotifyCandidate bool      `json:"notifyCandidate" db:"notify_candidate"`
	NotifyAdvisor   bool      `json:"notifyAdvisor" db:"notify_advisor"`
	NotifyPartner   bool      `json:"notifyPartner" db:"notify_partner"`
	DecidedAt       time.Time `json:"decidedAt" db:"decided_at"`
}

// Redirection sends a candidate to a partner organization. One per redirected decision.
type Redirection struct {
	ID          string    `json:"id" db:"id"`
	DecisionID  string    `json:"decisionId" db:"decision_id"`
	CandidateID string    `json:"candidateId" db:"candidate_id"`
	PartnerID   string    `json:"partnerId" db:"partner_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
