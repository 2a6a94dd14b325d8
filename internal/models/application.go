package models

import (
	"encoding/json"
	"time"
)

// PreApplication is a candidate's application to one program. Unique per
// (candidate, program).
type PreApplication struct {
	ID          string               `json:"id" db:"id"`
	CandidateID string               `json:"candidateId" db:"candidate_id"`
	ProgramID   string               `json:"programId" db:"program_id"`
	FormData    json.RawMessage      `json:"formData,omitempty" db:"form_data"`
	Status      PreApplicationStatus `json:"status" db:"status"`
	SubmittedAt time.Time            `json:"submittedAt" db:"submitted_at"`
	UpdatedAt   time.Time            `json:"updatedAt" db:"updated_at"`
}

// EligibilityAssessment is the stored result of scoring a pre-application. It is
// overwritten in place on recomputation.
type EligibilityAssessment struct {
	ID               string           `json:"id" db:"id"`
	PreApplicationID string           `json:"preApplicationId" db:"pre_application_id"`
	RevenueOK        bool             `json:"revenueOk" db:"revenue_ok"`
	EquityZoneOK     bool             `json:"equityZoneOk" db:"equity_zone_ok"`
	TenureOK         bool             `json:"tenureOk" db:"tenure_ok"`
	TenureYears      *int             `json:"tenureYears,omitempty" db:"tenure_years"`
	Verdict          Verdict          `json:"verdict" db:"verdict"`
	Detail           AssessmentDetail `json:"detail" db:"detail"`
	AssessedAt       time.Time        `json:"assessedAt" db:"assessed_at"`
}

// ScoringSnapshot is everything needed to score a pre-application, read in one go.
type ScoringSnapshot struct {
	PreApplication PreApplication
	Candidate      Candidate
	Company        Company
	Program        Program
}

// AssessmentReport is the denormalised read model pushed to the search index.
type AssessmentReport struct {
	PreApplicationID string           `json:"preApplicationId"`
	CandidateID      string           `json:"candidateId"`
	CandidateName    string           `json:"candidateName"`
	ProgramCode      string           `json:"programCode"`
	Status           string           `json:"status"`
	Verdict          Verdict          `json:"verdict"`
	RevenueOK        bool             `json:"revenueOk"`
	EquityZoneOK     bool             `json:"equityZoneOk"`
	TenureOK         bool             `json:"tenureOk"`
	ZoneStatus       ZoneStatus       `json:"zoneStatus"`
	Detail           AssessmentDetail `json:"detail"`
	AssessedAt       time.Time        `json:"assessedAt"`
}
