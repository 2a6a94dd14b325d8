package models

import "time"

// Admission follows an accepted pre-application. At most one per pre-application.
type Admission struct {
	ID               string          `json:"id" db:"id"`
	PreApplicationID string          `json:"preApplicationId" db:"pre_application_id"`
	CandidateID      string          `json:"candidateId" db:"candidate_id"`
	ProgramID        string          `json:"programId" db:"program_id"`
	CohortID         *string         `json:"cohortId,omitempty" db:"cohort_id"`
	AdvisorIDs       []string        `json:"advisorIds,omitempty" db:"advisor_ids"`
	Status           AdmissionStatus `json:"status" db:"status"`
	AdmittedAt       time.Time       `json:"admittedAt" db:"admitted_at"`
}

// PipelineStage is a stage template of a program.
type PipelineStage struct {
	ID        string `json:"id" db:"id"`
	ProgramID string `json:"programId" db:"program_id"`
	Code      string `json:"code" db:"code"`
	Label     string `json:"label" db:"label"`
	Sequence  int    `json:"sequence" db:"sequence"`
	Active    bool   `json:"active" db:"active"`
}

// StageProgress tracks one stage for one admission.
type StageProgress struct {
	ID          string     `json:"id" db:"id"`
	AdmissionID string     `json:"admissionId" db:"admission_id"`
	StageID     string     `json:"stageId" db:"stage_id"`
	StageCode   string     `json:"stageCode,omitempty"`
	StageLabel  string     `json:"stageLabel,omitempty"`
	Sequence    int        `json:"sequence"`
	State       StageState `json:"state" db:"state"`
	StartedAt   *time.Time `json:"startedAt,omitempty" db:"started_at"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty" db:"finished_at"`
}
