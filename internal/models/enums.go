package models

import (
	apperrors "coaching-workers/internal/common/errors"
)

// Verdict is the overall eligibility outcome.
type Verdict string

const (
	VerdictOK        Verdict = "ok"
	VerdictAttention Verdict = "attention"
	VerdictKO        Verdict = "ko"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictOK, VerdictAttention, VerdictKO:
		return true
	}
	return false
}

func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	if !v.Valid() {
		return "", apperrors.NewValidationError("verdict", "unknown verdict: "+s)
	}
	return v, nil
}

// ZoneStatus is the equity-zone classification of an address or a company.
type ZoneStatus string

const (
	ZoneNone     ZoneStatus = "none"
	ZoneAdjacent ZoneStatus = "zone_adjacent"
	ZoneInside   ZoneStatus = "zone"
)

func (z ZoneStatus) Valid() bool {
	switch z {
	case ZoneNone, ZoneAdjacent, ZoneInside:
		return true
	}
	return false
}

// Rank orders statuses so that zone > zone_adjacent > none.
func (z ZoneStatus) Rank() int {
	switch z {
	case ZoneInside:
		return 2
	case ZoneAdjacent:
		return 1
	default:
		return 0
	}
}

func ParseZoneStatus(s string) (ZoneStatus, error) {
	z := ZoneStatus(s)
	if !z.Valid() {
		return "", apperrors.NewValidationError("zoneStatus", "unknown zone status: "+s)
	}
	return z, nil
}

// StageState is the progress state of one pipeline stage.
type StageState string

const (
	StageTodo       StageState = "todo"
	StageInProgress StageState = "in_progress"
	StageDone       StageState = "done"
	StageSkipped    StageState = "skipped"
)

func (s StageState) Valid() bool {
	switch s {
	case StageTodo, StageInProgress, StageDone, StageSkipped:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s StageState) Terminal() bool {
	return s == StageDone || s == StageSkipped
}

func ParseStageState(s string) (StageState, error) {
	st := StageState(s)
	if !st.Valid() {
		return "", apperrors.NewInvalidTransitionError("", s)
	}
	return st, nil
}

// Decision is the jury outcome for a candidate. Candidate.Status projects the latest one.
type Decision string

const (
	DecisionPending    Decision = "pending"
	DecisionAccepted   Decision = "accepted"
	DecisionRedirected Decision = "redirected"
	DecisionRejected   Decision = "rejected"
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionPending, DecisionAccepted, DecisionRedirected, DecisionRejected:
		return true
	}
	return false
}

func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	if !d.Valid() {
		return "", apperrors.NewValidationError("decision", "unknown decision: "+s)
	}
	return d, nil
}

// PreApplicationStatus is the lifecycle of a pre-application.
type PreApplicationStatus string

const (
	PreApplicationSubmitted   PreApplicationStatus = "submitted"
	PreApplicationUnderReview PreApplicationStatus = "under_review"
	PreApplicationCompleted   PreApplicationStatus = "completed"
	PreApplicationWithdrawn   PreApplicationStatus = "withdrawn"
)

func (p PreApplicationStatus) Valid() bool {
	switch p {
	case PreApplicationSubmitted, PreApplicationUnderReview, PreApplicationCompleted, PreApplicationWithdrawn:
		return true
	}
	return false
}

// CanMoveTo reports whether the lifecycle allows p -> next.
func (p PreApplicationStatus) CanMoveTo(next PreApplicationStatus) bool {
	switch p {
	case PreApplicationSubmitted:
		return next == PreApplicationUnderReview || next == PreApplicationCompleted || next == PreApplicationWithdrawn
	case PreApplicationUnderReview:
		return next == PreApplicationUnderReview || next == PreApplicationCompleted || next == PreApplicationWithdrawn
	case PreApplicationCompleted, PreApplicationWithdrawn:
		return false
	}
	return false
}

func ParsePreApplicationStatus(s string) (PreApplicationStatus, error) {
	p := PreApplicationStatus(s)
	if !p.Valid() {
		return "", apperrors.NewValidationError("status", "unknown pre-application status: "+s)
	}
	return p, nil
}

// AdmissionStatus is the lifecycle of an admission.
type AdmissionStatus string

const (
	AdmissionActive    AdmissionStatus = "active"
	AdmissionCompleted AdmissionStatus = "completed"
	AdmissionAbandoned AdmissionStatus = "abandoned"
)

func (a AdmissionStatus) Valid() bool {
	switch a {
	case AdmissionActive, AdmissionCompleted, AdmissionAbandoned:
		return true
	}
	return false
}

func ParseAdmissionStatus(s string) (AdmissionStatus, error) {
	a := AdmissionStatus(s)
	if !a.Valid() {
		return "", apperrors.NewValidationError("status", "unknown admission status: "+s)
	}
	return a, nil
}
