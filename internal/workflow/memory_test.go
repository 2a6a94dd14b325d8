package workflow

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/models"
)

// memDB is an in-memory Tx. memTransactor snapshots it before each transaction and
// restores the snapshot when fn fails.
type memDB struct {
	candidates      map[string]models.Candidate
	companies       map[string]models.Company // by candidate
	programs        map[string]models.Program
	preApplications map[string]models.PreApplication
	assessments     map[string]models.EligibilityAssessment // by pre-application
	admissions      map[string]models.Admission
	stages          map[string]models.PipelineStage
	progress        map[string]models.StageProgress
	sessions        map[string]models.JurySession
	decisions       map[string]models.JuryDecision
	redirections    map[string]models.Redirection
}

func newMemDB() *memDB {
	return &memDB{
		candidates:      map[string]models.Candidate{},
		companies:       map[string]models.Company{},
		programs:        map[string]models.Program{},
		preApplications: map[string]models.PreApplication{},
		assessments:     map[string]models.EligibilityAssessment{},
		admissions:      map[string]models.Admission{},
		stages:          map[string]models.PipelineStage{},
		progress:        map[string]models.StageProgress{},
		sessions:        map[string]models.JurySession{},
		decisions:       map[string]models.JuryDecision{},
		redirections:    map[string]models.Redirection{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memDB) clone() *memDB {
	return &memDB{
		candidates:      cloneMap(m.candidates),
		companies:       cloneMap(m.companies),
		programs:        cloneMap(m.programs),
		preApplications: cloneMap(m.preApplications),
		assessments:     cloneMap(m.assessments),
		admissions:      cloneMap(m.admissions),
		stages:          cloneMap(m.stages),
		progress:        cloneMap(m.progress),
		sessions:        cloneMap(m.sessions),
		decisions:       cloneMap(m.decisions),
		redirections:    cloneMap(m.redirections),
	}
}

type memTransactor struct {
	db   *memDB
	txs  int
	wrap func(*memDB) Tx
}

func (t *memTransactor) WithTx(_ context.Context, fn func(Tx) error) error {
	t.txs++
	work := t.db.clone()
	var tx Tx = work
	if t.wrap != nil {
		tx = t.wrap(work)
	}
	if err := fn(tx); err != nil {
		return err
	}
	t.db = work
	return nil
}

// statusWriteFails makes every candidate status projection fail.
type statusWriteFails struct {
	*memDB
}

func (statusWriteFails) UpdateCandidateStatus(context.Context, string, models.Decision, time.Time) error {
	return apperrors.NewDatabaseError("update candidate status", errLookupDown)
}

func (m *memDB) GetCandidate(_ context.Context, id string) (*models.Candidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("candidate", id)
	}
	return &c, nil
}

func (m *memDB) FindCandidateByEmail(_ context.Context, email string) (*models.Candidate, error) {
	for _, c := range m.candidates {
		if strings.EqualFold(c.Email, email) {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memDB) InsertCandidate(_ context.Context, c *models.Candidate) error {
	for _, existing := range m.candidates {
		if strings.EqualFold(existing.Email, c.Email) {
			return apperrors.NewConflictError("candidate", c.Email)
		}
	}
	m.candidates[c.ID] = *c
	return nil
}

func (m *memDB) UpdateCandidateStatus(_ context.Context, id string, status models.Decision, at time.Time) error {
	c, ok := m.candidates[id]
	if !ok {
		return apperrors.NewNotFoundError("candidate", id)
	}
	c.Status, c.UpdatedAt = status, at
	m.candidates[id] = c
	return nil
}

func (m *memDB) GetCompanyByCandidate(_ context.Context, candidateID string) (*models.Company, error) {
	c, ok := m.companies[candidateID]
	if !ok {
		return nil, apperrors.NewNotFoundError("company", candidateID)
	}
	return &c, nil
}

func (m *memDB) InsertCompany(_ context.Context, c *models.Company) error {
	if _, ok := m.companies[c.CandidateID]; ok {
		return apperrors.NewConflictError("company", c.CandidateID)
	}
	m.companies[c.CandidateID] = *c
	return nil
}

func (m *memDB) UpdateCompany(_ context.Context, c *models.Company) error {
	if _, ok := m.companies[c.CandidateID]; !ok {
		return apperrors.NewNotFoundError("company", c.ID)
	}
	m.companies[c.CandidateID] = *c
	return nil
}

func (m *memDB) GetProgram(_ context.Context, id string) (*models.Program, error) {
	p, ok := m.programs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("program", id)
	}
	return &p, nil
}

func (m *memDB) GetPreApplication(_ context.Context, id string) (*models.PreApplication, error) {
	p, ok := m.preApplications[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("pre-application", id)
	}
	return &p, nil
}

func (m *memDB) FindPreApplication(_ context.Context, candidateID, programID string) (*models.PreApplication, error) {
	for _, p := range m.preApplications {
		if p.CandidateID == candidateID && p.ProgramID == programID {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memDB) InsertPreApplication(ctx context.Context, p *models.PreApplication) error {
	if existing, _ := m.FindPreApplication(ctx, p.CandidateID, p.ProgramID); existing != nil {
		return apperrors.NewConflictError("pre-application", p.CandidateID+"/"+p.ProgramID)
	}
	m.preApplications[p.ID] = *p
	return nil
}

func (m *memDB) UpdatePreApplicationStatus(_ context.Context, id string, status models.PreApplicationStatus, at time.Time) error {
	p, ok := m.preApplications[id]
	if !ok {
		return apperrors.NewNotFoundError("pre-application", id)
	}
	p.Status, p.UpdatedAt = status, at
	m.preApplications[id] = p
	return nil
}

func (m *memDB) GetScoringSnapshot(ctx context.Context, id string) (*models.ScoringSnapshot, error) {
	pa, err := m.GetPreApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := m.GetCandidate(ctx, pa.CandidateID)
	if err != nil {
		return nil, err
	}
	co, err := m.GetCompanyByCandidate(ctx, pa.CandidateID)
	if err != nil {
		return nil, err
	}
	p, err := m.GetProgram(ctx, pa.ProgramID)
	if err != nil {
		return nil, err
	}
	return &models.ScoringSnapshot{PreApplication: *pa, Candidate: *c, Company: *co, Program: *p}, nil
}

func (m *memDB) UpsertAssessment(_ context.Context, a *models.EligibilityAssessment) error {
	if existing, ok := m.assessments[a.PreApplicationID]; ok {
		a.ID = existing.ID
	}
	m.assessments[a.PreApplicationID] = *a
	return nil
}

func (m *memDB) GetAssessment(_ context.Context, preApplicationID string) (*models.EligibilityAssessment, error) {
	a, ok := m.assessments[preApplicationID]
	if !ok {
		return nil, apperrors.NewNotFoundError("eligibility assessment", preApplicationID)
	}
	return &a, nil
}

func (m *memDB) FindAdmissionByPreApplication(_ context.Context, preApplicationID string) (*models.Admission, error) {
	for _, a := range m.admissions {
		if a.PreApplicationID == preApplicationID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memDB) InsertAdmission(_ context.Context, a *models.Admission) error {
	m.admissions[a.ID] = *a
	return nil
}

func (m *memDB) ListActiveStages(_ context.Context, programID string) ([]models.PipelineStage, error) {
	var out []models.PipelineStage
	for _, s := range m.stages {
		if s.ProgramID == programID && s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (m *memDB) InsertStageProgress(_ context.Context, p *models.StageProgress) error {
	m.progress[p.ID] = *p
	return nil
}

func (m *memDB) GetStageProgress(_ context.Context, id string) (*models.StageProgress, error) {
	p, ok := m.progress[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("stage progress", id)
	}
	return &p, nil
}

func (m *memDB) UpdateStageProgress(_ context.Context, p *models.StageProgress) error {
	m.progress[p.ID] = *p
	return nil
}

func (m *memDB) ListStageProgress(_ context.Context, admissionID string) ([]models.StageProgress, error) {
	var out []models.StageProgress
	for _, p := range m.progress {
		if p.AdmissionID == admissionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memDB) GetJurySession(_ context.Context, id string) (*models.JurySession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("jury session", id)
	}
	return &s, nil
}

func (m *memDB) FindJuryDecision(_ context.Context, candidateID, sessionID string) (*models.JuryDecision, error) {
	for _, d := range m.decisions {
		if d.CandidateID == candidateID && d.SessionID == sessionID {
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memDB) GetJuryDecision(_ context.Context, id string) (*models.JuryDecision, error) {
	d, ok := m.decisions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("jury decision", id)
	}
	return &d, nil
}

func (m *memDB) InsertJuryDecision(ctx context.Context, d *models.JuryDecision) error {
	if existing, _ := m.FindJuryDecision(ctx, d.CandidateID, d.SessionID); existing != nil {
		return apperrors.NewConflictError("jury decision", d.CandidateID+"/"+d.SessionID)
	}
	m.decisions[d.ID] = *d
	return nil
}

func (m *memDB) UpdateJuryDecision(_ context.Context, d *models.JuryDecision) error {
	m.decisions[d.ID] = *d
	return nil
}

func (m *memDB) DeleteJuryDecision(_ context.Context, id string) error {
	if _, ok := m.decisions[id]; !ok {
		return apperrors.NewNotFoundError("jury decision", id)
	}
	delete(m.decisions, id)
	return nil
}

func (m *memDB) CountRedirections(_ context.Context, decisionID string) (int, error) {
	n := 0
	for _, r := range m.redirections {
		if r.DecisionID == decisionID {
			n++
		}
	}
	return n, nil
}

func (m *memDB) InsertRedirection(_ context.Context, r *models.Redirection) error {
	for _, existing := range m.redirections {
		if existing.DecisionID == r.DecisionID {
			return apperrors.NewConflictError("redirection", r.DecisionID)
		}
	}
	m.redirections[r.ID] = *r
	return nil
}

func (m *memDB) DeleteRedirections(_ context.Context, decisionID string) (int64, error) {
	var n int64
	for id, r := range m.redirections {
		if r.DecisionID == decisionID {
			delete(m.redirections, id)
			n++
		}
	}
	return n, nil
}

var errLookupDown = errors.New("connection refused")
