package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/talenthive/hrbot-backend/internal/models"
)

// MemoryStore holds all talent data in memory for local runs and tests
type MemoryStore struct {
	jobs         map[string]*models.JobOpening
	candidates   map[string]*models.Candidate
	applications map[string]*models.Application

	// Mutexes for thread safety
	jobMu       sync.RWMutex
	candidateMu sync.RWMutex
	appMu       sync.RWMutex

	// Counters for ID generation
	jobCounter       int
	candidateCounter int
	appCounter       int
}

// NewMemoryStore creates a new in-memory talent store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:         make(map[string]*models.JobOpening),
		candidates:   make(map[string]*models.Candidate),
		applications: make(map[string]*models.Application),
	}
}

// AddJob seeds a job opening (for dev mode and tests)
func (m *MemoryStore) AddJob(job *models.JobOpening) *models.JobOpening {
	m.jobMu.Lock()
	defer m.jobMu.Unlock()

	if job.ID == "" {
		m.jobCounter++
		job.ID = fmt.Sprintf("JOB%05d", m.jobCounter)
	}
	if job.Status == "" {
		job.Status = models.JobStatusOpen
	}
	job.CreatedAt = time.Now()
	job.UpdatedAt = time.Now()

	m.jobs[job.ID] = job
	return job
}

func (m *MemoryStore) ListOpenJobs(_ context.Context) ([]*models.JobOpening, error) {
	m.jobMu.RLock()
	defer m.jobMu.RUnlock()

	var jobs []*models.JobOpening
	for _, job := range m.jobs {
		if job.Status == models.JobStatusOpen {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *MemoryStore) GetJob(_ context.Context, id string) (*models.JobOpening, error) {
	m.jobMu.RLock()
	defer m.jobMu.RUnlock()

	job, exists := m.jobs[id]
	if !exists {
		return nil, ErrNotFound
	}
	return job, nil
}

func (m *MemoryStore) SearchCandidateByEmail(_ context.Context, email string) (*models.Candidate, error) {
	m.candidateMu.RLock()
	defer m.candidateMu.RUnlock()

	for _, candidate := range m.candidates {
		if candidate.Email == email {
			return candidate, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListApplications(_ context.Context, candidateID string) ([]*models.Application, error) {
	m.appMu.RLock()
	defer m.appMu.RUnlock()

	var apps []*models.Application
	for _, app := range m.applications {
		if app.CandidateID == candidateID {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (m *MemoryStore) CreateCandidate(_ context.Context, candidate *models.Candidate) (*models.Candidate, error) {
	m.candidateMu.Lock()
	defer m.candidateMu.Unlock()

	m.candidateCounter++
	created := *candidate
	created.ID = fmt.Sprintf("CAND%05d", m.candidateCounter)
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()

	m.candidates[created.ID] = &created
	return &created, nil
}

func (m *MemoryStore) Associate(ctx context.Context, candidateID, jobID, status, comments string) error {
	// Both sides must exist before linking
	m.candidateMu.RLock()
	_, exists := m.candidates[candidateID]
	m.candidateMu.RUnlock()
	if !exists {
		return fmt.Errorf("associate candidate %s: %w", candidateID, ErrNotFound)
	}

	job, err := m.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("associate job %s: %w", jobID, err)
	}

	m.appMu.Lock()
	defer m.appMu.Unlock()

	m.appCounter++
	now := time.Now()
	app := &models.Application{
		ID:          fmt.Sprintf("APP%05d", m.appCounter),
		CandidateID: candidateID,
		JobID:       jobID,
		JobTitle:    job.Title,
		Stage:       status,
		Comments:    comments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.applications[app.ID] = app
	return nil
}
