package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/talenthive/hrbot-backend/internal/models"
)

// DatabaseStore implements TalentStore on PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed talent store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) ListOpenJobs(ctx context.Context) ([]*models.JobOpening, error) {
	var jobs []*models.JobOpening
	err := d.db.WithContext(ctx).
		Where("status = ?", models.JobStatusOpen).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	return jobs, nil
}

func (d *DatabaseStore) GetJob(ctx context.Context, id string) (*models.JobOpening, error) {
	var job models.JobOpening
	err := d.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &job, nil
}

func (d *DatabaseStore) SearchCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := d.db.WithContext(ctx).First(&candidate, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("search candidate by email: %w", err)
	}
	return &candidate, nil
}

func (d *DatabaseStore) ListApplications(ctx context.Context, candidateID string) ([]*models.Application, error) {
	var apps []*models.Application
	err := d.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("list applications for %s: %w", candidateID, err)
	}
	return apps, nil
}

func (d *DatabaseStore) CreateCandidate(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error) {
	created := *candidate
	if created.ID == "" {
		// Let the database assign sequential ids in the same shape the
		// memory store uses
		var count int64
		if err := d.db.WithContext(ctx).Model(&models.Candidate{}).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("create candidate: %w", err)
		}
		created.ID = fmt.Sprintf("CAND%05d", count+1)
	}
	if err := d.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	return &created, nil
}

func (d *DatabaseStore) Associate(ctx context.Context, candidateID, jobID, status, comments string) error {
	job, err := d.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("associate job %s: %w", jobID, err)
	}

	var count int64
	if err := d.db.WithContext(ctx).Model(&models.Application{}).Count(&count).Error; err != nil {
		return fmt.Errorf("associate: %w", err)
	}

	app := &models.Application{
		ID:          fmt.Sprintf("APP%05d", count+1),
		CandidateID: candidateID,
		JobID:       jobID,
		JobTitle:    job.Title,
		Stage:       status,
		Comments:    comments,
	}
	if err := d.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("associate candidate %s with job %s: %w", candidateID, jobID, err)
	}
	return nil
}
