package storage

import (
	"context"
	"errors"

	"github.com/talenthive/hrbot-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")

// TalentStore defines the operations the bot needs from the talent
// data service. Implementations: MemoryStore (testing/dev),
// DatabaseStore (PostgreSQL) and recruit.Client (remote Zoho Recruit).
type TalentStore interface {
	// Job operations
	ListOpenJobs(ctx context.Context) ([]*models.JobOpening, error)
	GetJob(ctx context.Context, id string) (*models.JobOpening, error)

	// Candidate operations
	SearchCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error)
	ListApplications(ctx context.Context, candidateID string) ([]*models.Application, error)
	CreateCandidate(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error)

	// Associate links an existing candidate with a job opening.
	Associate(ctx context.Context, candidateID, jobID, status, comments string) error
}

// IsNotFound reports whether err means the record was absent rather
// than the store failing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
