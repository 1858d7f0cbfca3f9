package ports

import (
	"context"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// ElectionRepository defines persistence operations for elections.
// The voting core only reads; creation comes from admin tooling.
type ElectionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Election, error)
	Create(ctx context.Context, election *domain.Election) error
	ListActive(ctx context.Context) ([]domain.Election, error)
	List(ctx context.Context) ([]domain.Election, error)
	CountActive(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// CandidateRepository defines persistence operations for candidates.
type CandidateRepository interface {
	// FindInElection returns the candidate only when its election_id matches
	// electionID; a candidate registered in another election is not found.
	FindInElection(ctx context.Context, id, electionID string) (*domain.Candidate, error)
	ListByElection(ctx context.Context, electionID string) ([]domain.Candidate, error)
	Create(ctx context.Context, candidate *domain.Candidate) error
	Delete(ctx context.Context, id string) error
}
