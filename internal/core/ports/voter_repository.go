package ports

import (
	"context"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// VoterRepository defines persistence operations on the voter rolls.
type VoterRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Voter, error)
	FindByEmail(ctx context.Context, email string) (*domain.Voter, error)
	FindByAadhaar(ctx context.Context, aadhaar string) (*domain.Voter, error)
	Create(ctx context.Context, voter *domain.Voter) error
	// List returns all voters. Callers are responsible for stripping
	// credential material before anything leaves the process.
	List(ctx context.Context) ([]domain.Voter, error)
	Count(ctx context.Context) (int64, error)

	// ConditionalMarkVoted adds electionID to the voter's voted-set only if it
	// is not already present, as a single atomic conditional update. It
	// returns true when the update applied and false when the voter had
	// already voted in that election. This is the sole mutual-exclusion point
	// preventing double voting; it must be linearizable per (voter, election).
	ConditionalMarkVoted(ctx context.Context, voterID, electionID string) (bool, error)

	// UnmarkVoted removes electionID from the voted-set. Used only as a
	// compensating write when the ballot insert fails after a successful
	// ConditionalMarkVoted.
	UnmarkVoted(ctx context.Context, voterID, electionID string) error
}

// AdminRepository defines persistence for administrative accounts.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
}
