package ports

import (
	"context"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// BallotRepository defines persistence for immutable ballot records.
type BallotRepository interface {
	Insert(ctx context.Context, ballot *domain.Ballot) error
	// List returns a snapshot of all recorded ballots, ordered by timestamp.
	// The anomaly detector reads this snapshot and never takes ledger locks.
	List(ctx context.Context) ([]domain.Ballot, error)
	// TallyByElection derives per-candidate vote counts by counting ballots.
	// There is no independently-updated counter to drift from.
	TallyByElection(ctx context.Context, electionID string) (map[string]int64, error)
	CountByElection(ctx context.Context, electionID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}
