package ports

import (
	"context"
	"time"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// CreateElectionInput carries the fields needed to open a new election.
type CreateElectionInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// CreateCandidateInput carries the fields needed to register a candidate.
type CreateCandidateInput struct {
	Name       string
	Party      string
	ElectionID string
	ImageURL   string
}

// ElectionResults is the derived per-election tally, sorted by votes
// descending. TotalVotes always equals the ballot count for the election.
type ElectionResults struct {
	Candidates []domain.Candidate
	TotalVotes int64
}

// SystemStats is the aggregate count view for the admin dashboard.
type SystemStats struct {
	TotalVoters     int64 `json:"total_voters"`
	TotalElections  int64 `json:"total_elections"`
	ActiveElections int64 `json:"active_elections"`
	TotalBallots    int64 `json:"total_ballots"`
}

// AdminService is the admin-facing surface: election and candidate CRUD plus
// the read-only reporting endpoints (results, stats, anomaly report).
type AdminService interface {
	CreateElection(ctx context.Context, input CreateElectionInput) (*domain.Election, error)
	ListElections(ctx context.Context) ([]domain.Election, error)
	CreateCandidate(ctx context.Context, input CreateCandidateInput) (*domain.Candidate, error)
	DeleteCandidate(ctx context.Context, id string) error
	ListVoters(ctx context.Context) ([]domain.Voter, error)
	Results(ctx context.Context, electionID string) (*ElectionResults, error)
	Stats(ctx context.Context) (*SystemStats, error)
	DetectFraud(ctx context.Context) ([]domain.Ballot, error)
}
