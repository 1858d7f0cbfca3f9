package ports

import (
	"context"
	"time"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// CastVoteInput is the DTO passed from the transport layer to the ledger.
type CastVoteInput struct {
	VoterID     string
	ElectionID  string
	CandidateID string
	// FaceImage is an optional base64-encoded raster image, possibly with a
	// data-URI prefix. Ignored for voters without an enrolled template.
	FaceImage string
}

// CastVoteResult is returned after a ballot has been recorded.
type CastVoteResult struct {
	BallotID         string
	Timestamp        time.Time
	BiometricSkipped bool
}

// VoteService is the ballot ledger plus the public read surface voters use.
type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) (*CastVoteResult, error)
	// CheckVoteStatus reports whether the voter already cast a ballot in the
	// election. Idempotent and side-effect-free on the ledger.
	CheckVoteStatus(ctx context.Context, voterID, electionID string) (bool, error)
	ListActiveElections(ctx context.Context) ([]domain.Election, error)
	ListCandidates(ctx context.Context, electionID string) ([]domain.Candidate, error)
}

// AnomalyDetector runs the offline scoring pass over recorded ballots.
// Strictly advisory: failures degrade to an empty report, never an error that
// could interfere with the cast-vote path.
type AnomalyDetector interface {
	DetectAnomalies(ctx context.Context) ([]domain.Ballot, error)
}
