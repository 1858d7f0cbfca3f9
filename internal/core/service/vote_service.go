package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/api/metrics"
	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

// VoteStatusCache is the advisory read-path cache for vote status lookups.
// It is never consulted for the double-vote decision; the conditional update
// on the voter document is the only correctness boundary.
type VoteStatusCache interface {
	// Lookup reports (voted, found): found is false on a cache miss.
	Lookup(ctx context.Context, voterID, electionID string) (bool, bool, error)
	Mark(ctx context.Context, voterID, electionID string) error
}

// VoteService is the ballot ledger. It runs the cast-vote pipeline
// (eligibility, optional biometric re-verification, atomic once-only
// recording) and serves the voter-facing read surface.
type VoteService struct {
	voters      ports.VoterRepository
	ballots     ports.BallotRepository
	elections   ports.ElectionRepository
	candidates  ports.CandidateRepository
	eligibility ports.EligibilityChecker
	identity    ports.IdentityGate
	cache       VoteStatusCache
	now         func() time.Time
	log         zerolog.Logger
}

func NewVoteService(
	voters ports.VoterRepository,
	ballots ports.BallotRepository,
	elections ports.ElectionRepository,
	candidates ports.CandidateRepository,
	eligibility ports.EligibilityChecker,
	identity ports.IdentityGate,
	cache VoteStatusCache,
	log zerolog.Logger,
) *VoteService {
	return &VoteService{
		voters:      voters,
		ballots:     ballots,
		elections:   elections,
		candidates:  candidates,
		eligibility: eligibility,
		identity:    identity,
		cache:       cache,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// CastVote records exactly one ballot for (voter, election) or fails. The
// write protocol is strict: the atomic conditional mark-voted update commits
// first, the ballot insert follows, and a failed insert triggers a
// compensating unmark so no voter is left marked without a ballot.
func (s *VoteService) CastVote(ctx context.Context, input ports.CastVoteInput) (*ports.CastVoteResult, error) {
	result, err := s.castVote(ctx, input)
	if err != nil {
		metrics.VotesRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
	}
	return result, err
}

func (s *VoteService) castVote(ctx context.Context, input ports.CastVoteInput) (*ports.CastVoteResult, error) {
	voter, err := s.voters.FindByID(ctx, input.VoterID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.eligibility.Validate(ctx, voter, input.ElectionID, input.CandidateID, now); err != nil {
		return nil, err
	}

	// Biometric step. No probe submitted means no re-verification; the
	// system supports biometric-optional voting. With a probe, the identity
	// gate still skips when the voter never enrolled a template.
	skipped := true
	if input.FaceImage != "" {
		outcome, err := s.identity.VerifyBiometric(ctx, voter.FaceEmbedding, input.FaceImage)
		if err != nil {
			return nil, err
		}
		skipped = outcome.Skipped
	} else {
		s.log.Debug().Str("voter_id", voter.ID).Msg("no probe submitted, biometric step skipped")
	}

	// The one mutual-exclusion point: a single conditional update that adds
	// the election to the voted-set only if absent. Under N concurrent calls
	// for the same (voter, election), exactly one observes modified=true.
	marked, err := s.voters.ConditionalMarkVoted(ctx, voter.ID, input.ElectionID)
	if err != nil {
		return nil, fmt.Errorf("cast vote: mark voted: %w", err)
	}
	if !marked {
		return nil, domain.ErrAlreadyVoted
	}

	ballot := &domain.Ballot{
		ID:          uuid.NewString(),
		VoterID:     voter.ID,
		ElectionID:  input.ElectionID,
		CandidateID: input.CandidateID,
		Timestamp:   now,
	}
	if err := s.ballots.Insert(ctx, ballot); err != nil {
		// Voter marked but no ballot written: compensate immediately or the
		// rolls and the ledger disagree forever.
		if rbErr := s.voters.UnmarkVoted(ctx, voter.ID, input.ElectionID); rbErr != nil {
			s.log.Error().Err(rbErr).
				Str("voter_id", voter.ID).
				Str("election_id", input.ElectionID).
				Msg("integrity violation: ballot insert and compensating unmark both failed")
		}
		return nil, fmt.Errorf("cast vote: insert ballot: %w", err)
	}

	if err := s.cache.Mark(ctx, voter.ID, input.ElectionID); err != nil {
		s.log.Warn().Err(err).Str("voter_id", voter.ID).Msg("vote-status cache update failed")
	}

	metrics.BallotsCastTotal.Inc()
	s.log.Info().
		Str("voter_id", voter.ID).
		Str("election_id", input.ElectionID).
		Bool("biometric_skipped", skipped).
		Msg("ballot recorded")

	return &ports.CastVoteResult{
		BallotID:         ballot.ID,
		Timestamp:        ballot.Timestamp,
		BiometricSkipped: skipped,
	}, nil
}

// CheckVoteStatus reports whether the voter has cast a ballot in the
// election. Repeated calls return the same boolean and never mutate the
// ledger; only positive results are cached since they are final.
func (s *VoteService) CheckVoteStatus(ctx context.Context, voterID, electionID string) (bool, error) {
	voted, found, err := s.cache.Lookup(ctx, voterID, electionID)
	if err != nil {
		s.log.Warn().Err(err).Msg("vote-status cache lookup failed, falling back to store")
	} else if found && voted {
		return true, nil
	}

	voter, err := s.voters.FindByID(ctx, voterID)
	if err != nil {
		return false, err
	}

	voted = voter.HasVotedIn(electionID)
	if voted {
		if err := s.cache.Mark(ctx, voterID, electionID); err != nil {
			s.log.Warn().Err(err).Msg("vote-status cache warm failed")
		}
	}
	return voted, nil
}

// ListActiveElections returns elections currently accepting attention from
// voters. Window filtering is the eligibility checker's job at cast time.
func (s *VoteService) ListActiveElections(ctx context.Context) ([]domain.Election, error) {
	return s.elections.ListActive(ctx)
}

// ListCandidates returns an election's candidates with vote counts derived
// from the ballot ledger.
func (s *VoteService) ListCandidates(ctx context.Context, electionID string) ([]domain.Candidate, error) {
	candidates, err := s.candidates.ListByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	tally, err := s.ballots.TallyByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		candidates[i].VoteCount = tally[candidates[i].ID]
	}
	return candidates, nil
}

// rejectReason maps a cast-vote failure to its metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, domain.ErrVoterInactive):
		return "voter_inactive"
	case errors.Is(err, domain.ErrVoterNotFound):
		return "voter_not_found"
	case errors.Is(err, domain.ErrElectionNotFound):
		return "election_not_found"
	case errors.Is(err, domain.ErrElectionInactive):
		return "election_inactive"
	case errors.Is(err, domain.ErrElectionNotStarted):
		return "election_not_started"
	case errors.Is(err, domain.ErrElectionEnded):
		return "election_ended"
	case errors.Is(err, domain.ErrCandidateMismatch):
		return "candidate_mismatch"
	case errors.Is(err, domain.ErrBiometricMismatch):
		return "biometric_mismatch"
	case errors.Is(err, domain.ErrBiometricTimeout):
		return "biometric_timeout"
	case errors.Is(err, domain.ErrImageDecode):
		return "image_decode"
	case errors.Is(err, domain.ErrNoFaceDetected):
		return "no_face_detected"
	default:
		return "internal"
	}
}
