package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

// EligibilityService validates voter, election, and candidate state against
// the current time before a ballot may be recorded.
type EligibilityService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	log        zerolog.Logger
}

func NewEligibilityService(elections ports.ElectionRepository, candidates ports.CandidateRepository, log zerolog.Logger) *EligibilityService {
	return &EligibilityService{elections: elections, candidates: candidates, log: log}
}

// Validate reports the first applicable failure in a fixed order. The order
// determines which message a caller sees when several conditions are violated
// at once, so it must not be rearranged:
//
//  1. voter inactive
//  2. election not found
//  3. election inactive
//  4. election not started
//  5. election ended
//  6. candidate mismatch
func (s *EligibilityService) Validate(ctx context.Context, voter *domain.Voter, electionID, candidateID string, now time.Time) error {
	if !voter.IsActive() {
		return domain.ErrVoterInactive
	}

	election, err := s.elections.FindByID(ctx, electionID)
	if err != nil {
		return err
	}
	if !election.IsActive() {
		return domain.ErrElectionInactive
	}
	if !election.Started(now) {
		return domain.ErrElectionNotStarted
	}
	if election.Ended(now) {
		return domain.ErrElectionEnded
	}

	if _, err := s.candidates.FindInElection(ctx, candidateID, electionID); err != nil {
		if err == domain.ErrCandidateNotFound {
			return domain.ErrCandidateMismatch
		}
		return err
	}
	return nil
}
