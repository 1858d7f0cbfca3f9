package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

// AdminService serves the admin tooling: election and candidate management
// plus the read-only reporting surface (results, stats, anomaly report).
type AdminService struct {
	elections  ports.ElectionRepository
	candidates ports.CandidateRepository
	voters     ports.VoterRepository
	ballots    ports.BallotRepository
	detector   ports.AnomalyDetector
	log        zerolog.Logger
}

func NewAdminService(
	elections ports.ElectionRepository,
	candidates ports.CandidateRepository,
	voters ports.VoterRepository,
	ballots ports.BallotRepository,
	detector ports.AnomalyDetector,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		elections:  elections,
		candidates: candidates,
		voters:     voters,
		ballots:    ballots,
		detector:   detector,
		log:        log,
	}
}

func (s *AdminService) CreateElection(ctx context.Context, input ports.CreateElectionInput) (*domain.Election, error) {
	election := &domain.Election{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate.UTC(),
		EndDate:     input.EndDate.UTC(),
		Status:      domain.ElectionStatusActive,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.elections.Create(ctx, election); err != nil {
		return nil, err
	}
	s.log.Info().Str("election_id", election.ID).Str("title", election.Title).Msg("election created")
	return election, nil
}

func (s *AdminService) ListElections(ctx context.Context) ([]domain.Election, error) {
	return s.elections.List(ctx)
}

func (s *AdminService) CreateCandidate(ctx context.Context, input ports.CreateCandidateInput) (*domain.Candidate, error) {
	if _, err := s.elections.FindByID(ctx, input.ElectionID); err != nil {
		return nil, err
	}
	candidate := &domain.Candidate{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Party:      input.Party,
		ElectionID: input.ElectionID,
		ImageURL:   input.ImageURL,
	}
	if err := s.candidates.Create(ctx, candidate); err != nil {
		return nil, err
	}
	s.log.Info().Str("candidate_id", candidate.ID).Str("election_id", candidate.ElectionID).Msg("candidate added")
	return candidate, nil
}

func (s *AdminService) DeleteCandidate(ctx context.Context, id string) error {
	return s.candidates.Delete(ctx, id)
}

func (s *AdminService) ListVoters(ctx context.Context) ([]domain.Voter, error) {
	return s.voters.List(ctx)
}

// Results derives the per-election tally by counting ballots. TotalVotes is
// taken from the ballot count itself, so the sum of candidate counts always
// equals the number of recorded ballots.
func (s *AdminService) Results(ctx context.Context, electionID string) (*ports.ElectionResults, error) {
	if _, err := s.elections.FindByID(ctx, electionID); err != nil {
		return nil, err
	}

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
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].VoteCount > candidates[b].VoteCount
	})

	total, err := s.ballots.CountByElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return &ports.ElectionResults{Candidates: candidates, TotalVotes: total}, nil
}

func (s *AdminService) Stats(ctx context.Context) (*ports.SystemStats, error) {
	voters, err := s.voters.Count(ctx)
	if err != nil {
		return nil, err
	}
	elections, err := s.elections.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.elections.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	ballots, err := s.ballots.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.SystemStats{
		TotalVoters:     voters,
		TotalElections:  elections,
		ActiveElections: active,
		TotalBallots:    ballots,
	}, nil
}

// DetectFraud triggers the advisory anomaly pass. Detector failures have
// already been degraded to an empty report by the detector itself.
func (s *AdminService) DetectFraud(ctx context.Context) ([]domain.Ballot, error) {
	return s.detector.DetectAnomalies(ctx)
}
