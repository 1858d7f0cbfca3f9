package service

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// memVoterRepo is an in-memory voter store. ConditionalMarkVoted holds a
// mutex across the check-and-set, mirroring the linearizable single-document
// update the Mongo repository performs.
type memVoterRepo struct {
	mu     sync.Mutex
	voters map[string]*domain.Voter
}

func newMemVoterRepo() *memVoterRepo {
	return &memVoterRepo{voters: make(map[string]*domain.Voter)}
}

func cloneVoter(v *domain.Voter) *domain.Voter {
	clone := *v
	clone.VotedElections = append([]string(nil), v.VotedElections...)
	clone.FaceEmbedding = append([]float64(nil), v.FaceEmbedding...)
	return &clone
}

func (r *memVoterRepo) add(v *domain.Voter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voters[v.ID] = cloneVoter(v)
}

func (r *memVoterRepo) FindByID(_ context.Context, id string) (*domain.Voter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.voters[id]
	if !ok {
		return nil, domain.ErrVoterNotFound
	}
	return cloneVoter(v), nil
}

func (r *memVoterRepo) FindByEmail(_ context.Context, email string) (*domain.Voter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.voters {
		if v.Email == email {
			return cloneVoter(v), nil
		}
	}
	return nil, domain.ErrVoterNotFound
}

func (r *memVoterRepo) FindByAadhaar(_ context.Context, aadhaar string) (*domain.Voter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.voters {
		if v.Aadhaar == aadhaar {
			return cloneVoter(v), nil
		}
	}
	return nil, domain.ErrVoterNotFound
}

func (r *memVoterRepo) Create(_ context.Context, voter *domain.Voter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voters[voter.ID] = cloneVoter(voter)
	return nil
}

func (r *memVoterRepo) List(_ context.Context) ([]domain.Voter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Voter, 0, len(r.voters))
	for _, v := range r.voters {
		out = append(out, *cloneVoter(v))
	}
	return out, nil
}

func (r *memVoterRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.voters)), nil
}

func (r *memVoterRepo) ConditionalMarkVoted(_ context.Context, voterID, electionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.voters[voterID]
	if !ok {
		return false, domain.ErrVoterNotFound
	}
	for _, id := range v.VotedElections {
		if id == electionID {
			return false, nil
		}
	}
	v.VotedElections = append(v.VotedElections, electionID)
	v.Voted = true
	return true, nil
}

func (r *memVoterRepo) UnmarkVoted(_ context.Context, voterID, electionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.voters[voterID]
	if !ok {
		return domain.ErrVoterNotFound
	}
	kept := v.VotedElections[:0]
	for _, id := range v.VotedElections {
		if id != electionID {
			kept = append(kept, id)
		}
	}
	v.VotedElections = kept
	return nil
}

// memBallotRepo stores ballots in insertion order. failInsert simulates a
// persistence failure after the conditional voter update has committed.
type memBallotRepo struct {
	mu         sync.Mutex
	ballots    []domain.Ballot
	failInsert error
}

func newMemBallotRepo() *memBallotRepo { return &memBallotRepo{} }

func (r *memBallotRepo) Insert(_ context.Context, ballot *domain.Ballot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert != nil {
		return r.failInsert
	}
	r.ballots = append(r.ballots, *ballot)
	return nil
}

func (r *memBallotRepo) List(_ context.Context) ([]domain.Ballot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Ballot(nil), r.ballots...), nil
}

func (r *memBallotRepo) TallyByElection(_ context.Context, electionID string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tally := make(map[string]int64)
	for _, b := range r.ballots {
		if b.ElectionID == electionID {
			tally[b.CandidateID]++
		}
	}
	return tally, nil
}

func (r *memBallotRepo) CountByElection(_ context.Context, electionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.ballots {
		if b.ElectionID == electionID {
			n++
		}
	}
	return n, nil
}

func (r *memBallotRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.ballots)), nil
}

type memElectionRepo struct {
	mu        sync.Mutex
	elections map[string]*domain.Election
}

func newMemElectionRepo() *memElectionRepo {
	return &memElectionRepo{elections: make(map[string]*domain.Election)}
}

func (r *memElectionRepo) add(e *domain.Election) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *e
	r.elections[e.ID] = &clone
}

func (r *memElectionRepo) FindByID(_ context.Context, id string) (*domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *memElectionRepo) Create(_ context.Context, election *domain.Election) error {
	r.add(election)
	return nil
}

func (r *memElectionRepo) ListActive(_ context.Context) ([]domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Election
	for _, e := range r.elections {
		if e.Status == domain.ElectionStatusActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memElectionRepo) List(_ context.Context) ([]domain.Election, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Election
	for _, e := range r.elections {
		out = append(out, *e)
	}
	return out, nil
}

func (r *memElectionRepo) CountActive(_ context.Context) (int64, error) {
	active, _ := r.ListActive(context.Background())
	return int64(len(active)), nil
}

func (r *memElectionRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.elections)), nil
}

type memCandidateRepo struct {
	mu         sync.Mutex
	candidates map[string]*domain.Candidate
}

func newMemCandidateRepo() *memCandidateRepo {
	return &memCandidateRepo{candidates: make(map[string]*domain.Candidate)}
}

func (r *memCandidateRepo) add(c *domain.Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.candidates[c.ID] = &clone
}

func (r *memCandidateRepo) FindInElection(_ context.Context, id, electionID string) (*domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[id]
	if !ok || c.ElectionID != electionID {
		return nil, domain.ErrCandidateNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memCandidateRepo) ListByElection(_ context.Context, electionID string) ([]domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Candidate
	for _, c := range r.candidates {
		if c.ElectionID == electionID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCandidateRepo) Create(_ context.Context, candidate *domain.Candidate) error {
	r.add(candidate)
	return nil
}

func (r *memCandidateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.candidates[id]; !ok {
		return domain.ErrCandidateNotFound
	}
	delete(r.candidates, id)
	return nil
}

type memAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*domain.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (r *memAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (r *memAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *admin
	r.admins[admin.ID] = &clone
	return nil
}

// memStatusCache is an in-memory VoteStatusCache.
type memStatusCache struct {
	mu    sync.Mutex
	voted map[string]bool
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{voted: make(map[string]bool)}
}

func (c *memStatusCache) Lookup(_ context.Context, voterID, electionID string) (bool, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.voted[voterID+":"+electionID]
	return v, ok, nil
}

func (c *memStatusCache) Mark(_ context.Context, voterID, electionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voted[voterID+":"+electionID] = true
	return nil
}

// stubExtractor returns a fixed vector for any image.
type stubExtractor struct {
	vec []float64
	err error
}

func (s *stubExtractor) Extract(_ context.Context, _ image.Image) ([]float64, error) {
	return s.vec, s.err
}

// stubScorer returns preset scores or an error.
type stubScorer struct {
	scores []float64
	err    error
}

func (s *stubScorer) Score(_ [][]float64) ([]float64, error) {
	return s.scores, s.err
}

func activeElection(id string, now time.Time) *domain.Election {
	return &domain.Election{
		ID:        id,
		Title:     "General Election",
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		Status:    domain.ElectionStatusActive,
		CreatedAt: now.Add(-24 * time.Hour),
	}
}

func activeVoter(id string) *domain.Voter {
	return &domain.Voter{
		ID:             id,
		Name:           "Test Voter",
		Aadhaar:        "123456789012",
		Email:          id + "@example.com",
		Status:         domain.VoterStatusActive,
		VotedElections: []string{},
	}
}
