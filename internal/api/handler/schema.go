package handler

import (
	"time"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// --- Request types ---

type registerVoterRequest struct {
	Name      string `json:"name" validate:"required"`
	Aadhaar   string `json:"aadhaar" validate:"required,len=12,numeric"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FaceImage string `json:"face_image,omitempty"`
}

type loginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FaceImage string `json:"face_image,omitempty"`
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type castVoteRequest struct {
	ElectionID  string `json:"election_id" validate:"required"`
	CandidateID string `json:"candidate_id" validate:"required"`
	FaceImage   string `json:"face_image,omitempty"`
}

type createElectionRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

type createCandidateRequest struct {
	Name       string `json:"name" validate:"required"`
	Party      string `json:"party"`
	ElectionID string `json:"election_id" validate:"required"`
	ImageURL   string `json:"image_url"`
}

// --- Response types ---

// voterView hides credential and biometric material from API responses.
type voterView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Aadhaar   string    `json:"aadhaar"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Enrolled  bool      `json:"biometric_enrolled"`
	CreatedAt time.Time `json:"created_at"`
}

func newVoterView(v *domain.Voter) voterView {
	return voterView{
		ID:        v.ID,
		Name:      v.Name,
		Aadhaar:   maskAadhaar(v.Aadhaar),
		Email:     v.Email,
		Status:    v.Status,
		Enrolled:  v.HasBiometric(),
		CreatedAt: v.CreatedAt,
	}
}

// maskAadhaar keeps only the last four digits.
func maskAadhaar(aadhaar string) string {
	if len(aadhaar) <= 4 {
		return aadhaar
	}
	masked := make([]byte, len(aadhaar))
	for i := range masked {
		masked[i] = 'X'
	}
	copy(masked[len(masked)-4:], aadhaar[len(aadhaar)-4:])
	return string(masked)
}

type authResponse struct {
	Token string    `json:"token"`
	Voter voterView `json:"voter"`
}

type adminAuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type castVoteResponse struct {
	BallotID         string    `json:"ballot_id"`
	ElectionID       string    `json:"election_id"`
	Timestamp        time.Time `json:"timestamp"`
	BiometricSkipped bool      `json:"biometric_skipped"`
}

type voteStatusResponse struct {
	ElectionID string `json:"election_id"`
	Voted      bool   `json:"voted"`
}

type electionResultsResponse struct {
	ElectionID string             `json:"election_id"`
	Candidates []domain.Candidate `json:"candidates"`
	TotalVotes int64              `json:"total_votes"`
}

type fraudReportResponse struct {
	Flagged []domain.Ballot `json:"flagged_ballots"`
	Count   int             `json:"count"`
}
