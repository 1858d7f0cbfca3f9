package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// VoterStatusActive is the only status allowed to cast ballots.
const VoterStatusActive = "active"

// Voter models an enrolled voter. The voted-set (VotedElections) is the
// record of elections this voter has cast a ballot in; membership implies
// exactly one Ballot exists for that (voter, election) pair. Only the ballot
// ledger mutates it, through the conditional mark-voted update.
type Voter struct {
	ID             string    `json:"id" bson:"id"`
	Name           string    `json:"name" bson:"name"`
	Aadhaar        string    `json:"aadhaar" bson:"aadhaar"`
	Email          string    `json:"email" bson:"email"`
	PasswordHash   string    `json:"-" bson:"password_hash"`
	FaceEmbedding  []float64 `json:"-" bson:"face_embedding"`
	Status         string    `json:"status" bson:"status"`
	Voted          bool      `json:"voted" bson:"voted"`
	VotedElections []string  `json:"voted_elections" bson:"voted_elections"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// IsActive reports whether the voter may cast ballots.
func (v *Voter) IsActive() bool {
	return v.Status == VoterStatusActive
}

// HasBiometric reports whether a face template was enrolled at registration.
// Voters without one skip biometric re-verification entirely.
func (v *Voter) HasBiometric() bool {
	return len(v.FaceEmbedding) > 0
}

// HasVotedIn reports membership of electionID in the voted-set.
func (v *Voter) HasVotedIn(electionID string) bool {
	for _, id := range v.VotedElections {
		if id == electionID {
			return true
		}
	}
	return false
}

// Admin models an administrative account. Admins authenticate separately and
// never appear in the voter rolls.
type Admin struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// SessionClaim is the verified identity derived from a bearer token. It is
// never persisted; it exists only for the lifetime of a request.
type SessionClaim struct {
	SubjectID string
	Email     string
	Role      string
	ExpiresAt time.Time
}
