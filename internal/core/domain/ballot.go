package domain

import "time"

// Ballot is the immutable record of one voter's choice in one election.
// Exactly one exists per (voter, election) pair; the conditional mark-voted
// update on the voter document enforces that before any ballot is written.
type Ballot struct {
	ID          string    `json:"id" bson:"id"`
	VoterID     string    `json:"voter_id" bson:"voter_id"`
	ElectionID  string    `json:"election_id" bson:"election_id"`
	CandidateID string    `json:"candidate_id" bson:"candidate_id"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}
