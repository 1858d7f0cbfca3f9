package domain

import "time"

// ElectionStatusActive is the only status in which ballots are accepted.
const ElectionStatusActive = "active"

// Election is read-only to the voting core; it is created and mutated by
// admin tooling. Ballot acceptance requires status active and now within
// [StartDate, EndDate].
type Election struct {
	ID          string    `json:"id" bson:"id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	StartDate   time.Time `json:"start_date" bson:"start_date"`
	EndDate     time.Time `json:"end_date" bson:"end_date"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// IsActive reports whether the election status allows voting at all.
func (e *Election) IsActive() bool {
	return e.Status == ElectionStatusActive
}

// Started reports whether the eligibility window has opened.
func (e *Election) Started(now time.Time) bool {
	return !now.Before(e.StartDate)
}

// Ended reports whether the eligibility window has closed.
func (e *Election) Ended(now time.Time) bool {
	return now.After(e.EndDate)
}

// Candidate stands in exactly one election. VoteCount is derived on read by
// counting ballots; it is never stored as an independently-updated counter.
type Candidate struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Party      string `json:"party" bson:"party"`
	ElectionID string `json:"election_id" bson:"election_id"`
	ImageURL   string `json:"image_url,omitempty" bson:"image_url,omitempty"`
	VoteCount  int64  `json:"vote_count" bson:"-"`
}
