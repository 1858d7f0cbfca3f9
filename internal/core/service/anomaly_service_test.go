package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/pkg/isoforest"
)

func seedBallots(t *testing.T, repo *memBallotRepo, n int, base time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Insert(context.Background(), &domain.Ballot{
			ID:          fmt.Sprintf("b%d", i),
			VoterID:     fmt.Sprintf("v%d", i),
			ElectionID:  "e1",
			CandidateID: "c1",
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("seed ballot: %v", err)
		}
	}
}

func TestDetectAnomalies_InsufficientData(t *testing.T) {
	repo := newMemBallotRepo()
	seedBallots(t, repo, minBallotsForDetection-1, time.Now())

	svc := NewAnomalyService(repo, &stubScorer{}, DefaultContamination, zerolog.Nop())
	flagged, err := svc.DetectAnomalies(context.Background())
	if err != nil {
		t.Fatalf("DetectAnomalies: %v", err)
	}
	if len(flagged) != 0 {
		t.Fatalf("expected empty report below threshold, got %d", len(flagged))
	}
}

func TestDetectAnomalies_FlagsHighestScores(t *testing.T) {
	repo := newMemBallotRepo()
	seedBallots(t, repo, 20, time.Now())

	scores := make([]float64, 20)
	for i := range scores {
		scores[i] = 0.3
	}
	scores[7] = 0.95
	scores[13] = 0.90

	svc := NewAnomalyService(repo, &stubScorer{scores: scores}, DefaultContamination, zerolog.Nop())
	flagged, err := svc.DetectAnomalies(context.Background())
	if err != nil {
		t.Fatalf("DetectAnomalies: %v", err)
	}
	// ceil(0.1 * 20) = 2, ordered most-anomalous first.
	if len(flagged) != 2 {
		t.Fatalf("expected 2 flagged, got %d", len(flagged))
	}
	if flagged[0].ID != "b7" || flagged[1].ID != "b13" {
		t.Fatalf("wrong ballots flagged: %s, %s", flagged[0].ID, flagged[1].ID)
	}
}

func TestDetectAnomalies_SoftFailsOnScorerError(t *testing.T) {
	repo := newMemBallotRepo()
	seedBallots(t, repo, 15, time.Now())

	svc := NewAnomalyService(repo, &stubScorer{err: errors.New("boom")}, DefaultContamination, zerolog.Nop())
	flagged, err := svc.DetectAnomalies(context.Background())
	if err != nil {
		t.Fatalf("internal failure must not surface, got %v", err)
	}
	if len(flagged) != 0 {
		t.Fatalf("expected empty report on failure, got %d", len(flagged))
	}
}

// TestDetectAnomalies_WithForest exercises the real isolation forest: a
// cluster of ballots cast within one minute plus a single distant outlier.
func TestDetectAnomalies_WithForest(t *testing.T) {
	repo := newMemBallotRepo()
	base := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 19; i++ {
		_ = repo.Insert(context.Background(), &domain.Ballot{
			ID:          fmt.Sprintf("b%d", i),
			VoterID:     "same-voter-hash-bucket",
			ElectionID:  "e1",
			CandidateID: "c1",
			Timestamp:   base.Add(time.Duration(i%3) * time.Second),
		})
	}
	_ = repo.Insert(context.Background(), &domain.Ballot{
		ID:          "odd",
		VoterID:     "v-outlier",
		ElectionID:  "e1",
		CandidateID: "c1",
		Timestamp:   base.Add(13*time.Hour + 47*time.Minute),
	})

	forest := isoforest.New(isoforest.Options{Seed: 42})
	svc := NewAnomalyService(repo, forest, DefaultContamination, zerolog.Nop())
	flagged, err := svc.DetectAnomalies(context.Background())
	if err != nil {
		t.Fatalf("DetectAnomalies: %v", err)
	}
	if len(flagged) != 2 {
		t.Fatalf("expected ceil(0.1*20)=2 flagged, got %d", len(flagged))
	}
	if flagged[0].ID != "odd" {
		t.Fatalf("expected the temporal outlier flagged first, got %s", flagged[0].ID)
	}
}

func TestBallotFeatures_Deterministic(t *testing.T) {
	b := domain.Ballot{VoterID: "v1", Timestamp: time.Date(2026, 5, 12, 14, 30, 0, 0, time.UTC)}

	a := ballotFeatures(b)
	c := ballotFeatures(b)
	if len(a) != 3 {
		t.Fatalf("expected 3 features, got %d", len(a))
	}
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("feature %d not deterministic: %f vs %f", i, a[i], c[i])
		}
	}
	if a[1] != 14 || a[2] != 30 {
		t.Fatalf("expected hour/minute features 14/30, got %f/%f", a[1], a[2])
	}
}
