package service

import (
	"context"
	"hash/fnv"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/api/metrics"
	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

// minBallotsForDetection is the smallest snapshot worth scoring; below it the
// detector reports an empty result rather than noise.
const minBallotsForDetection = 10

// DefaultContamination is the fraction of ballots flagged as outliers.
const DefaultContamination = 0.1

// AnomalyService runs the offline anomaly-detection pass over a snapshot of
// recorded ballots. It is strictly advisory: it never blocks or invalidates
// a ballot, and every internal failure soft-fails to an empty report.
type AnomalyService struct {
	ballots       ports.BallotRepository
	scorer        ports.OutlierScorer
	contamination float64
	log           zerolog.Logger
}

func NewAnomalyService(ballots ports.BallotRepository, scorer ports.OutlierScorer, contamination float64, log zerolog.Logger) *AnomalyService {
	if contamination <= 0 || contamination >= 1 {
		contamination = DefaultContamination
	}
	return &AnomalyService{ballots: ballots, scorer: scorer, contamination: contamination, log: log}
}

// DetectAnomalies scores all recorded ballots and returns the flagged subset
// ordered most-anomalous first. Fewer than minBallotsForDetection ballots, or
// any scoring failure, yields an empty result and a nil error.
func (s *AnomalyService) DetectAnomalies(ctx context.Context) ([]domain.Ballot, error) {
	ballots, err := s.ballots.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("anomaly detection: snapshot read failed")
		metrics.AnomalyRunsTotal.WithLabelValues("error").Inc()
		return []domain.Ballot{}, nil
	}
	if len(ballots) < minBallotsForDetection {
		metrics.AnomalyRunsTotal.WithLabelValues("insufficient_data").Inc()
		return []domain.Ballot{}, nil
	}

	features := make([][]float64, len(ballots))
	for i, b := range ballots {
		features[i] = ballotFeatures(b)
	}

	scores, err := s.scorer.Score(features)
	if err != nil {
		s.log.Error().Err(err).Msg("anomaly detection: scoring failed")
		metrics.AnomalyRunsTotal.WithLabelValues("error").Inc()
		return []domain.Ballot{}, nil
	}

	k := int(math.Ceil(s.contamination * float64(len(ballots))))
	if k > len(ballots) {
		k = len(ballots)
	}

	order := make([]int, len(ballots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	flagged := make([]domain.Ballot, 0, k)
	for _, idx := range order[:k] {
		flagged = append(flagged, ballots[idx])
	}

	metrics.AnomalyRunsTotal.WithLabelValues("ok").Inc()
	metrics.AnomalyFlaggedTotal.Add(float64(len(flagged)))
	s.log.Info().Int("ballots", len(ballots)).Int("flagged", len(flagged)).Msg("anomaly detection run complete")
	return flagged, nil
}

// ballotFeatures builds the coarse behavioral fingerprint used for scoring:
// a stable hash of the voter id folded to 0..999, plus the hour and minute
// of the cast. Not cryptographically meaningful.
func ballotFeatures(b domain.Ballot) []float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(b.VoterID))
	ts := b.Timestamp.UTC()
	return []float64{
		float64(h.Sum32() % 1000),
		float64(ts.Hour()),
		float64(ts.Minute()),
	}
}
