package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartballot/voting-api/internal/core/domain"
)

const collectionBallots = "ballots"

// BallotRepository is the append-only ledger. Ballots are inserted once and
// never updated or deleted; tallies are aggregated from the documents on read.
type BallotRepository struct {
	col *mongo.Collection
}

func NewBallotRepository(db *mongo.Database) *BallotRepository {
	return &BallotRepository{col: db.Collection(collectionBallots)}
}

func (r *BallotRepository) Insert(ctx context.Context, ballot *domain.Ballot) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, ballot)
	return err
}

func (r *BallotRepository) List(ctx context.Context) ([]domain.Ballot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var ballots []domain.Ballot
	if err := cur.All(ctx, &ballots); err != nil {
		return nil, err
	}
	return ballots, nil
}

// TallyByElection groups the election's ballots by candidate on the server.
func (r *BallotRepository) TallyByElection(ctx context.Context, electionID string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"election_id": electionID}}},
		{{Key: "$group", Value: bson.M{"_id": "$candidate_id", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		CandidateID string `bson:"_id"`
		Count       int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	tally := make(map[string]int64, len(rows))
	for _, row := range rows {
		tally[row.CandidateID] = row.Count
	}
	return tally, nil
}

func (r *BallotRepository) CountByElection(ctx context.Context, electionID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"election_id": electionID})
}

func (r *BallotRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the ledger indexes. The unique voter/election pair is
// a second line of defense behind the conditional voter update.
func (r *BallotRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "voter_id", Value: 1}, {Key: "election_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "election_id", Value: 1}, {Key: "candidate_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
