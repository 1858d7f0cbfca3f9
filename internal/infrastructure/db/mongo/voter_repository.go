package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartballot/voting-api/internal/core/domain"
)

const collectionVoters = "voters"

type VoterRepository struct {
	col *mongo.Collection
}

func NewVoterRepository(db *mongo.Database) *VoterRepository {
	return &VoterRepository{col: db.Collection(collectionVoters)}
}

func (r *VoterRepository) FindByID(ctx context.Context, id string) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Voter
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoterRepository) FindByEmail(ctx context.Context, email string) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Voter
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoterRepository) FindByAadhaar(ctx context.Context, aadhaar string) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Voter
	if err := r.col.FindOne(ctx, bson.M{"aadhaar": aadhaar}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, voter)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrVoterExists
	}
	return err
}

func (r *VoterRepository) List(ctx context.Context) ([]domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var voters []domain.Voter
	if err := cur.All(ctx, &voters); err != nil {
		return nil, err
	}
	return voters, nil
}

func (r *VoterRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// ConditionalMarkVoted is the single atomic step that prevents double voting.
// The filter only matches a voter document that has not yet voted in the
// given election, so concurrent attempts race on one server-side document
// update and exactly one of them observes a modification.
func (r *VoterRepository) ConditionalMarkVoted(ctx context.Context, voterID, electionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"id":              voterID,
		"voted_elections": bson.M{"$ne": electionID},
	}
	update := bson.M{
		"$set":      bson.M{"voted": true},
		"$addToSet": bson.M{"voted_elections": electionID},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// UnmarkVoted rolls the conditional mark back when ballot persistence fails
// afterwards, so the voter can retry.
func (r *VoterRepository) UnmarkVoted(ctx context.Context, voterID, electionID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"voted_elections": electionID}}
	_, err := r.col.UpdateOne(ctx, bson.M{"id": voterID}, update)
	return err
}

// EnsureIndexes creates the unique lookup indexes on the voters collection.
func (r *VoterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "aadhaar", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
