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

const collectionElections = "elections"

type ElectionRepository struct {
	col *mongo.Collection
}

func NewElectionRepository(db *mongo.Database) *ElectionRepository {
	return &ElectionRepository{col: db.Collection(collectionElections)}
}

func (r *ElectionRepository) FindByID(ctx context.Context, id string) (*domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Election
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ElectionRepository) Create(ctx context.Context, election *domain.Election) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, election)
	return err
}

func (r *ElectionRepository) ListActive(ctx context.Context) ([]domain.Election, error) {
	return r.list(ctx, bson.M{"status": domain.ElectionStatusActive})
}

func (r *ElectionRepository) List(ctx context.Context) ([]domain.Election, error) {
	return r.list(ctx, bson.M{})
}

func (r *ElectionRepository) list(ctx context.Context, filter bson.M) ([]domain.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var elections []domain.Election
	if err := cur.All(ctx, &elections); err != nil {
		return nil, err
	}
	return elections, nil
}

func (r *ElectionRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{"status": domain.ElectionStatusActive})
}

func (r *ElectionRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the lookup indexes on the elections collection.
func (r *ElectionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
