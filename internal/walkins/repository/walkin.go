package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	walkinerrors "bkhost/internal/walkins/errors"
	"bkhost/pkg/config"
	mongodb "bkhost/pkg/db/mongo"
	"bkhost/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "walk_ins"
)

type WalkInRepository interface {
	Create(ctx context.Context, w *model.WalkIn) error
	FindByID(ctx context.Context, id string) (*model.WalkIn, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.WalkIn, error)
	FindAll(ctx context.Context) ([]model.WalkIn, error)
	Update(ctx context.Context, id string, w *model.WalkIn) error
	Delete(ctx context.Context, id string) error
}

type mongoWalkInRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoWalkInRepository(cfg *config.Config) WalkInRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoWalkInRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoWalkInRepository) Create(ctx context.Context, w *model.WalkIn) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, w)
	if err != nil {
		return fmt.Errorf("failed to create walk-in: %w", err)
	}
	w.ID = mongodb.InsertedHex(result.InsertedID)
	return nil
}

func (r *mongoWalkInRepository) FindByID(ctx context.Context, id string) (*model.WalkIn, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var w model.WalkIn
	err := r.collection.FindOne(ctx, mongodb.IDFilter(id)).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", walkinerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find walk-in: %w", err)
	}
	return &w, nil
}

func (r *mongoWalkInRepository) find(ctx context.Context, filter bson.M) ([]model.WalkIn, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query walk-ins: %w", err)
	}
	defer cursor.Close(ctx)

	walkIns := []model.WalkIn{}
	if err = cursor.All(ctx, &walkIns); err != nil {
		return nil, fmt.Errorf("failed to decode walk-ins: %w", err)
	}
	return walkIns, nil
}

func (r *mongoWalkInRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.WalkIn, error) {
	return r.find(ctx, bson.M{"timestamp": bson.M{"$gte": from.UTC(), "$lt": to.UTC()}})
}

func (r *mongoWalkInRepository) FindAll(ctx context.Context) ([]model.WalkIn, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoWalkInRepository) Update(ctx context.Context, id string, w *model.WalkIn) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"bike_type":        w.BikeType,
			"service_type":     w.ServiceType,
			"amount_paid":      w.AmountPaid,
			"community_member": w.CommunityMember,
			"notes":            w.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, mongodb.IDFilter(id), update)
	if err != nil {
		return fmt.Errorf("failed to update walk-in: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", walkinerrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoWalkInRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, mongodb.IDFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete walk-in: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", walkinerrors.ErrNotFound, id)
	}
	return nil
}
