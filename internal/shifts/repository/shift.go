package repository

import (
	"context"
	"fmt"

	shifterrors "bkhost/internal/shifts/errors"
	"bkhost/pkg/config"
	mongodb "bkhost/pkg/db/mongo"
	"bkhost/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "shifts"
)

// ShiftRepository stores one document per shift date, keyed by its
// YYYY-MM-DD date string.
type ShiftRepository interface {
	FindBetween(ctx context.Context, fromKey, toKey string) ([]model.Shift, error)
	AddHost(ctx context.Context, key, host string) error
	RemoveHost(ctx context.Context, key, host string) error
	Upsert(ctx context.Context, key string) (bool, error)
}

type mongoShiftRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoShiftRepository(cfg *config.Config) ShiftRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoShiftRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// FindBetween returns shifts with fromKey <= date < toKey. Date keys sort
// lexically in calendar order.
func (r *mongoShiftRepository) FindBetween(ctx context.Context, fromKey, toKey string) ([]model.Shift, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"date": bson.M{"$gte": fromKey, "$lt": toKey}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer cursor.Close(ctx)

	shifts := []model.Shift{}
	if err = cursor.All(ctx, &shifts); err != nil {
		return nil, fmt.Errorf("failed to decode shifts: %w", err)
	}
	return shifts, nil
}

func (r *mongoShiftRepository) AddHost(ctx context.Context, key, host string) error {
	return r.updateHosts(ctx, key, bson.M{"$addToSet": bson.M{"hosts": host}}, "add host to")
}

func (r *mongoShiftRepository) RemoveHost(ctx context.Context, key, host string) error {
	return r.updateHosts(ctx, key, bson.M{"$pull": bson.M{"hosts": host}}, "remove host from")
}

func (r *mongoShiftRepository) updateHosts(ctx context.Context, key string, update bson.M, op string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"date": key}, update)
	if err != nil {
		return fmt.Errorf("failed to %s shift: %w", op, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", shifterrors.ErrNotFound, key)
	}
	return nil
}

// Upsert creates an empty shift for key and reports whether it was new.
// Existing shifts and their hosts are left untouched.
func (r *mongoShiftRepository) Upsert(ctx context.Context, key string) (bool, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$setOnInsert": bson.M{"date": key, "hosts": []string{}}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"date": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to upsert shift: %w", err)
	}
	return result.UpsertedCount > 0, nil
}
