package repository

import (
	"context"
	"fmt"
	"time"

	"bkhost/pkg/config"
	mongodb "bkhost/pkg/db/mongo"
	"bkhost/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "available_slots"
)

// SlotRepository stores bookable slots. Every range is half-open [from, to)
// on the slot timestamp.
type SlotRepository interface {
	InsertMany(ctx context.Context, slots []model.AvailableSlot) (int, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]model.AvailableSlot, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	DeleteBetween(ctx context.Context, from, to time.Time) (int64, error)
	ReleaseBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func between(from, to time.Time) bson.M {
	return bson.M{"timestamp": bson.M{"$gte": from.UTC(), "$lt": to.UTC()}}
}

func (r *mongoSlotRepository) InsertMany(ctx context.Context, slots []model.AvailableSlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(slots))
	for _, s := range slots {
		s.Timestamp = s.Timestamp.UTC()
		docs = append(docs, s)
	}

	result, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		inserted := 0
		if result != nil {
			inserted = len(result.InsertedIDs)
		}
		return inserted, fmt.Errorf("failed to insert slots: %w", err)
	}
	return len(result.InsertedIDs), nil
}

func (r *mongoSlotRepository) FindBetween(ctx context.Context, from, to time.Time) ([]model.AvailableSlot, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, between(from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []model.AvailableSlot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, between(from, to))
	if err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	return count, nil
}

func (r *mongoSlotRepository) DeleteBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, between(from, to))
	if err != nil {
		return 0, fmt.Errorf("failed to delete slots: %w", err)
	}
	return result.DeletedCount, nil
}

// ReleaseBetween marks every slot in the range as unbooked. Slots that do not
// exist are simply not matched.
func (r *mongoSlotRepository) ReleaseBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"booked": false}}
	result, err := r.collection.UpdateMany(ctx, between(from, to), update)
	if err != nil {
		return 0, fmt.Errorf("failed to release slots: %w", err)
	}
	return result.MatchedCount, nil
}
