package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmenterrors "bkhost/internal/appointments/errors"
	"bkhost/pkg/config"
	mongodb "bkhost/pkg/db/mongo"
	"bkhost/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName        = "appointments"
	DeletedCollectionName = "deleted_appointments"
)

type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	FindBetween(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
	FindAll(ctx context.Context) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	InsertDeleted(ctx context.Context, deleted *model.DeletedAppointment) error
}

type mongoAppointmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	deleted    *mongo.Collection
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		deleted:    db.Collection(DeletedCollectionName),
	}
}

func between(from, to time.Time) bson.M {
	return bson.M{"timestamp": bson.M{"$gte": from.UTC(), "$lt": to.UTC()}}
}

func (r *mongoAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if id == "" {
		return nil, appointmenterrors.ErrInvalidID
	}

	var a model.Appointment
	err := r.collection.FindOne(ctx, mongodb.IDFilter(id)).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", appointmenterrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return &a, nil
}

func (r *mongoAppointmentRepository) FindBetween(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, between(from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

func (r *mongoAppointmentRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, between(from, to))
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *mongoAppointmentRepository) FindAll(ctx context.Context) ([]model.Appointment, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus merges fields into the appointment. Fields not listed are
// left as stored.
func (r *mongoAppointmentRepository) UpdateStatus(ctx context.Context, id string, fields map[string]any) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, mongodb.IDFilter(id), bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", appointmenterrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoAppointmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, mongodb.IDFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", appointmenterrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoAppointmentRepository) InsertDeleted(ctx context.Context, deleted *model.DeletedAppointment) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.deleted.InsertOne(ctx, deleted)
	if err != nil {
		return fmt.Errorf("failed to archive appointment: %w", err)
	}
	deleted.ID = mongodb.InsertedHex(result.InsertedID)
	return nil
}
