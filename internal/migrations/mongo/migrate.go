package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appointmentrepo "bkhost/internal/appointments/repository"
	slotrepo "bkhost/internal/availability/repository"
	"bkhost/internal/migrations/mongo/validators"
	mailrepo "bkhost/internal/outbox/repository"
	shiftrepo "bkhost/internal/shifts/repository"
	userrepo "bkhost/internal/users/repository"
	walkinrepo "bkhost/internal/walkins/repository"
	"bkhost/pkg/logger"
)

var (
	timestampIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: 1}}},
	}

	SlotIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: 1}, {Key: "booked", Value: 1}}},
	}

	DeletedAppointmentIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "appointment_id", Value: 1}}},
		{Keys: bson.D{{Key: "deleted_at", Value: -1}}},
	}

	ShiftIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "hosts", Value: 1}}},
	}

	UserIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	MailIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
)

type Collection struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the service owns, in creation order.
func Collections() []Collection {
	return []Collection{
		{Name: slotrepo.CollectionName, Indexes: SlotIndexes, Validator: validators.AvailableSlotValidator},
		{Name: appointmentrepo.CollectionName, Indexes: timestampIndexes, Validator: validators.AppointmentValidator},
		{Name: appointmentrepo.DeletedCollectionName, Indexes: DeletedAppointmentIndexes, Validator: validators.DeletedAppointmentValidator},
		{Name: walkinrepo.CollectionName, Indexes: timestampIndexes, Validator: validators.WalkInValidator},
		{Name: shiftrepo.CollectionName, Indexes: ShiftIndexes, Validator: validators.ShiftValidator},
		{Name: userrepo.CollectionName, Indexes: UserIndexes, Validator: validators.UserValidator},
		{Name: mailrepo.CollectionName, Indexes: MailIndexes, Validator: validators.MailValidator},
	}
}

func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully", "collections", len(Collections()))
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", len(models))
	return nil
}
