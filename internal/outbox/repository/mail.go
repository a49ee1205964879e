package repository

import (
	"context"
	"fmt"
	"time"

	"bkhost/pkg/config"
	mongodb "bkhost/pkg/db/mongo"
	"bkhost/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "mail"
)

// MailRepository is write-only: an external worker consumes the collection.
type MailRepository interface {
	Insert(ctx context.Context, email *model.OutboxEmail) error
}

type mongoMailRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMailRepository(cfg *config.Config) MailRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMailRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoMailRepository) Insert(ctx context.Context, email *model.OutboxEmail) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	email.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	email.ID = mongodb.InsertedHex(result.InsertedID)
	return nil
}
