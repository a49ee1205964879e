package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appointmentrepo "bkhost/internal/appointments/repository"
	slotrepo "bkhost/internal/availability/repository"
	mailrepo "bkhost/internal/outbox/repository"
	shiftrepo "bkhost/internal/shifts/repository"
	userrepo "bkhost/internal/users/repository"
	walkinrepo "bkhost/internal/walkins/repository"
	"bkhost/pkg/config"
	"bkhost/pkg/model"
)

const (
	DefaultMongoURI     = config.DefaultMongoURI
	DefaultDatabaseName = config.DefaultMongoDatabaseName
	ConnectionTimeout   = 10 * time.Second
)

// DataCollections are wiped before and after a run. Users stay so that
// sessions from a concurrent run are not invalidated mid-flight.
var DataCollections = []string{
	slotrepo.CollectionName,
	appointmentrepo.CollectionName,
	appointmentrepo.DeletedCollectionName,
	walkinrepo.CollectionName,
	shiftrepo.CollectionName,
	mailrepo.CollectionName,
}

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanCollections removes all documents, keeping validators and indexes.
func (m *MongoHelper) CleanCollections(t *testing.T, names ...string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, name := range names {
		if _, err := m.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", name, err)
		}
	}
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string, filter bson.M) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

// ApproveUser stands in for the out-of-band approval step an admin performs
// on a freshly registered account.
func (m *MongoHelper) ApproveUser(t *testing.T, email, role string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := m.Database.Collection(userrepo.CollectionName).UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"status": model.StatusApproved, "role": role}},
	)
	if err != nil {
		t.Fatalf("failed to approve %s: %v", email, err)
	}
	if res.MatchedCount == 0 {
		t.Fatalf("user %s not found", email)
	}
}
