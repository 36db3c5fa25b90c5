package repository

import (
	"context"
	"testing"
	"time"

	"teamwork/internal/database"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestDB holds the test database and container.
type TestDB struct {
	Container *mongodb.MongoDBContainer
	Client    *mongo.Client
	Database  *mongo.Database
}

// SetupTestDB starts a single-node MongoDB replica set, so transactions are
// available, and returns a database with the application indexes.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7.0", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err, "failed to start MongoDB container")

	connectionString, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get connection string")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString).SetDirect(true))
	require.NoError(t, err, "failed to connect to MongoDB")
	require.NoError(t, client.Ping(ctx, nil), "failed to ping MongoDB")

	db := client.Database("test_" + time.Now().Format("20060102150405"))

	_, err = database.EnsureIndexes(ctx, db)
	require.NoError(t, err, "failed to create indexes")

	return &TestDB{
		Container: container,
		Client:    client,
		Database:  db,
	}
}

// Cleanup drops the database and stops the container.
func (tdb *TestDB) Cleanup(t *testing.T) {
	t.Helper()

	ctx := context.Background()

	if tdb.Database != nil {
		_ = tdb.Database.Drop(ctx)
	}
	if tdb.Client != nil {
		_ = tdb.Client.Disconnect(ctx)
	}
	if tdb.Container != nil {
		_ = tdb.Container.Terminate(ctx)
	}
}

// ClearCollection removes all documents from a collection.
func (tdb *TestDB) ClearCollection(t *testing.T, collectionName string) {
	t.Helper()

	_, err := tdb.Database.Collection(collectionName).DeleteMany(context.Background(), bson.M{})
	require.NoError(t, err, "failed to clear collection %s", collectionName)
}
