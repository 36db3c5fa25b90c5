package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index describes one index on a collection.
type Index struct {
	Collection string
	Keys       bson.D
	Unique     bool
}

// Indexes lists every index the application relies on.
var Indexes = []Index{
	{Collection: "users", Keys: bson.D{{Key: "email", Value: 1}}, Unique: true},

	// One membership per (team, user).
	{Collection: "team_members", Keys: bson.D{{Key: "teamId", Value: 1}, {Key: "userId", Value: 1}}, Unique: true},
	{Collection: "team_members", Keys: bson.D{{Key: "userId", Value: 1}}},
	{Collection: "team_members", Keys: bson.D{{Key: "teamId", Value: 1}, {Key: "role", Value: 1}}},

	{Collection: "channels", Keys: bson.D{{Key: "teamId", Value: 1}, {Key: "name", Value: 1}}},

	{Collection: "messages", Keys: bson.D{{Key: "channelId", Value: 1}, {Key: "createdAt", Value: -1}}},
	{Collection: "messages", Keys: bson.D{{Key: "teamId", Value: 1}}},
	{Collection: "messages", Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledFor", Value: 1}}},

	{Collection: "notifications", Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	{Collection: "notifications", Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isRead", Value: 1}}},

	{Collection: "projects", Keys: bson.D{{Key: "teamId", Value: 1}, {Key: "createdAt", Value: -1}}},

	{Collection: "phases", Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "order", Value: 1}}},
	{Collection: "phases", Keys: bson.D{{Key: "teamId", Value: 1}}},

	{Collection: "tasks", Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "dueDate", Value: 1}}},
	{Collection: "tasks", Keys: bson.D{{Key: "parentTaskId", Value: 1}}},
	{Collection: "tasks", Keys: bson.D{{Key: "teamId", Value: 1}, {Key: "assignedTo", Value: 1}}},
	{Collection: "tasks", Keys: bson.D{{Key: "phaseId", Value: 1}}},
	{Collection: "tasks", Keys: bson.D{{Key: "dueDate", Value: 1}, {Key: "status", Value: 1}}},
}

// EnsureIndexes creates every index in Indexes. Existing indexes are left
// untouched. It returns the names of the indexes it ensured.
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	names := make([]string, 0, len(Indexes))
	for _, idx := range Indexes {
		model := mongo.IndexModel{Keys: idx.Keys}
		if idx.Unique {
			model.Options = options.Index().SetUnique(true)
		}

		name, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			return names, fmt.Errorf("create index on %s: %w", idx.Collection, err)
		}
		names = append(names, idx.Collection+"."+name)
	}
	return names, nil
}
