package database

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoHandle lazily opens a single persistent MongoDB connection.  The
// document backend is only reachable after an explicit migration, so the
// connection is not established at startup; the first caller pays for it
// and a failed attempt is retried on the next call.
type MongoHandle struct {
	url  string
	name string

	mu sync.Mutex
	db *mongo.Database
}

// NewMongoHandle returns an unconnected handle for the given connection
// string and database name.
func NewMongoHandle(url, name string) *MongoHandle {
	return &MongoHandle{url: url, name: name}
}

// DB returns the database handle, connecting on first use.  The client is
// cached only after a successful connect and ping.
func (h *MongoHandle) DB(ctx context.Context) (*mongo.Database, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db != nil {
		return h.db, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(h.url))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	h.db = client.Database(h.name)
	return h.db, nil
}
