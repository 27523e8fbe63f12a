// Package mongodb holds the MongoDB connection handle and the lesson and
// order repositories built on it.
package mongodb

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"lesson-market/internal/models"
)

// Handle owns the single client shared by every repository. Connect is
// idempotent; Close releases the client so a later Connect starts over.
type Handle struct {
	uri    string
	dbName string
	log    *zap.Logger

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

func NewHandle(uri, dbName string, log *zap.Logger) *Handle {
	return &Handle{uri: uri, dbName: dbName, log: log}
}

func (h *Handle) Connect(ctx context.Context) (*mongo.Database, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db != nil {
		return h.db, nil
	}
	if h.uri == "" {
		return nil, models.ErrMissingURI
	}

	opts := options.Client().
		ApplyURI(h.uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	h.client = client
	h.db = client.Database(h.dbName)
	h.log.Info("connected to mongodb", zap.String("db", h.dbName))
	return h.db, nil
}

// DB returns the active database or ErrNotConnected.
func (h *Handle) DB() (*mongo.Database, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.db == nil {
		return nil, models.ErrNotConnected
	}
	return h.db, nil
}

func (h *Handle) Collection(name string) (*mongo.Collection, error) {
	db, err := h.DB()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Ping checks the connection is still usable.
func (h *Handle) Ping(ctx context.Context) error {
	h.mu.RLock()
	client := h.client
	h.mu.RUnlock()

	if client == nil {
		return models.ErrNotConnected
	}
	return client.Ping(ctx, readpref.Primary())
}

func (h *Handle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}
	err := h.client.Disconnect(ctx)
	h.client = nil
	h.db = nil
	h.log.Info("mongodb connection closed")
	if err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}
	return nil
}
