// Package mongo opens the document store used for persisted cache blobs
package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config configures the client
type Config struct {
	URI     string
	DB      string
	AppName string
	// Timeout bounds connect and the initial ping, default 10s
	Timeout time.Duration
}

// Mongo is a connected client bound to one database
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Open connects and pings the primary
func Open(ctx context.Context, cfg Config) (*Mongo, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, errors.New("mongo: empty uri")
	}
	if strings.TrimSpace(cfg.DB) == "" {
		return nil, errors.New("mongo: empty database name")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Mongo{Client: client, DB: client.Database(cfg.DB)}, nil
}

// Collection returns a handle on name in the bound database
func (m *Mongo) Collection(name string) *mongo.Collection { return m.DB.Collection(name) }

// Ping checks the primary is reachable
func (m *Mongo) Ping(ctx context.Context) error { return m.Client.Ping(ctx, readpref.Primary()) }

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error { return m.Client.Disconnect(ctx) }
