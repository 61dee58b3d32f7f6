package repository

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URI      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Timeout  time.Duration
}

type connState int

const (
	stateDisconnected connState = iota
	stateConnected
)

// Client wraps the mongo client with idempotent connect semantics. It is
// constructed once in main and injected into stores and orchestrators;
// nothing in this module reaches for a package-level connection.
type Client struct {
	mu     sync.Mutex
	state  connState
	cfg    MongoConfig
	client *mongo.Client
}

func NewClient(cfg MongoConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect establishes the MongoDB connection if it is not already up.
// Calling it again after a successful connect is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateConnected {
		return nil
	}

	connectionTimeout := c.cfg.Timeout
	if connectionTimeout == 0 {
		connectionTimeout = 10 * time.Second
	}

	mongoURI := c.cfg.URI
	if mongoURI == "" {
		if c.cfg.User != "" && c.cfg.Password != "" {
			mongoURI = fmt.Sprintf("mongodb://%s:%s@%s:%s", c.cfg.User, c.cfg.Password, c.cfg.Host, c.cfg.Port)
		} else {
			mongoURI = fmt.Sprintf("mongodb://%s:%s", c.cfg.Host, c.cfg.Port)
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	log.Printf("Connecting to MongoDB database %q", c.cfg.DBName)

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	c.client = client
	c.state = stateConnected
	log.Println("Successfully connected and pinged MongoDB")
	return nil
}

// Database returns a handle on the configured database. Connect must
// have succeeded first.
func (c *Client) Database() *mongo.Database {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateConnected {
		return nil
	}
	return c.client.Database(c.cfg.DBName)
}

// Mongo exposes the underlying driver client for session management.
func (c *Client) Mongo() *mongo.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Disconnect tears the connection down. Safe to call when never
// connected.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateConnected {
		return nil
	}
	c.state = stateDisconnected
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
