// Package mongodb manages the process-wide document store connection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrClosed is returned by Database after Close has been called.
var ErrClosed = errors.New("mongodb connection closed")

// Conn is a lazily-initialized, reused connection handle. The first call to
// Database creates the client; the driver dials in the background, and each
// caller pings under its own context without holding the lock. A client that
// cannot be created (bad URI) is not cached, so the next call retries.
type Conn struct {
	uri    string
	dbName string

	mu     sync.Mutex
	client *mongo.Client
	closed bool
}

// New creates a Conn without connecting.
func New(uri, dbName string) *Conn {
	return &Conn{uri: uri, dbName: dbName}
}

// Database returns the configured database once the server answers a ping
// within ctx.
func (c *Conn) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := c.clientHandle(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client.Database(c.dbName), nil
}

// clientHandle returns the shared client, creating it on first use.
// mongo.Connect does not wait for the server, so the lock is never held
// across network round trips.
func (c *Conn) clientHandle(ctx context.Context) (*mongo.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	if c.client == nil {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.uri))
		if err != nil {
			return nil, fmt.Errorf("connecting to mongodb: %w", err)
		}
		c.client = client
	}

	return c.client, nil
}

// Ping verifies the document store is reachable, connecting if needed.
func (c *Conn) Ping(ctx context.Context) error {
	_, err := c.Database(ctx)
	return err
}

// Close disconnects the client if one was established. It is safe to call
// Close on a Conn that never connected.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	if err != nil {
		return fmt.Errorf("disconnecting mongodb: %w", err)
	}
	return nil
}
