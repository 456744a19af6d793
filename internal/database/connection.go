package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aashari/go-eduverse-backend/internal/logger"
)

// Connection holds the MongoDB connection and configuration
type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *DatabaseConfig
}

// Connect opens and verifies a MongoDB connection
func Connect(ctx context.Context, config *DatabaseConfig) (*Connection, error) {
	ctx = logger.WithComponent(ctx, logger.ComponentNames.Database)
	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.URI)
	if config.AppName != "" {
		clientOptions.SetAppName(config.AppName)
	}

	masked := config.MaskSensitiveData()
	logger.Info(ctx, "Connecting to MongoDB", "database", masked.DatabaseName, "uri", masked.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	connection := &Connection{
		Client:   client,
		Database: client.Database(config.DatabaseName),
		Config:   config,
	}

	// Index creation failure only costs query speed.
	if err := connection.createIndexes(ctx); err != nil {
		logger.Warn(ctx, "Failed to create trace indexes", "error", err)
	}

	logger.Info(ctx, "Connected to MongoDB", "database", config.DatabaseName, "collection", config.Collection)
	return connection, nil
}

// Disconnect closes the MongoDB connection
func (c *Connection) Disconnect(ctx context.Context) error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Disconnect(ctx)
}

// HealthCheck pings the primary
func (c *Connection) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("MongoDB client is nil")
	}
	if err := c.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return nil
}

// Traces returns the trace collection
func (c *Connection) Traces() *mongo.Collection {
	return c.Database.Collection(c.Config.Collection)
}

func (c *Connection) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_desc"),
		},
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("request_id"),
		},
		{
			Keys:    bson.D{{Key: "branch", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("branch_created_at_desc"),
		},
	}

	if _, err := c.Traces().Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", c.Config.Collection, err)
	}
	return nil
}
