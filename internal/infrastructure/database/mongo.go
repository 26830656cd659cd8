package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/archmich514/kiog/pkg/config"
)

// Collection names are the wire contract shared with the mobile client.
const (
	CollectionUnits            = "units"
	CollectionUsers            = "users"
	CollectionRecordings       = "recordings"
	CollectionAnswers          = "answers"
	CollectionReports          = "reports"
	CollectionQuestions        = "questions"
	CollectionQuestionStats    = "questionStats"
	CollectionCurrentQuestions = "currentQuestions"
)

// MongoDB wraps the document store client and database handle
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects to the document store and verifies the connection
func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx,
		options.Client().ApplyURI(cfg.Mongo.URI),
		options.Client().SetMaxPoolSize(cfg.Mongo.MaxPoolSize),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Mongo.Database),
	}, nil
}

// Collection returns a handle for the named collection
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
