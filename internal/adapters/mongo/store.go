package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

// Store is the MongoDB implementation of the core.Store interface.
type Store struct {
	client    *mongo.Client
	contacts  *ContactRepository
	campaigns *CampaignRepository
	logger    *zap.Logger
}

// NewStore connects to MongoDB and wires the contact and campaign
// repositories over one shared client.
func NewStore(ctx context.Context, uri, database string, logger *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Fail fast on an unreachable deployment.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)

	return &Store{
		client:    client,
		contacts:  NewContactRepository(db.Collection("contacts"), logger),
		campaigns: NewCampaignRepository(db.Collection("campaigns"), logger),
		logger:    logger,
	}, nil
}

// Contacts returns the contact repository.
func (s *Store) Contacts() core.ContactRepository {
	return s.contacts
}

// Campaigns returns the campaign repository.
func (s *Store) Campaigns() core.CampaignRepository {
	return s.campaigns
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
