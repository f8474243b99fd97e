package memory

import (
	"context"

	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

// Store is an in-memory implementation of core.Store. It backs local
// development and tests where a MongoDB deployment is not available.
type Store struct {
	contacts  *ContactRepository
	campaigns *CampaignRepository
}

// NewStore creates an empty in-memory store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		contacts:  NewContactRepository(logger),
		campaigns: NewCampaignRepository(logger),
	}
}

// Contacts returns the contact repository.
func (s *Store) Contacts() core.ContactRepository {
	return s.contacts
}

// Campaigns returns the campaign repository.
func (s *Store) Campaigns() core.CampaignRepository {
	return s.campaigns
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// AddContact inserts a contact, assigning an id when absent, and returns
// the id. Test and seed helper.
func (s *Store) AddContact(c core.Contact) string {
	return s.contacts.add(c)
}

// AddCampaign inserts a campaign, assigning an id when absent, and returns
// the id. Test and seed helper.
func (s *Store) AddCampaign(c core.Campaign) string {
	return s.campaigns.add(c)
}
