package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

// CampaignRepository is an in-memory implementation of
// core.CampaignRepository.
type CampaignRepository struct {
	mu        sync.RWMutex
	campaigns map[string]core.Campaign
	logger    *zap.Logger
}

// NewCampaignRepository creates an empty repository.
func NewCampaignRepository(logger *zap.Logger) *CampaignRepository {
	return &CampaignRepository{
		campaigns: make(map[string]core.Campaign),
		logger:    logger,
	}
}

func (r *CampaignRepository) add(c core.Campaign) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.campaigns[c.ID] = c
	return c.ID
}

// GetByID returns one campaign within the owner's scope.
func (r *CampaignRepository) GetByID(ctx context.Context, ownerID, id string) (*core.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, core.ErrNotFound
	}
	return &c, nil
}

// AggregateTotals sums the owner's campaign counters, zero-filled when the
// owner has none.
func (r *CampaignRepository) AggregateTotals(ctx context.Context, ownerID string) (core.CampaignTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := core.CampaignTotals{}
	for _, c := range r.campaigns {
		if c.OwnerID != ownerID {
			continue
		}
		totals.Count++
		totals.Sent += c.Stats.Sent
		totals.Delivered += c.Stats.Delivered
		totals.Opened += c.Stats.Opened
		totals.Clicked += c.Stats.Clicked
		totals.Bounced += c.Stats.Bounced
		totals.Unsubscribed += c.Stats.Unsubscribed
	}

	return totals, nil
}
