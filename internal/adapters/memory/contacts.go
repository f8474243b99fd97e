package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

// ContactRepository is an in-memory implementation of
// core.ContactRepository with the same scoping semantics as the MongoDB
// adapter: reads filter by owner before anything else.
type ContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]core.Contact
	order    []string
	logger   *zap.Logger
}

// NewContactRepository creates an empty repository.
func NewContactRepository(logger *zap.Logger) *ContactRepository {
	return &ContactRepository{
		contacts: make(map[string]core.Contact),
		logger:   logger,
	}
}

func (r *ContactRepository) add(c core.Contact) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = core.StatusActive
	}
	if _, exists := r.contacts[c.ID]; !exists {
		r.order = append(r.order, c.ID)
	}
	r.contacts[c.ID] = c
	return c.ID
}

// FindByOwner returns the owner's contacts in insertion order, optionally
// restricted to ids. Foreign ids match nothing.
func (r *ContactRepository) FindByOwner(ctx context.Context, ownerID string, ids []string) ([]core.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var wanted map[string]struct{}
	if len(ids) > 0 {
		wanted = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			wanted[id] = struct{}{}
		}
	}

	var result []core.Contact
	for _, id := range r.order {
		c := r.contacts[id]
		if c.OwnerID != ownerID {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[c.ID]; !ok {
				continue
			}
		}
		result = append(result, c)
	}

	return result, nil
}

// GetByID returns one contact within the owner's scope.
func (r *ContactRepository) GetByID(ctx context.Context, ownerID, id string) (*core.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, core.ErrNotFound
	}
	return &c, nil
}

// UpdateScores applies the batch in place. Updates for ids outside the
// owner's scope are ignored, matching the bulk-write filter semantics.
func (r *ContactRepository) UpdateScores(ctx context.Context, ownerID string, updates []core.ScoreUpdate, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range updates {
		c, ok := r.contacts[u.ContactID]
		if !ok || c.OwnerID != ownerID {
			continue
		}
		c.Engagement.Score = u.NewScore
		c.UpdatedAt = at
		r.contacts[u.ContactID] = c
	}

	return nil
}

// CountByStatus returns zero-filled status totals for the owner.
func (r *ContactRepository) CountByStatus(ctx context.Context, ownerID string) (core.ContactTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totals := core.ContactTotals{}
	for _, c := range r.contacts {
		if c.OwnerID != ownerID {
			continue
		}
		totals.Count++
		switch c.Status {
		case core.StatusActive, "":
			totals.Active++
		case core.StatusUnsubscribed:
			totals.Unsubscribed++
		case core.StatusBounced:
			totals.Bounced++
		case core.StatusComplained:
			totals.Complained++
		}
	}

	return totals, nil
}
