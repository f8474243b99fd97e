package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

func TestFindByOwnerScoping(t *testing.T) {
	store := NewStore(zap.NewNop())
	first := store.AddContact(core.Contact{OwnerID: "owner-1", Email: "a@example.com"})
	second := store.AddContact(core.Contact{OwnerID: "owner-1", Email: "b@example.com"})
	store.AddContact(core.Contact{OwnerID: "owner-2", Email: "c@example.com"})

	all, err := store.Contacts().FindByOwner(context.Background(), "owner-1", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Insertion order is stable.
	assert.Equal(t, first, all[0].ID)
	assert.Equal(t, second, all[1].ID)

	none, err := store.Contacts().FindByOwner(context.Background(), "owner-3", nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByOwnerIgnoresForeignIDs(t *testing.T) {
	store := NewStore(zap.NewNop())
	mine := store.AddContact(core.Contact{OwnerID: "owner-1"})
	theirs := store.AddContact(core.Contact{OwnerID: "owner-2"})

	found, err := store.Contacts().FindByOwner(context.Background(), "owner-1", []string{mine, theirs, "no-such-id"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mine, found[0].ID)
}

func TestGetByIDNotFound(t *testing.T) {
	store := NewStore(zap.NewNop())
	id := store.AddContact(core.Contact{OwnerID: "owner-1"})

	_, err := store.Contacts().GetByID(context.Background(), "owner-2", id)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = store.Contacts().GetByID(context.Background(), "owner-1", "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateScoresSkipsForeignContacts(t *testing.T) {
	store := NewStore(zap.NewNop())
	mine := store.AddContact(core.Contact{OwnerID: "owner-1", Engagement: core.Engagement{Score: 1}})
	theirs := store.AddContact(core.Contact{OwnerID: "owner-2", Engagement: core.Engagement{Score: 1}})

	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	err := store.Contacts().UpdateScores(context.Background(), "owner-1", []core.ScoreUpdate{
		{ContactID: mine, NewScore: 77},
		{ContactID: theirs, NewScore: 77},
	}, at)
	require.NoError(t, err)

	updated, err := store.Contacts().GetByID(context.Background(), "owner-1", mine)
	require.NoError(t, err)
	assert.Equal(t, 77, updated.Engagement.Score)
	assert.Equal(t, at, updated.UpdatedAt)

	untouched, err := store.Contacts().GetByID(context.Background(), "owner-2", theirs)
	require.NoError(t, err)
	assert.Equal(t, 1, untouched.Engagement.Score)
	assert.True(t, untouched.UpdatedAt.IsZero())
}

func TestCountByStatus(t *testing.T) {
	store := NewStore(zap.NewNop())

	empty, err := store.Contacts().CountByStatus(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, core.ContactTotals{}, empty)

	store.AddContact(core.Contact{OwnerID: "owner-1"})
	store.AddContact(core.Contact{OwnerID: "owner-1", Status: core.StatusActive})
	store.AddContact(core.Contact{OwnerID: "owner-1", Status: core.StatusUnsubscribed})
	store.AddContact(core.Contact{OwnerID: "owner-1", Status: core.StatusBounced})
	store.AddContact(core.Contact{OwnerID: "owner-1", Status: core.StatusComplained})
	store.AddContact(core.Contact{OwnerID: "owner-2", Status: core.StatusBounced})

	totals, err := store.Contacts().CountByStatus(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, core.ContactTotals{
		Count: 5, Active: 2, Unsubscribed: 1, Bounced: 1, Complained: 1,
	}, totals)
}

func TestCampaignAggregateTotals(t *testing.T) {
	store := NewStore(zap.NewNop())

	empty, err := store.Campaigns().AggregateTotals(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, core.CampaignTotals{}, empty)

	store.AddCampaign(core.Campaign{
		OwnerID: "owner-1",
		Stats:   core.CampaignStats{Sent: 10, Delivered: 9, Opened: 4, Clicked: 1, Bounced: 1},
	})
	store.AddCampaign(core.Campaign{
		OwnerID: "owner-1",
		Stats:   core.CampaignStats{Sent: 5, Delivered: 5, Opened: 3, Unsubscribed: 1},
	})
	store.AddCampaign(core.Campaign{OwnerID: "owner-2", Stats: core.CampaignStats{Sent: 100}})

	totals, err := store.Campaigns().AggregateTotals(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, core.CampaignTotals{
		Count: 2, Sent: 15, Delivered: 14, Opened: 7, Clicked: 1, Bounced: 1, Unsubscribed: 1,
	}, totals)
}

func TestCampaignGetByIDScoping(t *testing.T) {
	store := NewStore(zap.NewNop())
	id := store.AddCampaign(core.Campaign{OwnerID: "owner-1", Subject: "s"})

	campaign, err := store.Campaigns().GetByID(context.Background(), "owner-1", id)
	require.NoError(t, err)
	assert.Equal(t, "s", campaign.Subject)

	_, err = store.Campaigns().GetByID(context.Background(), "owner-2", id)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
