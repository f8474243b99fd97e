package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

type campaignDoc struct {
	ID      string          `bson:"_id"`
	OwnerID string          `bson:"userId"`
	Name    string          `bson:"name,omitempty"`
	Subject string          `bson:"subject,omitempty"`
	Body    string          `bson:"body,omitempty"`
	Status  string          `bson:"status,omitempty"`
	Stats   campaignStatDoc `bson:"stats,omitempty"`
}

type campaignStatDoc struct {
	Sent         int `bson:"sent,omitempty"`
	Delivered    int `bson:"delivered,omitempty"`
	Opened       int `bson:"opened,omitempty"`
	Clicked      int `bson:"clicked,omitempty"`
	Bounced      int `bson:"bounced,omitempty"`
	Unsubscribed int `bson:"unsubscribed,omitempty"`
}

func (d *campaignDoc) toDomain() core.Campaign {
	return core.Campaign{
		ID:      d.ID,
		OwnerID: d.OwnerID,
		Name:    d.Name,
		Subject: d.Subject,
		Body:    d.Body,
		Status:  d.Status,
		Stats: core.CampaignStats{
			Sent:         d.Stats.Sent,
			Delivered:    d.Stats.Delivered,
			Opened:       d.Stats.Opened,
			Clicked:      d.Stats.Clicked,
			Bounced:      d.Stats.Bounced,
			Unsubscribed: d.Stats.Unsubscribed,
		},
	}
}

// CampaignRepository is the MongoDB implementation of
// core.CampaignRepository.
type CampaignRepository struct {
	col    *mongo.Collection
	logger *zap.Logger
}

// NewCampaignRepository creates a new campaign repository over the given
// collection.
func NewCampaignRepository(col *mongo.Collection, logger *zap.Logger) *CampaignRepository {
	return &CampaignRepository{col: col, logger: logger}
}

// GetByID returns one campaign within the owner's scope.
func (r *CampaignRepository) GetByID(ctx context.Context, ownerID, id string) (*core.Campaign, error) {
	var doc campaignDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query campaign: %w", err)
	}

	campaign := doc.toDomain()
	return &campaign, nil
}

// AggregateTotals sums the owner's campaign counters in one grouped
// aggregation. An owner without campaigns gets zero totals, not an error.
func (r *CampaignRepository) AggregateTotals(ctx context.Context, ownerID string) (core.CampaignTotals, error) {
	totals := core.CampaignTotals{}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: ownerID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "sent", Value: bson.D{{Key: "$sum", Value: "$stats.sent"}}},
			{Key: "delivered", Value: bson.D{{Key: "$sum", Value: "$stats.delivered"}}},
			{Key: "opened", Value: bson.D{{Key: "$sum", Value: "$stats.opened"}}},
			{Key: "clicked", Value: bson.D{{Key: "$sum", Value: "$stats.clicked"}}},
			{Key: "bounced", Value: bson.D{{Key: "$sum", Value: "$stats.bounced"}}},
			{Key: "unsubscribed", Value: bson.D{{Key: "$sum", Value: "$stats.unsubscribed"}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return totals, fmt.Errorf("failed to aggregate campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count        int `bson:"count"`
		Sent         int `bson:"sent"`
		Delivered    int `bson:"delivered"`
		Opened       int `bson:"opened"`
		Clicked      int `bson:"clicked"`
		Bounced      int `bson:"bounced"`
		Unsubscribed int `bson:"unsubscribed"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return totals, fmt.Errorf("failed to decode campaign aggregation: %w", err)
	}
	if len(rows) == 0 {
		return totals, nil
	}

	row := rows[0]
	totals.Count = row.Count
	totals.Sent = row.Sent
	totals.Delivered = row.Delivered
	totals.Opened = row.Opened
	totals.Clicked = row.Clicked
	totals.Bounced = row.Bounced
	totals.Unsubscribed = row.Unsubscribed

	return totals, nil
}
