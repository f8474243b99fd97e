package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

// contactDoc is the stored shape of a contact. Profile fields are optional;
// defaulting to the domain projection happens in toDomain.
type contactDoc struct {
	ID         string        `bson:"_id"`
	OwnerID    string        `bson:"userId"`
	FirstName  string        `bson:"firstName,omitempty"`
	LastName   string        `bson:"lastName,omitempty"`
	Email      string        `bson:"email,omitempty"`
	Phone      string        `bson:"phone,omitempty"`
	Company    string        `bson:"company,omitempty"`
	Position   string        `bson:"position,omitempty"`
	Status     string        `bson:"status,omitempty"`
	Tags       []string      `bson:"tags,omitempty"`
	Engagement engagementDoc `bson:"engagement,omitempty"`
	UpdatedAt  time.Time     `bson:"updatedAt,omitempty"`
}

type engagementDoc struct {
	LastEngagedAt *time.Time `bson:"lastEngagementDate,omitempty"`
	Score         int        `bson:"score,omitempty"`
}

func (d *contactDoc) toDomain() core.Contact {
	status := d.Status
	if status == "" {
		status = core.StatusActive
	}
	return core.Contact{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Company:   d.Company,
		Position:  d.Position,
		Status:    status,
		Tags:      d.Tags,
		Engagement: core.Engagement{
			LastEngagedAt: d.Engagement.LastEngagedAt,
			Score:         d.Engagement.Score,
		},
		UpdatedAt: d.UpdatedAt,
	}
}

// ContactRepository is the MongoDB implementation of core.ContactRepository.
// Every query carries the owner filter so cross-tenant reads cannot happen.
type ContactRepository struct {
	col    *mongo.Collection
	logger *zap.Logger
}

// NewContactRepository creates a new contact repository over the given
// collection.
func NewContactRepository(col *mongo.Collection, logger *zap.Logger) *ContactRepository {
	return &ContactRepository{col: col, logger: logger}
}

// FindByOwner returns the owner's contacts, optionally restricted to ids.
// Ids belonging to another owner simply match nothing.
func (r *ContactRepository) FindByOwner(ctx context.Context, ownerID string, ids []string) ([]core.Contact, error) {
	filter := bson.M{"userId": ownerID}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": ids}
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []core.Contact
	for cursor.Next(ctx) {
		var doc contactDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		contacts = append(contacts, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("contact cursor failed: %w", err)
	}

	return contacts, nil
}

// GetByID returns one contact within the owner's scope.
func (r *ContactRepository) GetByID(ctx context.Context, ownerID, id string) (*core.Contact, error) {
	var doc contactDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query contact: %w", err)
	}

	contact := doc.toDomain()
	return &contact, nil
}

// UpdateScores submits all staged score updates as one unordered bulk
// write. Each update sets exactly the engagement score and the update
// timestamp; failure is reported for the batch as a whole.
func (r *ContactRepository) UpdateScores(ctx context.Context, ownerID string, updates []core.ScoreUpdate, at time.Time) error {
	if len(updates) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": u.ContactID, "userId": ownerID}).
			SetUpdate(bson.M{"$set": bson.M{
				"engagement.score": u.NewScore,
				"updatedAt":        at,
			}}))
	}

	result, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("bulk write failed: %w", err)
	}

	r.logger.Debug("Applied score updates",
		zap.String("owner_id", ownerID),
		zap.Int64("matched", result.MatchedCount),
		zap.Int64("modified", result.ModifiedCount))

	return nil
}

// CountByStatus groups the owner's contacts by status and returns
// zero-filled totals when the owner has none.
func (r *ContactRepository) CountByStatus(ctx context.Context, ownerID string) (core.ContactTotals, error) {
	totals := core.ContactTotals{}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: ownerID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return totals, fmt.Errorf("failed to aggregate contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return totals, fmt.Errorf("failed to decode contact aggregation: %w", err)
	}

	for _, row := range rows {
		totals.Count += row.Count
		switch row.Status {
		case core.StatusActive, "":
			totals.Active += row.Count
		case core.StatusUnsubscribed:
			totals.Unsubscribed += row.Count
		case core.StatusBounced:
			totals.Bounced += row.Count
		case core.StatusComplained:
			totals.Complained += row.Count
		}
	}

	return totals, nil
}
