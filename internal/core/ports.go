package core

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidInput is returned for malformed requests. Never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a named resource does not resolve within
	// the caller's tenant scope.
	ErrNotFound = errors.New("not found")
	// ErrSuppressed is returned when a recipient's status forbids sending.
	ErrSuppressed = errors.New("recipient suppressed")
)

// Clock supplies the current instant. Injectable for tests.
type Clock func() time.Time

// SystemClock reads the wall clock.
var SystemClock Clock = time.Now

// ContactRepository defines owner-scoped access to contact records. The
// owner filter is applied before any read; ids outside the scope silently
// select nothing.
type ContactRepository interface {
	// FindByOwner returns the owner's contacts, optionally restricted to
	// the given ids. A nil or empty id list selects all of them.
	FindByOwner(ctx context.Context, ownerID string, ids []string) ([]Contact, error)

	// GetByID returns a single contact, or ErrNotFound if the id does not
	// resolve within the owner's scope.
	GetByID(ctx context.Context, ownerID, id string) (*Contact, error)

	// UpdateScores applies a batch of score updates, each setting exactly
	// the engagement score and the update timestamp. All-or-nothing at the
	// batch level.
	UpdateScores(ctx context.Context, ownerID string, updates []ScoreUpdate, at time.Time) error

	// CountByStatus returns zero-filled status totals for the owner.
	CountByStatus(ctx context.Context, ownerID string) (ContactTotals, error)
}

// CampaignRepository defines owner-scoped access to campaign records.
type CampaignRepository interface {
	// GetByID returns a single campaign, or ErrNotFound if the id does not
	// resolve within the owner's scope.
	GetByID(ctx context.Context, ownerID, id string) (*Campaign, error)

	// AggregateTotals sums the owner's campaign delivery counters,
	// zero-filled when the owner has no campaigns.
	AggregateTotals(ctx context.Context, ownerID string) (CampaignTotals, error)
}

// Store bundles the repositories backed by one document store connection.
type Store interface {
	Contacts() ContactRepository
	Campaigns() CampaignRepository
	Close(ctx context.Context) error
}

// ContentGenerator defines the interface for AI-assisted copy generation.
type ContentGenerator interface {
	// GenerateContent produces marketing copy for the given request.
	GenerateContent(ctx context.Context, req *ContentRequest) (*GeneratedContent, error)
}

// Mailer delivers a single outbound message.
type Mailer interface {
	Send(ctx context.Context, msg *OutboundEmail) error
}
