package core

import (
	"time"
)

// Contact statuses as stored in the document store.
const (
	StatusActive       = "active"
	StatusUnsubscribed = "unsubscribed"
	StatusBounced      = "bounced"
	StatusComplained   = "complained"
)

// Score buckets used in rescore distributions.
const (
	BucketHigh   = "high"
	BucketMedium = "medium"
	BucketLow    = "low"
)

// Contact is the read-mostly projection of a contact record used by the
// scoring engine. All profile fields are optional; absent fields are empty
// strings so defaulting happens once at the store boundary.
type Contact struct {
	ID         string
	OwnerID    string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Company    string
	Position   string
	Status     string
	Tags       []string
	Engagement Engagement
	UpdatedAt  time.Time
}

// Engagement holds the per-contact engagement state. LastEngagedAt is nil
// for contacts that have never engaged.
type Engagement struct {
	LastEngagedAt *time.Time
	Score         int
}

// Campaign is the projection of a campaign record used by analytics and
// test sends.
type Campaign struct {
	ID      string
	OwnerID string
	Name    string
	Subject string
	Body    string
	Status  string
	Stats   CampaignStats
}

// CampaignStats are the delivery counters accumulated per campaign.
type CampaignStats struct {
	Sent         int
	Delivered    int
	Opened       int
	Clicked      int
	Bounced      int
	Unsubscribed int
}

// ScoreUpdate is the audit record for one contact in a rescore batch. It is
// never persisted as its own entity.
type ScoreUpdate struct {
	ContactID     string `json:"contactId"`
	PreviousScore int    `json:"previousScore"`
	NewScore      int    `json:"newScore"`
	Delta         int    `json:"delta"`
}

// RescoreSummary aggregates one rescore batch.
type RescoreSummary struct {
	AverageScore          float64 `json:"averageScore"`
	HighEngagementCount   int     `json:"highEngagementCount"`
	MediumEngagementCount int     `json:"mediumEngagementCount"`
	LowEngagementCount    int     `json:"lowEngagementCount"`
}

// RescoreReport is the result of one bulk rescore run. Updates preserve
// selection order; Distribution holds only buckets that occurred.
type RescoreReport struct {
	Updates      []ScoreUpdate  `json:"updates"`
	Distribution map[string]int `json:"distribution"`
	Summary      RescoreSummary `json:"summary"`
}

// RescoreRequest selects the contacts to rescore. An empty id list or
// RecalculateAll selects every contact owned by the tenant.
type RescoreRequest struct {
	ContactIDs     []string `json:"contactIds"`
	RecalculateAll bool     `json:"recalculateAll"`
}

// CampaignTotals are the tenant-wide campaign rollups.
type CampaignTotals struct {
	Count        int `json:"count"`
	Sent         int `json:"sent"`
	Delivered    int `json:"delivered"`
	Opened       int `json:"opened"`
	Clicked      int `json:"clicked"`
	Bounced      int `json:"bounced"`
	Unsubscribed int `json:"unsubscribed"`
}

// ContactTotals are the tenant-wide contact status rollups.
type ContactTotals struct {
	Count        int `json:"count"`
	Active       int `json:"active"`
	Unsubscribed int `json:"unsubscribed"`
	Bounced      int `json:"bounced"`
	Complained   int `json:"complained"`
}

// AnalyticsSummary merges the two independent rollups for one tenant. The
// shape is always fully populated, zero-filled for tenants with no records.
type AnalyticsSummary struct {
	Campaigns CampaignTotals `json:"campaignTotals"`
	Contacts  ContactTotals  `json:"contactTotals"`
}

// Content types accepted by GenerateContent.
const (
	ContentTypeSubject  = "subject"
	ContentTypeBody     = "body"
	ContentTypeCampaign = "campaign"
)

// ContentRequest describes the marketing copy to generate.
type ContentRequest struct {
	Type     string `json:"type"`
	Topic    string `json:"topic"`
	Tone     string `json:"tone"`
	Audience string `json:"audience"`
}

// GeneratedContent is the model's structured output.
type GeneratedContent struct {
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// OutboundEmail is a single message handed to the mailer.
type OutboundEmail struct {
	From    string
	To      string
	Subject string
	Body    string
}
