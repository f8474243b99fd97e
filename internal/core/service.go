package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/loopcrm/loopcrm/internal/cache"
	"github.com/loopcrm/loopcrm/internal/suppression"
)

// testSubjectPrefix marks campaign test sends so they are never mistaken
// for real sends in a recipient's inbox.
const testSubjectPrefix = "[Test] "

// EngagementService is the core service for contact engagement scoring,
// tenant analytics, AI content generation and campaign test sends. Every
// operation is scoped to exactly one owning tenant.
type EngagementService struct {
	store        Store
	generator    ContentGenerator
	mailer       Mailer
	cache        *cache.Cache
	suppressed   *suppression.List
	logger       *zap.Logger
	now          Clock
	cacheEnabled bool
	analyticsTTL time.Duration
	fromAddress  string
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(
	store Store,
	generator ContentGenerator,
	mailer Mailer,
	summaryCache *cache.Cache,
	suppressed *suppression.List,
	logger *zap.Logger,
	cacheEnabled bool,
	analyticsTTL time.Duration,
	fromAddress string,
	now Clock,
) *EngagementService {
	if now == nil {
		now = SystemClock
	}
	return &EngagementService{
		store:        store,
		generator:    generator,
		mailer:       mailer,
		cache:        summaryCache,
		suppressed:   suppressed,
		logger:       logger,
		now:          now,
		cacheEnabled: cacheEnabled,
		analyticsTTL: analyticsTTL,
		fromAddress:  fromAddress,
	}
}

// Rescore recomputes engagement scores for the selected contacts and
// persists them as one batched write. The report is built from the
// pre-write snapshot and the freshly computed scores. An empty selection
// returns an empty report without touching the store; ids outside the
// owner's scope are silently omitted.
func (s *EngagementService) Rescore(ctx context.Context, ownerID string, req RescoreRequest) (*RescoreReport, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	ids := req.ContactIDs
	if req.RecalculateAll {
		ids = nil
	}
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: blank contact id", ErrInvalidInput)
		}
	}

	contacts, err := s.store.Contacts().FindByOwner(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts for rescore: %w", err)
	}

	report := &RescoreReport{
		Updates:      []ScoreUpdate{},
		Distribution: map[string]int{},
	}
	if len(contacts) == 0 {
		s.logger.Info("Rescore selected no contacts",
			zap.String("owner_id", ownerID),
			zap.Int("requested_ids", len(ids)))
		return report, nil
	}

	now := s.now()
	total := 0
	for i := range contacts {
		c := &contacts[i]
		newScore := ScoreContact(c, now)
		report.Updates = append(report.Updates, ScoreUpdate{
			ContactID:     c.ID,
			PreviousScore: c.Engagement.Score,
			NewScore:      newScore,
			Delta:         newScore - c.Engagement.Score,
		})
		report.Distribution[ScoreBucket(newScore)]++
		total += newScore
	}

	if err := s.store.Contacts().UpdateScores(ctx, ownerID, report.Updates, now); err != nil {
		return nil, fmt.Errorf("bulk score update failed: %w", err)
	}

	report.Summary = RescoreSummary{
		AverageScore:          float64(total) / float64(len(report.Updates)),
		HighEngagementCount:   report.Distribution[BucketHigh],
		MediumEngagementCount: report.Distribution[BucketMedium],
		LowEngagementCount:    report.Distribution[BucketLow],
	}

	// Stored scores changed, so the cached dashboard summary is stale.
	if s.cacheEnabled && s.cache != nil {
		s.cache.Delete(analyticsKey(ownerID))
	}

	s.logger.Info("Rescored contacts",
		zap.String("owner_id", ownerID),
		zap.Int("updated", len(report.Updates)),
		zap.Float64("average_score", report.Summary.AverageScore))

	return report, nil
}

// Aggregate computes the tenant's analytics summary. The campaign and
// contact rollups are independent and run concurrently; a tenant with no
// records gets fully-populated zero totals. Results are served cache-aside
// under an explicit per-tenant key when caching is enabled.
func (s *EngagementService) Aggregate(ctx context.Context, ownerID string) (*AnalyticsSummary, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	produce := func() (*AnalyticsSummary, error) {
		summary := &AnalyticsSummary{}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			totals, err := s.store.Campaigns().AggregateTotals(gctx, ownerID)
			if err != nil {
				return fmt.Errorf("campaign aggregation failed: %w", err)
			}
			summary.Campaigns = totals
			return nil
		})
		g.Go(func() error {
			totals, err := s.store.Contacts().CountByStatus(gctx, ownerID)
			if err != nil {
				return fmt.Errorf("contact aggregation failed: %w", err)
			}
			summary.Contacts = totals
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		return summary, nil
	}

	if s.cacheEnabled && s.cache != nil {
		return cache.Fetch(s.cache, analyticsKey(ownerID), s.analyticsTTL, produce)
	}
	return produce()
}

// GenerateContent produces marketing copy through the configured provider.
func (s *EngagementService) GenerateContent(ctx context.Context, ownerID string, req *ContentRequest) (*GeneratedContent, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	switch req.Type {
	case ContentTypeSubject, ContentTypeBody, ContentTypeCampaign:
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, req.Type)
	}
	if req.Topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}

	content, err := s.generator.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Generated content",
		zap.String("owner_id", ownerID),
		zap.String("type", req.Type),
		zap.String("model", content.Model))

	return content, nil
}

// SendCampaignTest delivers one campaign message to a single contact.
// Both the campaign and the recipient resolve within the owner's scope,
// and suppressed recipient statuses are refused before the mailer is
// touched.
func (s *EngagementService) SendCampaignTest(ctx context.Context, ownerID, campaignID, contactID string) error {
	if ownerID == "" || campaignID == "" || contactID == "" {
		return fmt.Errorf("%w: owner, campaign and contact ids are required", ErrInvalidInput)
	}

	campaign, err := s.store.Campaigns().GetByID(ctx, ownerID, campaignID)
	if err != nil {
		return err
	}
	contact, err := s.store.Contacts().GetByID(ctx, ownerID, contactID)
	if err != nil {
		return err
	}

	if contact.Email == "" {
		return fmt.Errorf("%w: contact has no email address", ErrInvalidInput)
	}
	if s.suppressed.IsSuppressed(contact.Status) {
		return fmt.Errorf("%w: status %q", ErrSuppressed, contact.Status)
	}

	msg := &OutboundEmail{
		From:    s.fromAddress,
		To:      contact.Email,
		Subject: testSubjectPrefix + campaign.Subject,
		Body:    campaign.Body,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("test send failed: %w", err)
	}

	s.logger.Info("Sent campaign test",
		zap.String("owner_id", ownerID),
		zap.String("campaign_id", campaignID),
		zap.String("contact_id", contactID))

	return nil
}

func analyticsKey(ownerID string) string {
	return "analytics:" + ownerID
}
