package core

import (
	"time"
)

// staleDays is the recency used for contacts that have never engaged.
const staleDays = 365

// ScoreContact computes the engagement score for a contact at the given
// instant. The result is always in [0, 100]. Pure; the caller supplies now.
//
// Points: +10 each for first name, last name and email, +5 each for phone,
// company and position; a recency bonus from the days since last engagement
// (boundaries at 7, 30 and 90 days fall into the more recent bucket, never
// engaged counts as 365 days stale); and additive tag bonuses for vip, lead
// and customer. The raw sum is clamped to [0, 100].
func ScoreContact(c *Contact, now time.Time) int {
	score := 0

	if c.FirstName != "" {
		score += 10
	}
	if c.LastName != "" {
		score += 10
	}
	if c.Email != "" {
		score += 10
	}
	if c.Phone != "" {
		score += 5
	}
	if c.Company != "" {
		score += 5
	}
	if c.Position != "" {
		score += 5
	}

	days := staleDays
	if c.Engagement.LastEngagedAt != nil {
		days = int(now.Sub(*c.Engagement.LastEngagedAt).Hours() / 24)
	}
	switch {
	case days <= 7:
		score += 30
	case days <= 30:
		score += 20
	case days <= 90:
		score += 10
	default:
		score -= 10
	}

	if hasTag(c.Tags, "vip") {
		score += 20
	}
	if hasTag(c.Tags, "lead") {
		score += 15
	}
	if hasTag(c.Tags, "customer") {
		score += 25
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ScoreBucket maps a score to its distribution bucket.
func ScoreBucket(score int) string {
	switch {
	case score >= 80:
		return BucketHigh
	case score >= 50:
		return BucketMedium
	default:
		return BucketLow
	}
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
