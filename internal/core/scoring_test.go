package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scoringNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func engagedDaysAgo(days int) *Engagement {
	t := scoringNow.Add(-time.Duration(days) * 24 * time.Hour)
	return &Engagement{LastEngagedAt: &t}
}

func TestScoreContactCompleteness(t *testing.T) {
	tests := []struct {
		name    string
		contact Contact
		want    int
	}{
		{
			name:    "empty contact never engaged",
			contact: Contact{},
			want:    0, // -10 recency clamped at zero
		},
		{
			name:    "first name only",
			contact: Contact{FirstName: "Ada"},
			want:    0, // 10 - 10 recency
		},
		{
			name: "full profile never engaged",
			contact: Contact{
				FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				Phone: "+44 20 7946 0958", Company: "Analytical Engines", Position: "CTO",
			},
			want: 40, // 50 completeness - 10 recency
		},
		{
			name: "full profile recently engaged",
			contact: Contact{
				FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				Phone: "+44 20 7946 0958", Company: "Analytical Engines", Position: "CTO",
				Engagement: *engagedDaysAgo(1),
			},
			want: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreContact(&tt.contact, scoringNow))
		})
	}
}

func TestScoreContactRecencyBoundaries(t *testing.T) {
	// Boundaries fall into the more recent bucket.
	tests := []struct {
		days int
		want int
	}{
		{0, 30},
		{7, 30},
		{8, 20},
		{30, 20},
		{31, 10},
		{90, 10},
		{91, 0}, // -10 clamped
		{365, 0},
	}

	for _, tt := range tests {
		c := Contact{Engagement: *engagedDaysAgo(tt.days)}
		assert.Equal(t, tt.want, ScoreContact(&c, scoringNow), "days=%d", tt.days)
	}
}

func TestScoreContactNeverEngagedIsMaximallyStale(t *testing.T) {
	never := Contact{Email: "x@example.com"}
	stale := Contact{Email: "x@example.com", Engagement: *engagedDaysAgo(365)}
	assert.Equal(t, ScoreContact(&stale, scoringNow), ScoreContact(&never, scoringNow))
}

func TestScoreContactTagBonuses(t *testing.T) {
	base := Contact{Engagement: *engagedDaysAgo(1)} // 30 recency

	vip := base
	vip.Tags = []string{"vip"}
	assert.Equal(t, 50, ScoreContact(&vip, scoringNow))

	lead := base
	lead.Tags = []string{"lead"}
	assert.Equal(t, 45, ScoreContact(&lead, scoringNow))

	customer := base
	customer.Tags = []string{"customer"}
	assert.Equal(t, 55, ScoreContact(&customer, scoringNow))

	// Bonuses are independently additive, and duplicates do not double count.
	all := base
	all.Tags = []string{"vip", "lead", "customer", "vip", "newsletter"}
	assert.Equal(t, 90, ScoreContact(&all, scoringNow))
}

func TestScoreContactClampedToHundred(t *testing.T) {
	c := Contact{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Phone: "1", Company: "AE", Position: "CTO",
		Tags:       []string{"vip", "lead", "customer"},
		Engagement: *engagedDaysAgo(1),
	}
	// Raw sum is 50+30+60 = 140.
	assert.Equal(t, 100, ScoreContact(&c, scoringNow))
}

func TestScoreContactBounds(t *testing.T) {
	contacts := []Contact{
		{},
		{FirstName: "a", LastName: "b", Email: "c", Phone: "d", Company: "e", Position: "f",
			Tags: []string{"vip", "lead", "customer"}, Engagement: *engagedDaysAgo(0)},
		{Tags: []string{"vip"}, Engagement: *engagedDaysAgo(400)},
		{Email: "x", Engagement: *engagedDaysAgo(45)},
	}
	for i := range contacts {
		score := ScoreContact(&contacts[i], scoringNow)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestScoreContactCompletenessMonotonicity(t *testing.T) {
	base := Contact{Engagement: *engagedDaysAgo(45)}
	baseScore := ScoreContact(&base, scoringNow)

	additions := []func(*Contact){
		func(c *Contact) { c.FirstName = "Ada" },
		func(c *Contact) { c.LastName = "Lovelace" },
		func(c *Contact) { c.Email = "ada@example.com" },
		func(c *Contact) { c.Phone = "1" },
		func(c *Contact) { c.Company = "AE" },
		func(c *Contact) { c.Position = "CTO" },
	}
	for i, add := range additions {
		c := base
		add(&c)
		assert.GreaterOrEqual(t, ScoreContact(&c, scoringNow), baseScore, "field %d", i)
	}
}

func TestScoreBucket(t *testing.T) {
	assert.Equal(t, BucketHigh, ScoreBucket(100))
	assert.Equal(t, BucketHigh, ScoreBucket(80))
	assert.Equal(t, BucketMedium, ScoreBucket(79))
	assert.Equal(t, BucketMedium, ScoreBucket(50))
	assert.Equal(t, BucketLow, ScoreBucket(49))
	assert.Equal(t, BucketLow, ScoreBucket(0))
}

func TestScoreContactScenario(t *testing.T) {
	two := scoringNow.Add(-2 * 24 * time.Hour)
	hundred := scoringNow.Add(-100 * 24 * time.Hour)

	a := Contact{
		FirstName: "Amy", LastName: "Adams", Email: "amy@example.com",
		Tags:       []string{"customer"},
		Engagement: Engagement{LastEngagedAt: &two},
	}
	b := Contact{}
	c := Contact{
		Email:      "carl@example.com",
		Tags:       []string{"lead"},
		Engagement: Engagement{LastEngagedAt: &hundred},
	}

	require.Equal(t, 85, ScoreContact(&a, scoringNow))
	require.Equal(t, 0, ScoreContact(&b, scoringNow))
	require.Equal(t, 15, ScoreContact(&c, scoringNow))
}
