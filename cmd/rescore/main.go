package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	mongostore "github.com/loopcrm/loopcrm/internal/adapters/mongo"
	"github.com/loopcrm/loopcrm/internal/core"
	"github.com/loopcrm/loopcrm/internal/logging"
	"github.com/loopcrm/loopcrm/internal/suppression"
)

var (
	// Store flags
	mongoURI = flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	mongoDB  = flag.String("mongo-db", "loopcrm", "MongoDB database name")

	// Selection flags
	ownerID    = flag.String("owner", "", "Tenant id to rescore (required)")
	contactIDs = flag.String("contacts", "", "Comma-separated contact ids (all contacts if empty)")
	all        = flag.Bool("all", false, "Rescore every contact owned by the tenant")

	// Run flags
	dryRun  = flag.Bool("dry-run", false, "Compute the report without writing scores")
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *ownerID == "" {
		logger.Fatal("Missing required -owner flag")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := mongostore.NewStore(ctx, *mongoURI, *mongoDB, logger)
	if err != nil {
		logger.Fatal("Failed to connect to store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("Failed to close store", zap.Error(err))
		}
	}()

	var ids []string
	if *contactIDs != "" {
		for _, id := range strings.Split(*contactIDs, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	var report *core.RescoreReport
	if *dryRun {
		report, err = dryRunReport(ctx, store, *ownerID, ids)
	} else {
		service := core.NewEngagementService(
			store, nil, nil, nil,
			suppression.NewList(nil, logger),
			logger, false, 0, "", core.SystemClock,
		)
		report, err = service.Rescore(ctx, *ownerID, core.RescoreRequest{
			ContactIDs:     ids,
			RecalculateAll: *all,
		})
	}
	if err != nil {
		logger.Fatal("Rescore failed", zap.Error(err))
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		logger.Fatal("Failed to print report", zap.Error(err))
	}
}

// dryRunReport scores the selected contacts and reports what a real run
// would write, without touching the store.
func dryRunReport(ctx context.Context, store core.Store, ownerID string, ids []string) (*core.RescoreReport, error) {
	contacts, err := store.Contacts().FindByOwner(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	report := &core.RescoreReport{
		Updates:      []core.ScoreUpdate{},
		Distribution: map[string]int{},
	}
	if len(contacts) == 0 {
		return report, nil
	}

	now := time.Now()
	total := 0
	for i := range contacts {
		c := &contacts[i]
		newScore := core.ScoreContact(c, now)
		report.Updates = append(report.Updates, core.ScoreUpdate{
			ContactID:     c.ID,
			PreviousScore: c.Engagement.Score,
			NewScore:      newScore,
			Delta:         newScore - c.Engagement.Score,
		})
		report.Distribution[core.ScoreBucket(newScore)]++
		total += newScore
	}
	report.Summary = core.RescoreSummary{
		AverageScore:          float64(total) / float64(len(report.Updates)),
		HighEngagementCount:   report.Distribution[core.BucketHigh],
		MediumEngagementCount: report.Distribution[core.BucketMedium],
		LowEngagementCount:    report.Distribution[core.BucketLow],
	}

	return report, nil
}
