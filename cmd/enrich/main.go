// One-shot refresh: collects the pipeline and conversations, runs the
// enrichment engine, stores the snapshots, and prints a run summary to
// stdout. Useful for local checks without the API or the worker running.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"pipeline_portal_backend/internal/crm"
	"pipeline_portal_backend/internal/enrich"
	"pipeline_portal_backend/internal/pipeline"
	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/internal/snapshots"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	// Redis is optional here; without it the CRM client falls back to the
	// static token.
	var rdb *redis.Client
	if cfg.GetRedisURL() != "" {
		opt, err := redis.ParseURL(cfg.GetRedisURL())
		if err != nil {
			panic("invalid REDIS_URL: " + err.Error())
		}
		rdb = redis.NewClient(opt)
		defer func() { _ = rdb.Close() }()
	}

	store, err := snapshots.New(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize snapshot store", "error", err)
		panic("failed to initialize snapshot store: " + err.Error())
	}

	crmModule := crm.NewModule(cfg, rdb, log)
	enrichModule := enrich.NewModule(cfg, log)

	runner := pipeline.NewRunner(
		crmModule.Pipeline(),
		crmModule.Conversations(),
		enrichModule.Service(),
		store,
		nil,
		log,
	)

	start := time.Now()
	summary, err := runner.Refresh(ctx)
	if err != nil {
		log.Error("refresh failed", "error", err)
		os.Exit(1)
	}

	printSummary(summary, time.Since(start))
}

func printSummary(s enrich.Summary, elapsed time.Duration) {
	fmt.Printf("Enriched %d leads in %s\n\n", s.Leads, elapsed.Round(time.Millisecond))

	fmt.Println("Suggested actions:")
	for _, action := range sortedKeys(s.ActionCounts) {
		fmt.Printf("  %-22s %d\n", action, s.ActionCounts[domain.Action(action)])
	}

	fmt.Println("\nPriorities:")
	for _, priority := range sortedKeys(s.PriorityCounts) {
		fmt.Printf("  %-22s %d\n", priority, s.PriorityCounts[domain.Priority(priority)])
	}

	fmt.Println("\nOutbound messages (manual/automated):")
	for _, channel := range []string{domain.ChannelEmail, domain.ChannelSMS, domain.ChannelCall} {
		tally := s.Outbound[channel]
		if tally == nil {
			continue
		}
		fmt.Printf("  %-22s %d/%d\n", channel, tally.Manual, tally.Automated)
	}

	if len(s.InactiveSummary) > 0 {
		fmt.Println("\nInactive stages:")
		for _, stage := range sortedKeys(s.InactiveSummary) {
			fmt.Printf("  %-22s %d\n", stage, s.InactiveSummary[stage])
		}
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
