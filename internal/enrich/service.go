// Package enrich implements the lead enrichment and action-recommendation
// engine: temporal math, classifiers, the record merger, the decision tree,
// the cooldown filter, and the run aggregator. The engine is purely
// functional over its two input snapshots and a clock captured once per run.
package enrich

import (
	"context"
	"time"

	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service runs the per-lead enrichment pipeline over a snapshot pair.
type Service struct {
	log         *logger.Logger
	maxParallel int
}

// New creates the enrichment service. maxParallel bounds the per-lead
// fan-out; values below 1 run sequentially.
func New(log *logger.Logger, maxParallel int) *Service {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Service{log: log, maxParallel: maxParallel}
}

// EnrichLead runs the full merge → decide → cooldown chain for one lead.
// The ordering is mandatory: cooldown only makes sense applied to an
// already-decided action.
func EnrichLead(lead domain.Lead, meta *domain.ConversationMeta, now time.Time) domain.EnrichedLead {
	enriched := Merge(lead, meta, now)
	decision := ApplyCooldown(enriched, Decide(enriched))
	enriched.SuggestedAction = decision.Action
	enriched.SuggestedPriority = decision.Priority
	enriched.Hint = decision.Hint
	return enriched
}

// Run enriches every active lead in the pipeline snapshot. The conversation
// snapshot may be nil (degraded mode); every lead is then marked
// noConversation and the run still succeeds. The clock is captured once so
// all leads and all three decision stages see the same reference time.
func (s *Service) Run(ctx context.Context, pipeline domain.PipelineSnapshot, convos domain.ConversationSnapshot) (domain.Output, Summary) {
	now := time.Now().UTC()
	return s.RunAt(ctx, now, pipeline, convos)
}

// RunAt is Run with an explicit reference time, used by callers that
// already captured a clock and by tests.
func (s *Service) RunAt(ctx context.Context, now time.Time, pipeline domain.PipelineSnapshot, convos domain.ConversationSnapshot) (domain.Output, Summary) {
	runID := uuid.NewString()
	start := time.Now()

	leads := make([]domain.EnrichedLead, len(pipeline.Active))

	// Leads are independent, so the map is embarrassingly parallel.
	// Cancellation leaves the remaining slots as zero-valued leads.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, lead := range pipeline.Active {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var meta *domain.ConversationMeta
			if convos != nil {
				meta = convos[lead.ContactID]
			}
			leads[i] = EnrichLead(lead, meta, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil && s.log != nil {
		s.log.Warn("enrichment run interrupted", "error", err)
	}

	output := domain.Output{
		Leads:            leads,
		InactiveSummary:  pipeline.InactiveSummary,
		InactiveContacts: pipeline.InactiveContacts,
	}
	summary := Aggregate(output)

	if s.log != nil {
		s.log.EnrichmentRun(runID, len(leads), convos == nil,
			float64(time.Since(start).Microseconds())/1000.0)
	}

	return output, summary
}
