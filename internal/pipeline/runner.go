// Package pipeline orchestrates a full refresh cycle: collect the CRM
// pipeline, collect conversations, enrich, persist snapshots, and publish
// the dashboard board. The scheduler worker and the one-shot CLI both run
// refreshes through the same Runner.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"pipeline_portal_backend/internal/enrich"
	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/logger"
)

// PipelineCollector produces the active/inactive pipeline snapshot.
type PipelineCollector interface {
	Collect(ctx context.Context) (*domain.PipelineSnapshot, error)
}

// ConversationCollector produces per-contact conversation metadata for the
// given active leads.
type ConversationCollector interface {
	Collect(ctx context.Context, leads []domain.Lead) (domain.ConversationSnapshot, error)
}

// Store persists the intermediate and final snapshots of a run.
type Store interface {
	SavePipeline(ctx context.Context, snap *domain.PipelineSnapshot) error
	SaveConversations(ctx context.Context, snap domain.ConversationSnapshot) error
	SaveOutput(ctx context.Context, out *domain.Output) error
}

// Enricher turns a snapshot pair into enriched leads.
type Enricher interface {
	RunAt(ctx context.Context, now time.Time, pipeline domain.PipelineSnapshot, convos domain.ConversationSnapshot) (domain.Output, enrich.Summary)
}

// Publisher rebuilds the operator-facing board from the latest output.
type Publisher interface {
	Publish(ctx context.Context) error
}

// Runner executes a complete refresh. A nil Publisher skips the board
// rebuild, which the one-shot CLI uses when no dashboard is wired.
type Runner struct {
	pipeline      PipelineCollector
	conversations ConversationCollector
	enricher      Enricher
	store         Store
	publisher     Publisher
	log           *logger.Logger
}

func NewRunner(pipeline PipelineCollector, conversations ConversationCollector, enricher Enricher, store Store, publisher Publisher, log *logger.Logger) *Runner {
	return &Runner{
		pipeline:      pipeline,
		conversations: conversations,
		enricher:      enricher,
		store:         store,
		publisher:     publisher,
		log:           log,
	}
}

// Refresh runs one end-to-end cycle and returns the run summary. A failed
// pipeline collection aborts the run; a failed conversation collection
// degrades it, the enrichment then runs without conversation context.
func (r *Runner) Refresh(ctx context.Context) (enrich.Summary, error) {
	now := time.Now().UTC()

	snap, err := r.pipeline.Collect(ctx)
	if err != nil {
		return enrich.Summary{}, fmt.Errorf("collect pipeline: %w", err)
	}
	if err := r.store.SavePipeline(ctx, snap); err != nil {
		return enrich.Summary{}, fmt.Errorf("save pipeline snapshot: %w", err)
	}

	convos, err := r.conversations.Collect(ctx, snap.Active)
	if err != nil {
		r.log.Warn("conversation collection failed, continuing without conversation context", "error", err)
		convos = nil
	} else if err := r.store.SaveConversations(ctx, convos); err != nil {
		return enrich.Summary{}, fmt.Errorf("save conversation snapshot: %w", err)
	}

	out, summary := r.enricher.RunAt(ctx, now, *snap, convos)
	if err := r.store.SaveOutput(ctx, &out); err != nil {
		return enrich.Summary{}, fmt.Errorf("save enriched output: %w", err)
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx); err != nil {
			return enrich.Summary{}, fmt.Errorf("publish dashboard: %w", err)
		}
	}

	r.log.Info("refresh complete",
		"active_leads", len(snap.Active),
		"inactive_contacts", len(snap.InactiveContacts),
		"degraded", convos == nil,
	)
	return summary, nil
}
