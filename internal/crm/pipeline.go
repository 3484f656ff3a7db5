package crm

import (
	"context"
	"time"

	"pipeline_portal_backend/internal/crm/transport"
	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/config"
	"pipeline_portal_backend/platform/logger"
	"pipeline_portal_backend/platform/phone"
)

// PipelineCollector turns raw opportunity search results into a
// PipelineSnapshot: active leads with their custom fields flattened,
// inactive stages reduced to counts.
type PipelineCollector struct {
	client         *Client
	locationID     string
	pipelineID     string
	activeStages   map[string]string
	inactiveStages map[string]string
	customFields   map[string]string
	log            *logger.Logger
}

// NewPipelineCollector creates a pipeline collector.
func NewPipelineCollector(client *Client, cfg config.CRMConfig, log *logger.Logger) *PipelineCollector {
	return &PipelineCollector{
		client:         client,
		locationID:     cfg.GetCRMLocationID(),
		pipelineID:     cfg.GetCRMPipelineID(),
		activeStages:   cfg.GetActiveStageMap(),
		inactiveStages: cfg.GetInactiveStageMap(),
		customFields:   cfg.GetCustomFieldMap(),
		log:            log,
	}
}

// Collect fetches the pipeline's opportunities and maps them into the
// snapshot. Opportunities in stages outside both stage maps are dropped.
func (p *PipelineCollector) Collect(ctx context.Context) (*domain.PipelineSnapshot, error) {
	opportunities, err := p.client.SearchOpportunities(ctx, p.pipelineID, p.locationID)
	if err != nil {
		return nil, err
	}
	return p.build(opportunities, time.Now().UTC()), nil
}

func (p *PipelineCollector) build(opportunities []transport.Opportunity, now time.Time) *domain.PipelineSnapshot {
	snap := &domain.PipelineSnapshot{
		Active:           []domain.Lead{},
		InactiveSummary:  map[string]int{},
		InactiveContacts: []domain.InactiveContact{},
	}

	for _, opp := range opportunities {
		stageID := opp.PipelineStageID

		if name, ok := p.activeStages[stageID]; ok {
			snap.Active = append(snap.Active, p.mapLead(opp, name, now))
			continue
		}
		if name, ok := p.inactiveStages[stageID]; ok {
			snap.InactiveSummary[name]++
			snap.InactiveContacts = append(snap.InactiveContacts, domain.InactiveContact{
				ContactID: opp.Contact.ID,
				Name:      contactName(opp.Contact),
				Stage:     name,
			})
		}
	}

	return snap
}

func (p *PipelineCollector) mapLead(opp transport.Opportunity, stageName string, now time.Time) domain.Lead {
	lead := domain.Lead{
		ID:            opp.ID,
		Name:          contactName(opp.Contact),
		Email:         opp.Contact.Email,
		Phone:         phone.NormalizeE164(opp.Contact.Phone),
		ContactID:     opp.Contact.ID,
		Stage:         stageName,
		StageID:       opp.PipelineStageID,
		Source:        opp.Source,
		MonetaryValue: opp.MonetaryValue,
		DaysCreated:   calendarDaysSince(opp.CreatedAt.Time, now),
		DaysInStage:   calendarDaysSince(stageChangedAt(opp), now),
	}

	for _, cf := range opp.CustomFields {
		name, ok := p.customFields[cf.ID]
		if !ok {
			continue
		}
		switch name {
		case "artwork":
			urls := make([]string, 0, len(cf.FieldValueFiles))
			for _, f := range cf.FieldValueFiles {
				urls = append(urls, f.URL)
			}
			lead.Artwork = urls
		case "quantity":
			lead.Quantity = cf.FieldValueString
		case "project_details":
			lead.ProjectDetails = cf.FieldValueString
		case "service_type":
			lead.ServiceType = cf.FieldValueString
		case "budget":
			lead.Budget = cf.FieldValueString
		case "sizes":
			lead.Sizes = cf.FieldValueString
		}
	}

	return lead
}

// stageChangedAt picks the most specific stage-change timestamp available,
// falling back to the creation time.
func stageChangedAt(opp transport.Opportunity) time.Time {
	if !opp.LastStageChangeAt.IsZero() {
		return opp.LastStageChangeAt.Time
	}
	if !opp.LastStatusChangeAt.IsZero() {
		return opp.LastStatusChangeAt.Time
	}
	return opp.CreatedAt.Time
}

// calendarDaysSince counts whole calendar days elapsed. Unparseable
// timestamps decode to the zero time and report zero days.
func calendarDaysSince(t, now time.Time) int {
	if t.IsZero() || t.After(now) {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}

func contactName(c transport.Contact) string {
	if c.Name == "" {
		return "Unknown"
	}
	return c.Name
}
