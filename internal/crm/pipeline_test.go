package crm

import (
	"testing"
	"time"

	"pipeline_portal_backend/internal/crm/transport"
	"pipeline_portal_backend/internal/pipeline/domain"
	"pipeline_portal_backend/platform/logger"
)

func testPipelineCollector() *PipelineCollector {
	return &PipelineCollector{
		activeStages: map[string]string{
			"stage-new":   "New Lead",
			"stage-quote": "Quote Sent",
		},
		inactiveStages: map[string]string{
			"stage-sale":   "Sale",
			"stage-cooled": "Cooled Off",
		},
		customFields: map[string]string{
			"cf-artwork":  "artwork",
			"cf-quantity": "quantity",
			"cf-budget":   "budget",
		},
		log: logger.New("development"),
	}
}

func ft(t time.Time) domain.FlexTime { return domain.NewFlexTime(t) }

func TestPipelineBuild_SplitsActiveAndInactive(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	opps := []transport.Opportunity{
		{
			ID:              "opp-1",
			Contact:         transport.Contact{ID: "c-1", Name: "Ada", Email: "ada@example.com", Phone: "(212) 555-0100"},
			PipelineStageID: "stage-quote",
			CreatedAt:       ft(now.AddDate(0, 0, -10)),
			MonetaryValue:   500,
		},
		{
			ID:              "opp-2",
			Contact:         transport.Contact{ID: "c-2", Name: "Sold Lead"},
			PipelineStageID: "stage-sale",
		},
		{
			ID:              "opp-3",
			Contact:         transport.Contact{ID: "c-3", Name: "Gone Cold"},
			PipelineStageID: "stage-cooled",
		},
		{
			ID:              "opp-4",
			Contact:         transport.Contact{ID: "c-4"},
			PipelineStageID: "stage-unmapped",
		},
	}

	snap := testPipelineCollector().build(opps, now)

	if len(snap.Active) != 1 {
		t.Fatalf("active = %d, want 1", len(snap.Active))
	}
	lead := snap.Active[0]
	if lead.Stage != "Quote Sent" {
		t.Errorf("stage = %q, want Quote Sent", lead.Stage)
	}
	if lead.ContactID != "c-1" {
		t.Errorf("contactId = %q, want c-1", lead.ContactID)
	}
	if lead.Phone != "+12125550100" {
		t.Errorf("phone = %q, want +12125550100", lead.Phone)
	}
	if lead.DaysCreated != 10 {
		t.Errorf("days_created = %d, want 10", lead.DaysCreated)
	}
	if snap.InactiveSummary["Sale"] != 1 || snap.InactiveSummary["Cooled Off"] != 1 {
		t.Errorf("inactive summary = %v", snap.InactiveSummary)
	}
	if len(snap.InactiveContacts) != 2 {
		t.Fatalf("inactive contacts = %d, want 2", len(snap.InactiveContacts))
	}
	if snap.InactiveContacts[0].Stage != "Sale" {
		t.Errorf("inactive stage = %q, want Sale", snap.InactiveContacts[0].Stage)
	}
}

func TestPipelineBuild_CustomFieldExtraction(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	opps := []transport.Opportunity{{
		ID:              "opp-1",
		Contact:         transport.Contact{ID: "c-1", Name: "Ada"},
		PipelineStageID: "stage-new",
		CreatedAt:       ft(now.AddDate(0, 0, -1)),
		CustomFields: []transport.CustomField{
			{ID: "cf-artwork", FieldValueFiles: []transport.FileValue{{URL: "https://cdn/a.png"}, {URL: "https://cdn/b.png"}}},
			{ID: "cf-quantity", FieldValueString: "150"},
			{ID: "cf-budget", FieldValueString: "$500 - $999"},
			{ID: "cf-unknown", FieldValueString: "ignored"},
		},
	}}

	snap := testPipelineCollector().build(opps, now)
	lead := snap.Active[0]

	if len(lead.Artwork) != 2 || lead.Artwork[0] != "https://cdn/a.png" {
		t.Errorf("artwork = %v", lead.Artwork)
	}
	if lead.Quantity != "150" {
		t.Errorf("quantity = %q, want 150", lead.Quantity)
	}
	if lead.Budget != "$500 - $999" {
		t.Errorf("budget = %q", lead.Budget)
	}
}

func TestPipelineBuild_StageChangeFallbacks(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	created := now.AddDate(0, 0, -20)

	cases := []struct {
		name string
		opp  transport.Opportunity
		want int
	}{
		{
			name: "stage change preferred",
			opp: transport.Opportunity{
				PipelineStageID:   "stage-new",
				CreatedAt:         ft(created),
				LastStageChangeAt: ft(now.AddDate(0, 0, -3)),
			},
			want: 3,
		},
		{
			name: "status change fallback",
			opp: transport.Opportunity{
				PipelineStageID:    "stage-new",
				CreatedAt:          ft(created),
				LastStatusChangeAt: ft(now.AddDate(0, 0, -5)),
			},
			want: 5,
		},
		{
			name: "created fallback",
			opp: transport.Opportunity{
				PipelineStageID: "stage-new",
				CreatedAt:       ft(created),
			},
			want: 20,
		},
		{
			name: "unparseable timestamps report zero",
			opp: transport.Opportunity{
				PipelineStageID: "stage-new",
			},
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := testPipelineCollector().build([]transport.Opportunity{tc.opp}, now)
			if got := snap.Active[0].DaysInStage; got != tc.want {
				t.Errorf("days_in_stage = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPipelineBuild_MissingContactName(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	snap := testPipelineCollector().build([]transport.Opportunity{{
		PipelineStageID: "stage-new",
		Contact:         transport.Contact{ID: "c-1"},
	}}, now)
	if snap.Active[0].Name != "Unknown" {
		t.Errorf("name = %q, want Unknown", snap.Active[0].Name)
	}
}
