package enrich

import (
	"reflect"
	"testing"

	"pipeline_portal_backend/internal/pipeline/domain"
)

func TestIsInternational(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"", false},
		{"+1 212-555-0100", false},        // US
		{"+1 (416) 555-0199", true},       // Toronto
		{"+1 905 555 0116", true},         // Ontario
		{"+1 876-555-0143", true},         // Jamaica
		{"+41 79 123 45 67", true},        // Switzerland
		{"+44 20 7946 0958", true},        // UK
		{"(212) 555-0100", false},         // no dial prefix
		{"+12", false},                    // too short for an area code
	}
	for _, tc := range cases {
		if got := IsInternational(tc.phone); got != tc.want {
			t.Fatalf("IsInternational(%q): expected %v, got %v", tc.phone, tc.want, got)
		}
	}
}

func TestValueTier_BudgetBracketWins(t *testing.T) {
	cases := []struct {
		budget string
		want   domain.Tier
	}{
		{"$0 - $149", domain.TierLow},
		{"$150 - $499", domain.TierStandard},
		{"$500 - $999", domain.TierStandard},
		{"$1,000+", domain.TierHigh},
	}
	for _, tc := range cases {
		// Contradictory monetary value must not override the bracket.
		lead := domain.Lead{Budget: tc.budget, MonetaryValue: 99999}
		if tc.want == domain.TierHigh {
			lead.MonetaryValue = 0
		}
		if got := ValueTier(lead); got != tc.want {
			t.Fatalf("budget %q: expected %s, got %s", tc.budget, tc.want, got)
		}
	}
}

func TestValueTier_MonetaryFallback(t *testing.T) {
	cases := []struct {
		value float64
		want  domain.Tier
	}{
		{0, domain.TierLow},
		{149, domain.TierLow},
		{150, domain.TierStandard},
		{999, domain.TierStandard},
		{1000, domain.TierHigh},
		{2500, domain.TierHigh},
	}
	for _, tc := range cases {
		if got := ValueTier(domain.Lead{MonetaryValue: tc.value}); got != tc.want {
			t.Fatalf("value %.0f: expected %s, got %s", tc.value, tc.want, got)
		}
	}
}

func TestMissingInfo_OrderAndEmptiness(t *testing.T) {
	empty := domain.Lead{}
	want := []string{"artwork", "sizes", "quantity", "project_details"}
	if got := MissingInfo(empty); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	partial := domain.Lead{
		Artwork:  []string{"https://files.example.com/logo.png"},
		Quantity: "48",
	}
	want = []string{"sizes", "project_details"}
	if got := MissingInfo(partial); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	full := domain.Lead{
		Artwork:        []string{"a.png"},
		Sizes:          "S-XL",
		Quantity:       "100",
		ProjectDetails: "50 hoodies front print",
	}
	if got := MissingInfo(full); len(got) != 0 {
		t.Fatalf("expected nothing missing, got %v", got)
	}
}

func TestWaitingOnArtwork(t *testing.T) {
	cases := []struct {
		details string
		want    bool
	}{
		{"", false},
		{"Customer will provide vector file next week", true},
		{"Designing a NEW LOGO for the event", true},
		{"Artwork attached, ready to quote", false},
	}
	for _, tc := range cases {
		lead := domain.Lead{ProjectDetails: tc.details}
		if got := WaitingOnArtwork(lead); got != tc.want {
			t.Fatalf("details %q: expected %v, got %v", tc.details, tc.want, got)
		}
	}
}
