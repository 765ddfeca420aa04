package medicalreport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRiskPanel(t *testing.T) {
	if len(RiskPanel) != 15 {
		t.Fatalf("expected 15 panel factors, got %d", len(RiskPanel))
	}
	seen := make(map[string]bool)
	for _, def := range RiskPanel {
		if seen[def.Key] {
			t.Errorf("duplicate panel key %q", def.Key)
		}
		seen[def.Key] = true
		want := RiskLow
		if def.Key == "alcohol_consumption" || def.Key == "smoking" {
			want = RiskNone
		}
		if def.AbsentDefault != want {
			t.Errorf("%s: absent default %q, want %q", def.Key, def.AbsentDefault, want)
		}
	}
}

func TestEvaluateRiskFactors_Absent(t *testing.T) {
	factors := EvaluateRiskFactors(nil)
	if len(factors) != len(RiskPanel) {
		t.Fatalf("expected %d factors, got %d", len(RiskPanel), len(factors))
	}
	for i, f := range factors {
		if f.Key != RiskPanel[i].Key {
			t.Errorf("factor %d: key %q, want panel order %q", i, f.Key, RiskPanel[i].Key)
		}
		if f.Status != RiskPanel[i].AbsentDefault {
			t.Errorf("%s: status %q, want %q", f.Key, f.Status, RiskPanel[i].AbsentDefault)
		}
		if f.Severity != SeveritySuccess {
			t.Errorf("%s: severity %q, want success", f.Key, f.Severity)
		}
	}
}

func TestEvaluateRiskFactors_Values(t *testing.T) {
	factors := EvaluateRiskFactors(Section{
		"blood_pressure": "Elevated — monitor",
		"cholesterol":    "HIGH",
		"smoking":        "Moderate smoker",
		"diabetes":       "   ",
		"unrelated_key":  "At Risk",
	})
	byKey := make(map[string]RiskFactor)
	for _, f := range factors {
		byKey[f.Key] = f
	}
	if _, ok := byKey["unrelated_key"]; ok {
		t.Error("expected keys outside the panel to be ignored")
	}
	tests := map[string]struct {
		status   RiskStatus
		severity SeverityTier
	}{
		"blood_pressure": {RiskLow, SeveritySuccess},
		"cholesterol":    {RiskAt, SeverityDanger},
		"smoking":        {RiskMedium, SeverityCaution},
		"diabetes":       {RiskLow, SeveritySuccess},
	}
	for key, want := range tests {
		f := byKey[key]
		if f.Status != want.status || f.Severity != want.severity {
			t.Errorf("%s: got %q/%q, want %q/%q", key, f.Status, f.Severity, want.status, want.severity)
		}
	}
	if byKey["blood_pressure"].RawValue != "Elevated — monitor" {
		t.Errorf("expected raw value to be kept, got %q", byKey["blood_pressure"].RawValue)
	}
}

func TestDistribute_EmptyPanel(t *testing.T) {
	got := Distribute(EvaluateRiskFactors(Section{}))
	want := []RiskTierCount{
		{Tier: RiskLow, Count: 13, Percentage: 87},
		{Tier: RiskNone, Count: 2, Percentage: 13},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestDistribute_CountsSumToPanel(t *testing.T) {
	factors := EvaluateRiskFactors(Section{
		"age_and_gender": "At risk",
		"cholesterol":    "high",
		"exercise":       "moderate",
		"obesity":        "normal",
	})
	total := 0
	for _, row := range Distribute(factors) {
		total += row.Count
	}
	if total != len(RiskPanel) {
		t.Errorf("expected counts to sum to %d, got %d", len(RiskPanel), total)
	}
}

func TestDistribute_TiesKeepFirstSeenOrder(t *testing.T) {
	factors := []RiskFactor{
		{Status: RiskMedium},
		{Status: RiskAt},
		{Status: RiskAt},
		{Status: RiskMedium},
		{Status: RiskNone},
	}
	got := Distribute(factors)
	want := []RiskTierCount{
		{Tier: RiskMedium, Count: 2, Percentage: 40},
		{Tier: RiskAt, Count: 2, Percentage: 40},
		{Tier: RiskNone, Count: 1, Percentage: 20},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("distribution mismatch (-want +got):\n%s", diff)
	}
	if DominantTier(got) != RiskMedium {
		t.Errorf("expected Medium to dominate, got %q", DominantTier(got))
	}
}

func TestDistribute_Empty(t *testing.T) {
	got := Distribute(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil distribution, got %#v", got)
	}
	if DominantTier(got) != "" {
		t.Error("expected no dominant tier")
	}
}
