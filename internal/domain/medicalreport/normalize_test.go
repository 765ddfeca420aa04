package medicalreport

import "testing"

var garbageInputs = []Text{"", "   ", "null", "Unknown", "???", "42", "{\"a\":1}", "lorem ipsum dolor"}

func TestNormalizeRiskStatus(t *testing.T) {
	tests := []struct {
		in   Text
		want RiskStatus
	}{
		{"", RiskLow},
		{"No risk identified", RiskNone},
		{"Normal", RiskNone},
		{"negative", RiskNone},
		{"Low", RiskLow},
		{"low risk", RiskLow},
		{"Moderate", RiskMedium},
		{"MEDIUM", RiskMedium},
		{"AT RISK", RiskAt},
		{"at risk", RiskAt},
		{"At-Risk-ish", RiskAt},
		{"High", RiskAt},
		{"Abnormal", RiskAt},
		{"Elevated — monitor", RiskLow},
		{"something else entirely", RiskLow},
	}
	for _, tt := range tests {
		if got := NormalizeRiskStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeRiskStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRiskStatus_Total(t *testing.T) {
	valid := map[RiskStatus]bool{RiskNone: true, RiskLow: true, RiskMedium: true, RiskAt: true}
	for _, in := range garbageInputs {
		if got := NormalizeRiskStatus(in); !valid[got] {
			t.Errorf("NormalizeRiskStatus(%q) = %q, not a RiskStatus", in, got)
		}
	}
}

func TestNormalizeRiskStatus_Idempotent(t *testing.T) {
	for _, s := range []RiskStatus{RiskNone, RiskLow, RiskMedium, RiskAt} {
		if got := NormalizeRiskStatus(Text(s)); got != s {
			t.Errorf("NormalizeRiskStatus(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestNormalizeRiskStatus_OrderMatters(t *testing.T) {
	// "normal" is checked before "high".
	if got := NormalizeRiskStatus("normal, high end"); got != RiskNone {
		t.Errorf("expected No Risk, got %q", got)
	}
	// "low" is checked before "high".
	if got := NormalizeRiskStatus("low to high"); got != RiskLow {
		t.Errorf("expected Low Risk, got %q", got)
	}
}

func TestNormalizeExamStatus(t *testing.T) {
	tests := []struct {
		in   Text
		want ExamStatus
	}{
		{"", ExamNotDone},
		{"Not Done", ExamNotDone},
		{"Unknown", ExamNotDone},
		{"Normal", ExamNormal},
		{"Within normal limits", ExamNormal},
		{"HIV Negative", ExamNormal},
		{"Out of range, acceptable", ExamOutOfRangeAcceptable},
		{"Out-of-range but acceptable", ExamOutOfRangeAcceptable},
		{"Abnormal", ExamAbnormal},
		{"Positive", ExamAbnormal},
		{"Out of range", "Out of range"},
		{"5.2 mmol/L", "5.2 mmol/L"},
	}
	for _, tt := range tests {
		if got := NormalizeExamStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeExamStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeExamStatus_PassThrough(t *testing.T) {
	got := NormalizeExamStatus("Pending lab")
	if got != "Pending lab" {
		t.Errorf("expected raw value passed through, got %q", got)
	}
	if got.IsCanonical() {
		t.Error("expected pass-through value to be non-canonical")
	}
	if !ExamAbnormal.IsCanonical() {
		t.Error("expected Abnormal to be canonical")
	}
}

func TestNormalizeExamStatus_Idempotent(t *testing.T) {
	for _, s := range []ExamStatus{ExamNormal, ExamOutOfRangeAcceptable, ExamAbnormal, ExamNotDone} {
		if got := NormalizeExamStatus(Text(s)); got != s {
			t.Errorf("NormalizeExamStatus(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestNormalizeMentalHealthLevel(t *testing.T) {
	tests := []struct {
		in   Text
		want MentalHealthLevel
	}{
		{"", MentalMedium},
		{"Low", MentalLow},
		{"below threshold", MentalLow},
		{"HIGH", MentalHigh},
		{"moderate", MentalMedium},
		{"Medium", MentalMedium},
	}
	for _, tt := range tests {
		if got := NormalizeMentalHealthLevel(tt.in); got != tt.want {
			t.Errorf("NormalizeMentalHealthLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeMentalHealthLevel_TotalAndIdempotent(t *testing.T) {
	valid := map[MentalHealthLevel]bool{MentalLow: true, MentalMedium: true, MentalHigh: true}
	for _, in := range garbageInputs {
		if got := NormalizeMentalHealthLevel(in); !valid[got] {
			t.Errorf("NormalizeMentalHealthLevel(%q) = %q, not a level", in, got)
		}
	}
	for l := range valid {
		if got := NormalizeMentalHealthLevel(Text(l)); got != l {
			t.Errorf("NormalizeMentalHealthLevel(%q) = %q, want unchanged", l, got)
		}
	}
}
