package rules

import "testing"

func testTable() Table[string] {
	return Table[string]{
		Rules: []Rule[string]{
			{Name: "empty", Match: Blank(), Result: "none"},
			{Name: "first", Match: ContainsAny("alpha", "beta"), Result: "A"},
			{Name: "second", Match: ContainsAny("alphabet"), Result: "B"},
			{Name: "both", Match: ContainsAll("x", "y"), Result: "XY"},
		},
		Fallback: "default",
	}
}

func TestTable_FirstMatchWins(t *testing.T) {
	tbl := testTable()

	// "alphabet" also satisfies the earlier "alpha" rule.
	got, name := tbl.Trace("Alphabet soup")
	if got != "A" || name != "first" {
		t.Errorf("expected first rule to win, got %q via %q", got, name)
	}
}

func TestTable_Evaluate(t *testing.T) {
	tbl := testTable()
	tests := []struct {
		in   string
		want string
	}{
		{"", "none"},
		{"   ", "none"},
		{"BETA", "A"},
		{"x and y", "XY"},
		{"only x", "default"},
		{"unrelated", "default"},
	}
	for _, tt := range tests {
		if got := tbl.Evaluate(tt.in); got != tt.want {
			t.Errorf("Evaluate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTable_TraceFallback(t *testing.T) {
	_, name := testTable().Trace("nothing here")
	if name != FallbackName {
		t.Errorf("expected fallback, got %q", name)
	}
}

func TestTable_NilPredicateSkipped(t *testing.T) {
	tbl := Table[int]{Rules: []Rule[int]{{Name: "nil", Result: 1}}, Fallback: 2}
	if got := tbl.Evaluate("anything"); got != 2 {
		t.Errorf("expected fallback 2, got %d", got)
	}
}

func TestCombinators(t *testing.T) {
	high := All(ContainsAny("high"), Not(ContainsAny("high risk")))
	if !high("very high") {
		t.Error("expected 'very high' to match")
	}
	if high("high risk") {
		t.Error("expected 'high risk' to be excluded")
	}
	if !Any(EqualsAny("unknown"), Blank())(" unknown ") {
		t.Error("expected EqualsAny to ignore surrounding space")
	}
}

func TestContainsExcluding(t *testing.T) {
	normal := ContainsExcluding("normal", "abnormal")
	tests := map[string]bool{
		"normal":                         true,
		"abnormal":                       false,
		"within normal limits":           true,
		"abnormal ecg, otherwise normal": true,
		"":                               false,
	}
	for in, want := range tests {
		if got := normal(in); got != want {
			t.Errorf("ContainsExcluding(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"AT RISK":     "at risk",
		"Ｎｏｒｍａｌ":      "normal",
		"ﬁne":         "fine",
		"At-Risk-ish": "at risk ish",
		"pap_smear":   "pap smear",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"pap_smear":                 "Pap Smear",
		"cardiac_history_in_family": "Cardiac History In Family",
		"":                          "",
		"  mammogram ":              "Mammogram",
	}
	for in, want := range tests {
		if got := Humanize(in); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
