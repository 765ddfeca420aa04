package medicalreport

import "github.com/occhealth/occhealth/internal/platform/rules"

// RiskStatus is the canonical status of a cardiovascular/lifestyle risk factor.
type RiskStatus string

const (
	RiskNone   RiskStatus = "No Risk"
	RiskLow    RiskStatus = "Low Risk"
	RiskMedium RiskStatus = "Medium"
	RiskAt     RiskStatus = "At Risk"
)

// ExamStatus is the status of an examination or laboratory result. It is
// semi-closed: unrecognized raw text passes through unchanged.
type ExamStatus string

const (
	ExamNormal               ExamStatus = "Normal"
	ExamOutOfRangeAcceptable ExamStatus = "Out of Range, Acceptable"
	ExamAbnormal             ExamStatus = "Abnormal"
	ExamNotDone              ExamStatus = "Not Done"
)

// IsCanonical reports whether s is one of the four closed values rather than
// passed-through raw text.
func (s ExamStatus) IsCanonical() bool {
	switch s {
	case ExamNormal, ExamOutOfRangeAcceptable, ExamAbnormal, ExamNotDone:
		return true
	}
	return false
}

// MentalHealthLevel is the canonical level of a mental-health indicator.
type MentalHealthLevel string

const (
	MentalLow    MentalHealthLevel = "Low"
	MentalMedium MentalHealthLevel = "Medium"
	MentalHigh   MentalHealthLevel = "High"
)

// "normal" never matches inside "abnormal"; otherwise every abnormal
// keyword below would be shadowed by the normal rule.
var mentionsNormal = rules.ContainsExcluding("normal", "abnormal")

// Unrecognized risk text falls back to Low Risk rather than an unknown tier.
var riskStatusRules = rules.Table[RiskStatus]{
	Rules: []rules.Rule[RiskStatus]{
		{Name: "blank", Match: rules.Blank(), Result: RiskLow},
		{Name: "no-risk", Match: rules.Any(rules.ContainsAny("no risk", "negative"), mentionsNormal), Result: RiskNone},
		{Name: "low-risk", Match: rules.ContainsAny("low risk", "low"), Result: RiskLow},
		{Name: "medium", Match: rules.ContainsAny("medium", "moderate"), Result: RiskMedium},
		{Name: "at-risk", Match: rules.ContainsAny("at risk", "high", "abnormal"), Result: RiskAt},
	},
	Fallback: RiskLow,
}

// examStatusRules has no fallback: unmatched input is passed through by
// NormalizeExamStatus.
var examStatusRules = rules.Table[ExamStatus]{
	Rules: []rules.Rule[ExamStatus]{
		{Name: "not-done", Match: rules.Any(rules.Blank(), rules.EqualsAny("not done", "unknown")), Result: ExamNotDone},
		{Name: "normal", Match: rules.Any(mentionsNormal, rules.ContainsAny("negative")), Result: ExamNormal},
		{Name: "out-of-range-acceptable", Match: rules.ContainsAll("out of range", "acceptable"), Result: ExamOutOfRangeAcceptable},
		{Name: "abnormal", Match: rules.ContainsAny("abnormal", "positive"), Result: ExamAbnormal},
	},
}

var mentalHealthRules = rules.Table[MentalHealthLevel]{
	Rules: []rules.Rule[MentalHealthLevel]{
		{Name: "blank", Match: rules.Blank(), Result: MentalMedium},
		{Name: "low", Match: rules.ContainsAny("low"), Result: MentalLow},
		{Name: "high", Match: rules.ContainsAny("high"), Result: MentalHigh},
	},
	Fallback: MentalMedium,
}

// NormalizeRiskStatus maps free text to a RiskStatus. It is total.
func NormalizeRiskStatus(raw Text) RiskStatus {
	return riskStatusRules.Evaluate(string(raw))
}

// NormalizeExamStatus maps free text to an ExamStatus, passing unrecognized
// text through unchanged.
func NormalizeExamStatus(raw Text) ExamStatus {
	status, rule := examStatusRules.Trace(string(raw))
	if rule == rules.FallbackName {
		return ExamStatus(raw)
	}
	return status
}

// NormalizeMentalHealthLevel maps free text to a MentalHealthLevel. It is total.
func NormalizeMentalHealthLevel(raw Text) MentalHealthLevel {
	return mentalHealthRules.Evaluate(string(raw))
}
