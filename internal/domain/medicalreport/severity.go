package medicalreport

import "github.com/occhealth/occhealth/internal/platform/rules"

// SeverityTier is the presentation tier a renderer uses to colour a value.
type SeverityTier string

const (
	SeveritySuccess SeverityTier = "success"
	SeverityCaution SeverityTier = "caution"
	SeverityDanger  SeverityTier = "danger"
	SeverityNeutral SeverityTier = "neutral"
)

// SeverityColors holds the fill and text colours of one tier.
type SeverityColors struct {
	Fill string `json:"fill"`
	Text string `json:"text"`
}

// SeverityPalette is the one colour mapping for severity tiers. The report
// export and the analytics charts both read it.
var SeverityPalette = map[SeverityTier]SeverityColors{
	SeveritySuccess: {Fill: "#D1FAE5", Text: "#065F46"},
	SeverityCaution: {Fill: "#FEF3C7", Text: "#92400E"},
	SeverityDanger:  {Fill: "#FEE2E2", Text: "#991B1B"},
	SeverityNeutral: {Fill: "#F3F4F6", Text: "#374151"},
}

// Colors returns the palette entry for the tier, neutral for unknown tiers.
func (t SeverityTier) Colors() SeverityColors {
	if c, ok := SeverityPalette[t]; ok {
		return c
	}
	return SeverityPalette[SeverityNeutral]
}

// "high" alone is danger unless the text is the "high risk" phrase. Phrases
// such as "very high" therefore still land in danger.
var severityRules = rules.Table[SeverityTier]{
	Rules: []rules.Rule[SeverityTier]{
		{
			Name:   "success",
			Match:  rules.Any(mentionsNormal, rules.ContainsAny("no risk", "low risk", "negative", "excellent", "good", "very good")),
			Result: SeveritySuccess,
		},
		{
			Name:   "caution",
			Match:  rules.ContainsAny("medium", "out of range", "fair", "not done", "elevated risk"),
			Result: SeverityCaution,
		},
		{
			Name: "danger",
			Match: rules.Any(
				rules.ContainsAny("at risk", "abnormal", "positive", "high risk"),
				rules.All(rules.ContainsAny("high"), rules.Not(rules.ContainsAny("high risk"))),
			),
			Result: SeverityDanger,
		},
	},
	Fallback: SeverityNeutral,
}

// ClassifySeverity assigns a presentation tier to a raw or normalized value.
// Exam-style values are normalized first; blank input is neutral.
func ClassifySeverity(value Text) SeverityTier {
	if value.IsBlank() {
		return SeverityNeutral
	}
	return severityRules.Evaluate(string(NormalizeExamStatus(value)))
}
