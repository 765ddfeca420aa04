package medicalreport

import (
	"math"
	"sort"
)

// RiskFactorDefinition is one entry of the fixed cardiovascular/stroke risk
// panel. AbsentDefault is reported when the factor is missing from the record.
type RiskFactorDefinition struct {
	Key           string
	Label         string
	AbsentDefault RiskStatus
}

// RiskPanel is the fixed, ordered 15-factor panel evaluated for every report.
// A missing alcohol or smoking entry is read as a non-drinker/non-smoker.
var RiskPanel = []RiskFactorDefinition{
	{Key: "age_and_gender", Label: "Age & Gender", AbsentDefault: RiskLow},
	{Key: "blood_pressure", Label: "Blood Pressure", AbsentDefault: RiskLow},
	{Key: "cholesterol", Label: "Cholesterol", AbsentDefault: RiskLow},
	{Key: "diabetes", Label: "Diabetes", AbsentDefault: RiskLow},
	{Key: "obesity", Label: "Obesity", AbsentDefault: RiskLow},
	{Key: "waist_to_hip_ratio", Label: "Waist-to-Hip Ratio", AbsentDefault: RiskLow},
	{Key: "overall_diet", Label: "Overall Diet", AbsentDefault: RiskLow},
	{Key: "exercise", Label: "Exercise", AbsentDefault: RiskLow},
	{Key: "alcohol_consumption", Label: "Alcohol Consumption", AbsentDefault: RiskNone},
	{Key: "smoking", Label: "Smoking", AbsentDefault: RiskNone},
	{Key: "stress_level", Label: "Stress Level", AbsentDefault: RiskLow},
	{Key: "previous_cardiac_event", Label: "Previous Cardiac Event", AbsentDefault: RiskLow},
	{Key: "cardiac_history_in_family", Label: "Cardiac History in Family", AbsentDefault: RiskLow},
	{Key: "stroke_history_in_family", Label: "Stroke History in Family", AbsentDefault: RiskLow},
	{Key: "reynolds_risk_score", Label: "Reynolds Risk Score", AbsentDefault: RiskLow},
}

// RiskFactor is one evaluated panel entry.
type RiskFactor struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	RawValue string       `json:"raw_value"`
	Status   RiskStatus   `json:"status"`
	Severity SeverityTier `json:"severity"`
}

// RiskTierCount is one row of a risk distribution.
type RiskTierCount struct {
	Tier       RiskStatus `json:"tier"`
	Count      int        `json:"count"`
	Percentage int        `json:"percentage"`
}

// EvaluateRiskFactors runs every panel factor through NormalizeRiskStatus.
// The result always has len(RiskPanel) entries in panel order.
func EvaluateRiskFactors(section Section) []RiskFactor {
	factors := make([]RiskFactor, 0, len(RiskPanel))
	for _, def := range RiskPanel {
		raw := section.Get(def.Key)
		status := def.AbsentDefault
		if !raw.IsBlank() {
			status = NormalizeRiskStatus(raw)
		}
		factors = append(factors, RiskFactor{
			Key:      def.Key,
			Label:    def.Label,
			RawValue: raw.String(),
			Status:   status,
			Severity: ClassifySeverity(Text(status)),
		})
	}
	return factors
}

// Distribute tallies factors by status. Rows are sorted by count descending;
// equal counts keep the order in which the tier first appears in the panel.
// Percentages are rounded independently and may not sum to exactly 100.
func Distribute(factors []RiskFactor) []RiskTierCount {
	if len(factors) == 0 {
		return []RiskTierCount{}
	}
	index := make(map[RiskStatus]int)
	var dist []RiskTierCount
	for _, f := range factors {
		i, ok := index[f.Status]
		if !ok {
			i = len(dist)
			index[f.Status] = i
			dist = append(dist, RiskTierCount{Tier: f.Status})
		}
		dist[i].Count++
	}
	total := float64(len(factors))
	for i := range dist {
		dist[i].Percentage = int(math.Round(float64(dist[i].Count) / total * 100))
	}
	sort.SliceStable(dist, func(a, b int) bool { return dist[a].Count > dist[b].Count })
	return dist
}

// DominantTier returns the most frequent tier of a distribution, or "" when
// the distribution is empty.
func DominantTier(dist []RiskTierCount) RiskStatus {
	if len(dist) == 0 {
		return ""
	}
	return dist[0].Tier
}
