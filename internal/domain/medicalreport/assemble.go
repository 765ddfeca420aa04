package medicalreport

import "github.com/occhealth/occhealth/internal/platform/rules"

// Narrative keys carry free text for the renderer and are never classified.
var narrativeKeys = map[string]bool{
	"notes":    true,
	"comments": true,
	"summary":  true,
}

// Assemble builds the normalized view of raw. It is pure and total: a nil or
// partial report yields a partial result, never an error. The same input
// always produces the same output.
func Assemble(raw *RawMedicalReport) *NormalizedReport {
	if raw == nil {
		raw = &RawMedicalReport{}
	}

	factors := EvaluateRiskFactors(raw.CardiovascularStrokeRisk)
	gender := raw.PersonalDetails.Get("gender")

	return &NormalizedReport{
		ReportHeading:            raw.ReportHeading.clone(),
		PersonalDetails:          Biometrics(raw.PersonalDetails),
		Overview:                 raw.Overview.clone(),
		CardiovascularStrokeRisk: raw.CardiovascularStrokeRisk.clone(),
		LabTests:                 raw.LabTests.clone(),
		ClinicalExaminations:     raw.ClinicalExaminations.clone(),
		SpecialInvestigations:    raw.SpecialInvestigations.clone(),
		MentalHealth:             raw.MentalHealth.clone(),
		MedicalHistory:           raw.MedicalHistory.clone(),
		Allergies:                raw.Allergies.clone(),
		Screening:                raw.Screening.clone(),
		NotesRecommendations:     raw.NotesRecommendations.clone(),
		RiskFactors:              factors,
		RiskDistribution:         Distribute(factors),
		LabResults:               examResults(raw.LabTests),
		ClinicalResults:          examResults(raw.ClinicalExaminations),
		SpecialResults:           examResults(raw.SpecialInvestigations),
		MentalHealthLevels:       mentalHealthLevels(raw.MentalHealth),
		GenderScreenings:         GenderScreenings(gender, raw.Screening),
		Sections:                 SelectSections(raw),
	}
}

func examResults(s Section) []ExamResult {
	out := []ExamResult{}
	for _, k := range s.Keys() {
		if narrativeKeys[k] {
			continue
		}
		v := s[k]
		out = append(out, ExamResult{
			Key:      k,
			Label:    rules.Humanize(k),
			RawValue: v.String(),
			Status:   NormalizeExamStatus(v),
			Severity: ClassifySeverity(v),
		})
	}
	return out
}

func mentalHealthLevels(s Section) []MentalHealthIndicator {
	out := []MentalHealthIndicator{}
	for _, k := range s.Keys() {
		if narrativeKeys[k] {
			continue
		}
		v := s[k]
		level := NormalizeMentalHealthLevel(v)
		out = append(out, MentalHealthIndicator{
			Key:      k,
			Label:    rules.Humanize(k),
			RawValue: v.String(),
			Level:    level,
			Severity: ClassifySeverity(Text(level)),
		})
	}
	return out
}
