package medicalreport

import "strings"

const (
	unknownLiteral     = "Unknown"
	notRequiredLiteral = "Not Required"
	femaleLiteral      = "Female"
)

// Screening is one gender-specific screening line of the report.
type Screening struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type screeningField struct {
	key   string
	label string
}

var (
	femaleScreenings = []screeningField{
		{"colonoscopy", "Colonoscopy"},
		{"mammogram", "Mammogram"},
		{"pap_smear", "Pap Smear"},
	}
	maleScreenings = []screeningField{
		{"colonoscopy", "Colonoscopy"},
		{"prostate_screening", "Prostate Screening"},
	}
)

// SectionPresence records which optional report blocks carry content.
type SectionPresence struct {
	ExecutiveSummary           bool `json:"executive_summary"`
	MedicalHistoryAndAllergies bool `json:"medical_history_and_allergies"`
	FamilyHistory              bool `json:"family_history"`
	MentalHealthNotes          bool `json:"mental_health_notes"`
	GenderHealthNotes          bool `json:"gender_health_notes"`
	GenderScreenings           bool `json:"gender_screenings"`
	LabTests                   bool `json:"lab_tests"`
	ClinicalExaminations       bool `json:"clinical_examinations"`
	SpecialInvestigations      bool `json:"special_investigations"`
	Recommendations            bool `json:"recommendations"`
}

// HasContent reports whether at least one value is neither blank nor the
// literal "Unknown".
func HasContent(s Section) bool {
	for _, v := range s {
		if v.IsBlank() || strings.TrimSpace(string(v)) == unknownLiteral {
			continue
		}
		return true
	}
	return false
}

// IsFemale reports whether the gender field selects the women's branch.
// The match is literal.
func IsFemale(gender Text) bool {
	return string(gender) == femaleLiteral
}

// GenderScreenings returns the screenings applicable to gender that were
// recorded and are not marked "Not Required".
func GenderScreenings(gender Text, screening Section) []Screening {
	candidates := maleScreenings
	if IsFemale(gender) {
		candidates = femaleScreenings
	}
	out := []Screening{}
	for _, c := range candidates {
		v := screening.Get(c.key)
		if v.IsBlank() || string(v) == notRequiredLiteral {
			continue
		}
		out = append(out, Screening{Key: c.key, Label: c.label, Value: v.String()})
	}
	return out
}

// GenderHealthNotesKey is the screening field holding the narrative for the
// gender-specific health block.
func GenderHealthNotesKey(gender Text) string {
	if IsFemale(gender) {
		return "womens_health_notes"
	}
	return "mens_health_notes"
}

// SelectSections decides which optional blocks the renderer should emit.
func SelectSections(raw *RawMedicalReport) SectionPresence {
	if raw == nil {
		return SectionPresence{}
	}
	gender := raw.PersonalDetails.Get("gender")
	return SectionPresence{
		ExecutiveSummary:           HasContent(raw.Overview),
		MedicalHistoryAndAllergies: HasContent(raw.MedicalHistory) || HasContent(raw.Allergies),
		FamilyHistory:              !raw.MedicalHistory.Get("family_history").IsBlank(),
		MentalHealthNotes:          !raw.MentalHealth.Get("notes").IsBlank(),
		GenderHealthNotes:          !raw.Screening.Get(GenderHealthNotesKey(gender)).IsBlank(),
		GenderScreenings:           len(GenderScreenings(gender, raw.Screening)) > 0,
		LabTests:                   HasContent(raw.LabTests),
		ClinicalExaminations:       HasContent(raw.ClinicalExaminations),
		SpecialInvestigations:      HasContent(raw.SpecialInvestigations),
		Recommendations:            HasContent(raw.NotesRecommendations),
	}
}
