package medicalreport

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Text is a tolerant scalar leaf. It decodes from any JSON value: null
// becomes the empty string, strings are kept verbatim and every other value
// keeps its compact JSON text. Decoding a Text never fails.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*t = ""
			return nil
		}
		*t = Text(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		*t = Text(b)
		return nil
	}
	*t = Text(buf.String())
	return nil
}

func (t Text) String() string { return string(t) }

// IsBlank reports whether the value is empty or whitespace only.
func (t Text) IsBlank() bool { return strings.TrimSpace(string(t)) == "" }

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// Float parses the leading decimal number of the value, so "172 cm" reads as
// 172. The second result is false when no number is present.
func (t Text) Float() (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(string(t)))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Section is one loosely typed block of a medical report.
type Section map[string]Text

// UnmarshalJSON accepts an object; any other JSON value decodes to an empty
// section instead of failing the whole report.
func (s *Section) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*s = nil
		return nil
	}
	var m map[string]Text
	if err := json.Unmarshal(b, &m); err != nil {
		*s = nil
		return nil
	}
	*s = m
	return nil
}

// Get returns the value for key, or "" when the key is absent.
func (s Section) Get(key string) Text {
	if s == nil {
		return ""
	}
	return s[key]
}

// Keys returns the section keys in sorted order.
func (s Section) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s Section) clone() Section {
	if s == nil {
		return nil
	}
	out := make(Section, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// RawMedicalReport is an executive medical examination record as stored by
// the records system. Every section and leaf is optional.
type RawMedicalReport struct {
	ReportHeading            Section `json:"report_heading,omitempty"`
	PersonalDetails          Section `json:"personal_details,omitempty"`
	Overview                 Section `json:"overview,omitempty"`
	CardiovascularStrokeRisk Section `json:"cardiovascular_stroke_risk,omitempty"`
	LabTests                 Section `json:"lab_tests,omitempty"`
	ClinicalExaminations     Section `json:"clinical_examinations,omitempty"`
	SpecialInvestigations    Section `json:"special_investigations,omitempty"`
	MentalHealth             Section `json:"mental_health,omitempty"`
	MedicalHistory           Section `json:"medical_history,omitempty"`
	Allergies                Section `json:"allergies,omitempty"`
	Screening                Section `json:"screening,omitempty"`
	NotesRecommendations     Section `json:"notes_recommendations,omitempty"`
}

// ParseRaw decodes a raw report. Only malformed JSON is an error; missing or
// mistyped sections and leaves are tolerated.
func ParseRaw(data []byte) (*RawMedicalReport, error) {
	var r RawMedicalReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// StoredReport is a raw report row in the medical_report table.
type StoredReport struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	EmployeeID *uuid.UUID       `db:"employee_id" json:"employee_id,omitempty"`
	ReportDate *time.Time       `db:"report_date" json:"report_date,omitempty"`
	Payload    RawMedicalReport `db:"payload" json:"payload"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// ExamResult is one normalized examination or laboratory field.
type ExamResult struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	RawValue string       `json:"raw_value"`
	Status   ExamStatus   `json:"status"`
	Severity SeverityTier `json:"severity"`
}

// MentalHealthIndicator is one normalized mental-health level.
type MentalHealthIndicator struct {
	Key      string            `json:"key"`
	Label    string            `json:"label"`
	RawValue string            `json:"raw_value"`
	Level    MentalHealthLevel `json:"level"`
	Severity SeverityTier      `json:"severity"`
}

// PersonalDetails is the raw personal details section with the derived
// biometrics merged in.
type PersonalDetails struct {
	Fields      Section
	BMI         float64
	BMIStatus   BMIBand
	WHtRPercent float64
	WHtRStatus  WHtRBand
}

// MarshalJSON flattens the raw fields and the computed biometrics into one
// object. Computed keys win over raw keys of the same name.
func (p PersonalDetails) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Fields)+4)
	for k, v := range p.Fields {
		out[k] = v
	}
	out["bmi"] = p.BMI
	out["whtr_percent"] = p.WHtRPercent
	if p.BMIStatus != "" {
		out["bmi_status"] = p.BMIStatus
	} else {
		delete(out, "bmi_status")
	}
	if p.WHtRStatus != "" {
		out["whtr_status"] = p.WHtRStatus
	} else {
		delete(out, "whtr_status")
	}
	return json.Marshal(out)
}

// NormalizedReport is the classified view of a RawMedicalReport handed to
// renderers. It is derived on demand and never stored.
type NormalizedReport struct {
	ReportHeading            Section                 `json:"report_heading"`
	PersonalDetails          PersonalDetails         `json:"personal_details"`
	Overview                 Section                 `json:"overview"`
	CardiovascularStrokeRisk Section                 `json:"cardiovascular_stroke_risk"`
	LabTests                 Section                 `json:"lab_tests"`
	ClinicalExaminations     Section                 `json:"clinical_examinations"`
	SpecialInvestigations    Section                 `json:"special_investigations"`
	MentalHealth             Section                 `json:"mental_health"`
	MedicalHistory           Section                 `json:"medical_history"`
	Allergies                Section                 `json:"allergies"`
	Screening                Section                 `json:"screening"`
	NotesRecommendations     Section                 `json:"notes_recommendations"`
	RiskFactors              []RiskFactor            `json:"risk_factors"`
	RiskDistribution         []RiskTierCount         `json:"risk_distribution"`
	LabResults               []ExamResult            `json:"lab_results"`
	ClinicalResults          []ExamResult            `json:"clinical_results"`
	SpecialResults           []ExamResult            `json:"special_results"`
	MentalHealthLevels       []MentalHealthIndicator `json:"mental_health_levels"`
	GenderScreenings         []Screening             `json:"gender_screenings"`
	Sections                 SectionPresence         `json:"sections"`
}
