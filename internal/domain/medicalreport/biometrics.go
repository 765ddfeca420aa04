package medicalreport

import "math"

// BMIBand is the WHO adult body-mass-index category.
type BMIBand string

const (
	BMIUnderweight BMIBand = "Underweight"
	BMINormal      BMIBand = "Normal"
	BMIOverweight  BMIBand = "Overweight"
	BMIObese       BMIBand = "Obese"
)

// WHtRBand is the cardiometabolic risk band of a waist-to-height ratio.
type WHtRBand string

const (
	WHtRLowRisk      WHtRBand = "Low Risk"
	WHtRElevatedRisk WHtRBand = "Elevated Risk"
	WHtRHighRisk     WHtRBand = "High Risk"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// BMI returns weight / height(m)^2 rounded to two decimals, or 0 when either
// measurement is missing.
func BMI(weightKg, heightCm float64) float64 {
	if !usable(weightKg) || !usable(heightCm) {
		return 0
	}
	m := heightCm / 100
	return round2(weightKg / (m * m))
}

// ClassifyBMI returns the band for bmi. A zero bmi is excluded and yields "".
func ClassifyBMI(bmi float64) BMIBand {
	switch {
	case !usable(bmi):
		return ""
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// WHtRPercent returns waist / height * 100 rounded to two decimals, or 0 when
// either measurement is missing.
func WHtRPercent(waistCm, heightCm float64) float64 {
	if !usable(waistCm) || !usable(heightCm) {
		return 0
	}
	return round2(waistCm / heightCm * 100)
}

// ClassifyWHtR returns the band for a WHtR percentage. Comparisons are strict,
// so 50 and 60 land in the higher band. Zero yields "".
func ClassifyWHtR(whtr float64) WHtRBand {
	switch {
	case !usable(whtr):
		return ""
	case whtr < 50:
		return WHtRLowRisk
	case whtr < 60:
		return WHtRElevatedRisk
	default:
		return WHtRHighRisk
	}
}

// Biometrics computes the derived personal-details fields.
func Biometrics(details Section) PersonalDetails {
	height, _ := details.Get("height_cm").Float()
	weight, _ := details.Get("weight_kg").Float()
	waist, _ := details.Get("waist_cm").Float()

	bmi := BMI(weight, height)
	whtr := WHtRPercent(waist, height)
	return PersonalDetails{
		Fields:      details.clone(),
		BMI:         bmi,
		BMIStatus:   ClassifyBMI(bmi),
		WHtRPercent: whtr,
		WHtRStatus:  ClassifyWHtR(whtr),
	}
}
