// ABOUTME: Body mass index calculation and category advice.
package analytics

import (
	"errors"
)

// ErrInvalidBody is returned for non-positive height or weight.
var ErrInvalidBody = errors.New("height and weight must be positive")

// BMICategory is a weight class with advice.
type BMICategory struct {
	Name    string `json:"name"`
	Advice  string `json:"advice"`
	Healthy bool   `json:"healthy"`
}

var (
	Underweight = BMICategory{Name: "Underweight", Advice: "Consider consulting a healthcare professional for advice on healthy weight gain."}
	Normal      = BMICategory{Name: "Normal weight", Advice: "Keep up the good work!", Healthy: true}
	Overweight  = BMICategory{Name: "Overweight", Advice: "Consider a balanced diet and regular exercise."}
	Obesity     = BMICategory{Name: "Obesity", Advice: "It is recommended to consult a healthcare professional for a personalized plan."}
)

// BMI computes weight / height² for height in meters and weight in kilograms.
func BMI(heightM, weightKg float64) (float64, error) {
	if heightM <= 0 || weightKg <= 0 {
		return 0, ErrInvalidBody
	}
	return weightKg / (heightM * heightM), nil
}

// ClassifyBMI maps a BMI value to its category.
func ClassifyBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obesity
	}
}
