package health

import "diet-planner/internal/catalog"

const (
	baseWaterMl     = 2000.0
	waterMlPerKg    = 3.5
	defaultWaterMul = 1.0
)

// waterMultipliers scales the base intake by activity level.
var waterMultipliers = map[catalog.ActivityLevel]float64{
	catalog.ActivityLow:      1.0,
	catalog.ActivityModerate: 1.1,
	catalog.ActivityHigh:     1.2,
}

// Metrics is the result of Compute.
type Metrics struct {
	BMI               float64 `json:"bmi"`
	WaterIntakeLiters float64 `json:"water_intake_liters"`
}

// BMI returns weightKg / (heightCm/100)^2 without rounding.
// heightCm must be positive; callers validate it before calling.
func BMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// WaterIntakeMl estimates the recommended daily water intake in milliliters.
// An unrecognized activity level gets no adjustment.
func WaterIntakeMl(level catalog.ActivityLevel, weightKg float64) float64 {
	mul, ok := waterMultipliers[level]
	if !ok {
		mul = defaultWaterMul
	}
	return baseWaterMl*mul + weightKg*waterMlPerKg
}

// Compute returns BMI and daily water intake in liters.
func Compute(weightKg, heightCm float64, level catalog.ActivityLevel) Metrics {
	return Metrics{
		BMI:               BMI(weightKg, heightCm),
		WaterIntakeLiters: WaterIntakeMl(level, weightKg) / 1000,
	}
}
