package energy

import (
	"errors"

	"VetNutrition/internal/domain"
)

// ErrInvalidBodyCondition is returned for scores outside the 1..9 scale.
var ErrInvalidBodyCondition = errors.New("body condition score must be between 1 and 9")

// Percent of excess body weight per BCS point above 5.
var excessPerPoint = map[domain.Species]float64{
	domain.SpeciesDog: 10,
	domain.SpeciesCat: 15,
}

// IdealWeight estimates the ideal weight from the current weight and a
// 9-point body condition score.
func IdealWeight(species domain.Species, weightKg float64, bcs int) (float64, error) {
	if !validWeight(weightKg) {
		return 0, ErrInvalidWeight
	}
	if bcs < 1 || bcs > 9 {
		return 0, ErrInvalidBodyCondition
	}
	perPoint, ok := excessPerPoint[species]
	if !ok {
		return 0, domain.ErrUnknownSpecies
	}
	excess := float64(bcs-5) * perPoint
	return weightKg * (100 / (100 + excess)), nil
}
