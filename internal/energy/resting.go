// Package energy computes resting and daily energy requirements for
// dogs and cats, the caloric target for a nutritional goal, and the
// refeeding ramp used for critical patients.
package energy

import (
	"errors"
	"fmt"
	"math"

	"VetNutrition/internal/domain"
)

// ErrInvalidWeight is returned for missing, non-positive or non-finite weights.
var ErrInvalidWeight = errors.New("weight must be a positive number")

// Formula identifies which resting-energy equation was applied.
type Formula string

const (
	FormulaLinear     Formula = "linear"
	FormulaAllometric Formula = "allometric"
)

// Describe returns the formula text shown with the result.
func (f Formula) Describe() string {
	if f == FormulaLinear {
		return "Fórmula Linear: (30 x Peso) + 70"
	}
	return "Fórmula Alométrica: 70 x Peso^0.75"
}

// Dogs outside this band use the linear form.
const (
	linearBelowKg = 2.0
	linearAboveKg = 45.0
)

// RestingEnergy is the RER in kcal/day with the formula that produced it.
type RestingEnergy struct {
	Kcal    float64 `json:"kcal"`
	Formula Formula `json:"formula"`
}

// Resting computes the resting energy requirement.
func Resting(species domain.Species, weightKg float64) (RestingEnergy, error) {
	if !species.Valid() {
		return RestingEnergy{}, fmt.Errorf("%w %q", domain.ErrUnknownSpecies, species)
	}
	if !validWeight(weightKg) {
		return RestingEnergy{}, ErrInvalidWeight
	}
	if species == domain.SpeciesDog && (weightKg < linearBelowKg || weightKg > linearAboveKg) {
		return RestingEnergy{Kcal: 30*weightKg + 70, Formula: FormulaLinear}, nil
	}
	return RestingEnergy{Kcal: 70 * math.Pow(weightKg, 0.75), Formula: FormulaAllometric}, nil
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}
