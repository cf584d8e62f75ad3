package energy

import (
	"errors"
	"fmt"

	"VetNutrition/internal/domain"
)

// ErrMissingIdealWeight is returned when a deficit or surplus goal has no ideal weight.
var ErrMissingIdealWeight = errors.New("ideal weight is required for deficit and surplus goals")

// DailyEnergy is the DER for one patient. Kcal is the canonical value used
// downstream; for range factors it equals MinKcal.
type DailyEnergy struct {
	Resting     RestingEnergy      `json:"resting"`
	Factor      domain.StateFactor `json:"factor"`
	FactorExact bool               `json:"factorExact"`
	Kcal        float64            `json:"kcal"`
	MinKcal     float64            `json:"minKcal"`
	MaxKcal     float64            `json:"maxKcal"`
	RangeText   string             `json:"rangeText,omitempty"`
	Critical    bool               `json:"critical"`
}

// Target is the caloric intake the feeding amounts are computed against.
type Target struct {
	Goal domain.NutritionalGoal `json:"goal"`
	Kcal float64                `json:"kcal"`
	// RestingIdeal is set for deficit and surplus goals.
	RestingIdeal *RestingEnergy `json:"restingIdeal,omitempty"`
}

// Goal multipliers applied over the resting energy at ideal weight.
var goalFactors = map[domain.NutritionalGoal]map[domain.Species]float64{
	domain.GoalDeficit: {domain.SpeciesDog: 1.0, domain.SpeciesCat: 0.8},
	domain.GoalSurplus: {domain.SpeciesDog: 1.4, domain.SpeciesCat: 1.2},
}

// Calculator evaluates energy requirements against an injected factor table.
type Calculator struct {
	factors *FactorTable
}

// NewCalculator wires the physiological-state table.
func NewCalculator(factors *FactorTable) *Calculator {
	return &Calculator{factors: factors}
}

// Factors exposes the table the calculator was built with.
func (c *Calculator) Factors() *FactorTable {
	return c.factors
}

// Daily computes RER and DER for the patient's current weight.
func (c *Calculator) Daily(species domain.Species, weightKg float64, state string) (DailyEnergy, error) {
	rer, err := Resting(species, weightKg)
	if err != nil {
		return DailyEnergy{}, err
	}

	factor, exact, err := c.factors.Resolve(species, state)
	if err != nil {
		return DailyEnergy{}, fmt.Errorf("resolve state: %w", err)
	}

	out := DailyEnergy{
		Resting:     rer,
		Factor:      factor,
		FactorExact: exact,
		MinKcal:     rer.Kcal * factor.KMin,
		MaxKcal:     rer.Kcal * factor.KMax,
		Critical:    IsCriticalState(state),
	}
	out.Kcal = out.MinKcal
	if factor.IsRange() {
		out.RangeText = fmt.Sprintf("%.1f a %.1f", out.MinKcal, out.MaxKcal)
	}
	return out, nil
}

// Target resolves the caloric target for the patient's nutritional goal.
// Deficit and surplus always use the ideal weight; without it the target
// is zero and ErrMissingIdealWeight is returned.
func (c *Calculator) Target(in domain.PatientInputs) (Target, error) {
	if !in.Species.Valid() {
		return Target{Goal: in.Goal}, fmt.Errorf("%w %q", domain.ErrUnknownSpecies, in.Species)
	}
	goal := in.Goal
	if goal == "" {
		goal = domain.GoalMaintenance
	}

	if goal == domain.GoalMaintenance {
		daily, err := c.Daily(in.Species, in.WeightKg, in.PhysiologicalState)
		if err != nil {
			return Target{Goal: goal}, err
		}
		return Target{Goal: goal, Kcal: daily.Kcal}, nil
	}

	perSpecies, ok := goalFactors[goal]
	if !ok {
		return Target{Goal: goal}, fmt.Errorf("%w %q", domain.ErrUnknownGoal, goal)
	}
	if !validWeight(in.IdealWeightKg) {
		return Target{Goal: goal}, ErrMissingIdealWeight
	}

	rer, err := Resting(in.Species, in.IdealWeightKg)
	if err != nil {
		return Target{Goal: goal}, err
	}
	return Target{
		Goal:         goal,
		Kcal:         rer.Kcal * perSpecies[in.Species],
		RestingIdeal: &rer,
	}, nil
}
