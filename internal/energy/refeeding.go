package energy

import "strings"

// IsCriticalState reports whether a physiological state names a critical
// or hospitalized patient.
func IsCriticalState(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "crítico") || strings.Contains(lower, "hospitalizado")
}

// RefeedingStage is one day of a refeeding ramp.
type RefeedingStage struct {
	Day      int     `json:"day"`
	Fraction float64 `json:"fraction"`
	Kcal     float64 `json:"kcal"`
}

// RefeedingPlan ramps a critical patient toward its maintenance RER.
type RefeedingPlan struct {
	Days   int              `json:"days"`
	Stages []RefeedingStage `json:"stages"`
}

var refeedingRamps = [][]float64{
	{0.33, 0.66, 1.0},
	{0.25, 0.50, 0.75, 1.0},
}

// RefeedingPlans returns the 3-day and 4-day ramps over the resting energy
// at current weight. The nutritional goal never applies here.
func RefeedingPlans(rer RestingEnergy) []RefeedingPlan {
	plans := make([]RefeedingPlan, 0, len(refeedingRamps))
	for _, ramp := range refeedingRamps {
		plan := RefeedingPlan{Days: len(ramp), Stages: make([]RefeedingStage, len(ramp))}
		for i, fraction := range ramp {
			plan.Stages[i] = RefeedingStage{
				Day:      i + 1,
				Fraction: fraction,
				Kcal:     rer.Kcal * fraction,
			}
		}
		plans = append(plans, plan)
	}
	return plans
}
