package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSpecies is returned for species other than dog and cat.
var ErrUnknownSpecies = errors.New("unknown species")

// ErrUnknownGoal is returned for goals other than maintenance, deficit and surplus.
var ErrUnknownGoal = errors.New("unknown nutritional goal")

// Species is the patient species handled by the engine.
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// ParseSpecies accepts the lowercase and catalog (DOG/CAT) spellings.
func ParseSpecies(value string) (Species, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dog", "cão", "cao", "canine":
		return SpeciesDog, nil
	case "cat", "gato", "feline":
		return SpeciesCat, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownSpecies, value)
	}
}

// UnmarshalText lets JSON and YAML inputs use any spelling ParseSpecies
// accepts. Empty input leaves the species unset.
func (s *Species) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*s = ""
		return nil
	}
	v, err := ParseSpecies(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Valid reports whether s is one of the supported species.
func (s Species) Valid() bool {
	return s == SpeciesDog || s == SpeciesCat
}

// NutritionalGoal selects how the caloric target is derived.
type NutritionalGoal string

const (
	GoalMaintenance NutritionalGoal = "maintenance"
	GoalDeficit     NutritionalGoal = "deficit"
	GoalSurplus     NutritionalGoal = "surplus"
)

// ParseGoal maps free text to a goal; empty input means maintenance.
func ParseGoal(value string) (NutritionalGoal, error) {
	switch NutritionalGoal(strings.ToLower(strings.TrimSpace(value))) {
	case "", GoalMaintenance:
		return GoalMaintenance, nil
	case GoalDeficit:
		return GoalDeficit, nil
	case GoalSurplus:
		return GoalSurplus, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownGoal, value)
	}
}

// UnmarshalText normalizes the goal; empty input means maintenance.
func (g *NutritionalGoal) UnmarshalText(text []byte) error {
	v, err := ParseGoal(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// PatientInputs is the ephemeral set of values entered for one patient.
type PatientInputs struct {
	Species            Species         `json:"species" yaml:"species"`
	WeightKg           float64         `json:"weightKg" yaml:"weightKg"`
	PhysiologicalState string          `json:"physiologicalState" yaml:"physiologicalState"`
	Goal               NutritionalGoal `json:"goal" yaml:"goal"`
	IdealWeightKg      float64         `json:"idealWeightKg,omitempty" yaml:"idealWeightKg,omitempty"`
}

// StateFactor is one row of the physiological-state table.
// A single multiplier is stored with KMin == KMax.
type StateFactor struct {
	Name      string  `json:"name" yaml:"name"`
	KMin      float64 `json:"kMin" yaml:"kMin"`
	KMax      float64 `json:"kMax" yaml:"kMax"`
	Rationale string  `json:"rationale" yaml:"rationale"`
}

// IsRange reports whether the factor spans a closed interval.
func (f StateFactor) IsRange() bool {
	return f.KMax > f.KMin
}

// KText renders the multiplier the way the state table shows it.
func (f StateFactor) KText() string {
	if f.IsRange() {
		return fmt.Sprintf("%.1f-%.1f", f.KMin, f.KMax)
	}
	return fmt.Sprintf("%.1f", f.KMin)
}
