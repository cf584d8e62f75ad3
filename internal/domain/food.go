package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// LifeStage is the life stage a food targets; ALL is a wildcard.
type LifeStage string

const (
	LifeStageAll    LifeStage = "ALL"
	LifeStagePuppy  LifeStage = "PUPPY"
	LifeStageAdult  LifeStage = "ADULT"
	LifeStageSenior LifeStage = "SENIOR"
)

// NeuterStatus is the reproductive status a food targets; ANY is a wildcard.
type NeuterStatus string

const (
	NeuterAny      NeuterStatus = "ANY"
	NeuterNeutered NeuterStatus = "NEUTERED"
	NeuterIntact   NeuterStatus = "INTACT"
)

var (
	ErrUnknownLifeStage    = errors.New("unknown life stage")
	ErrUnknownNeuterStatus = errors.New("unknown neuter status")
)

// ParseLifeStage is case-insensitive; empty input means ALL.
func ParseLifeStage(value string) (LifeStage, error) {
	switch v := LifeStage(strings.ToUpper(strings.TrimSpace(value))); v {
	case "":
		return LifeStageAll, nil
	case LifeStageAll, LifeStagePuppy, LifeStageAdult, LifeStageSenior:
		return v, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownLifeStage, value)
	}
}

// UnmarshalText rejects stages outside ALL, PUPPY, ADULT and SENIOR.
// Empty input leaves the stage unset.
func (l *LifeStage) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*l = ""
		return nil
	}
	v, err := ParseLifeStage(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseNeuterStatus is case-insensitive; empty input means ANY.
func ParseNeuterStatus(value string) (NeuterStatus, error) {
	switch v := NeuterStatus(strings.ToUpper(strings.TrimSpace(value))); v {
	case "":
		return NeuterAny, nil
	case NeuterAny, NeuterNeutered, NeuterIntact:
		return v, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownNeuterStatus, value)
	}
}

func (n *NeuterStatus) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*n = ""
		return nil
	}
	v, err := ParseNeuterStatus(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// NutritionProfile categorizes what role a food can play in a diet.
type NutritionProfile string

const (
	ProfileComplete               NutritionProfile = "COMPLETE"
	ProfileVetTherapeuticComplete NutritionProfile = "VET_THERAPEUTIC_COMPLETE"
	ProfileVetRecoveryComplete    NutritionProfile = "VET_RECOVERY_COMPLETE"
	ProfileSupportEnteral         NutritionProfile = "SUPPORT_ENTERAL"
	ProfileSupplement             NutritionProfile = "SUPPLEMENT"
	ProfileHumanEnteral           NutritionProfile = "HUMAN_ENTERAL"
)

// Label returns the Portuguese badge text shown next to a food.
func (p NutritionProfile) Label() string {
	switch p {
	case ProfileVetTherapeuticComplete:
		return "Terapêutico"
	case ProfileVetRecoveryComplete:
		return "Recovery"
	case ProfileSupportEnteral:
		return "Suporte enteral"
	case ProfileSupplement:
		return "Suplemento"
	case ProfileHumanEnteral:
		return "Enteral humana (cuidado)"
	default:
		return "Completo"
	}
}

// Guarantee is one row of a guaranteed-analysis table.
type Guarantee struct {
	Key   string  `json:"key" yaml:"key"`
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
	Note  string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// Guarantee units.
const (
	UnitGPerKg  = "g/kg"
	UnitMgPerKg = "mg/kg"
	UnitPH      = "pH"
)

// Nutrient keys referenced by rules and displays.
const (
	KeyMoistureMax   = "moisture_max_gkg"
	KeyProteinMin    = "protein_min_gkg"
	KeyFatMin        = "fat_min_gkg"
	KeyFiberMax      = "fiber_max_gkg"
	KeyAshMax        = "ash_max_gkg"
	KeyPhosphorusMax = "phosphorus_max_mgkg"
	KeyTaurineMin    = "taurine_min_mgkg"
	KeyUrinaryPHMin  = "urinary_ph_min"
	KeyUrinaryPHMax  = "urinary_ph_max"
)

// Indication codes used by therapeutic foods.
const (
	IndicationCKD        = "CKD"
	IndicationWeightLoss = "WEIGHT_LOSS"
)

// Alert is a hand-authored note attached to a legacy food.
type Alert struct {
	Level string `json:"level" yaml:"level"` // green, yellow or red
	Text  string `json:"text" yaml:"text"`
}

// Dilution describes how a powdered food is reconstituted.
type Dilution struct {
	ScoopGrams float64 `json:"scoopGrams" yaml:"scoopGrams"`
	WaterMl    float64 `json:"waterMl" yaml:"waterMl"`
}

// SafetyNotes holds species-specific cautions.
type SafetyNotes struct {
	Dog []string `json:"dog,omitempty" yaml:"dog,omitempty"`
	Cat []string `json:"cat,omitempty" yaml:"cat,omitempty"`
}

// Empty reports whether no note is present.
func (n SafetyNotes) Empty() bool {
	return len(n.Dog) == 0 && len(n.Cat) == 0
}

// Classification carries the derived profile fields. A record whose
// Profile is empty has not been classified yet.
type Classification struct {
	Profile                NutritionProfile `json:"nutritionProfile,omitempty" yaml:"nutritionProfile,omitempty"`
	CompleteAndBalanced    *bool            `json:"isCompleteAndBalanced,omitempty" yaml:"isCompleteAndBalanced,omitempty"`
	RequiresVetSupervision *bool            `json:"requiresVetSupervision,omitempty" yaml:"requiresVetSupervision,omitempty"`
	SafetyNotes            SafetyNotes      `json:"speciesSafetyNotes,omitempty" yaml:"speciesSafetyNotes,omitempty"`
}

// Source points at where commercial data was collected.
type Source struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// LegacyFood is a hand-authored food with a declared calorie density.
type LegacyFood struct {
	Name                   string       `json:"name" yaml:"name"`
	Species                []Species    `json:"species" yaml:"species"`
	Calories               float64      `json:"calories" yaml:"calories"`
	Unit                   string       `json:"unit" yaml:"unit"`
	Protein                string       `json:"protein,omitempty" yaml:"protein,omitempty"`
	Fat                    string       `json:"fat,omitempty" yaml:"fat,omitempty"`
	Indication             string       `json:"indication,omitempty" yaml:"indication,omitempty"`
	LifeStage              LifeStage    `json:"lifeStage,omitempty" yaml:"lifeStage,omitempty"`
	NeuterStatus           NeuterStatus `json:"neuterStatus,omitempty" yaml:"neuterStatus,omitempty"`
	IsTherapeutic          bool         `json:"isTherapeutic" yaml:"isTherapeutic"`
	TherapeuticIndications []string     `json:"therapeuticIndications,omitempty" yaml:"therapeuticIndications,omitempty"`
	Alerts                 []Alert      `json:"alerts,omitempty" yaml:"alerts,omitempty"`
	Dilution               *Dilution    `json:"dilution,omitempty" yaml:"dilution,omitempty"`
	// UnitLowConfidence is set when an unrecognized unit was defaulted to grams.
	UnitLowConfidence bool `json:"unitLowConfidence,omitempty" yaml:"unitLowConfidence,omitempty"`

	Classification `yaml:",inline"`
}

// CommercialFood is a catalog product described by its guaranteed analysis.
type CommercialFood struct {
	ID                     string       `json:"id" yaml:"id"`
	Brand                  string       `json:"brand" yaml:"brand"`
	Line                   string       `json:"line,omitempty" yaml:"line,omitempty"`
	Product                string       `json:"product" yaml:"product"`
	Species                Species      `json:"species" yaml:"species"`
	LifeStage              LifeStage    `json:"lifeStage" yaml:"lifeStage"`
	NeuterStatus           NeuterStatus `json:"neuterStatus" yaml:"neuterStatus"`
	IsTherapeutic          bool         `json:"isTherapeutic" yaml:"isTherapeutic"`
	TherapeuticIndications []string     `json:"therapeuticIndications,omitempty" yaml:"therapeuticIndications,omitempty"`
	Cautions               []string     `json:"cautions,omitempty" yaml:"cautions,omitempty"`
	MEKcalPerKg            float64      `json:"meKcalPerKg" yaml:"meKcalPerKg"`
	MEMethodNote           string       `json:"meMethodNote,omitempty" yaml:"meMethodNote,omitempty"`
	Guarantees             []Guarantee  `json:"guarantees" yaml:"guarantees"`
	FunctionalNotes        []string     `json:"functionalNotes,omitempty" yaml:"functionalNotes,omitempty"`
	Sources                []Source     `json:"sources,omitempty" yaml:"sources,omitempty"`
	UpdatedAt              string       `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`

	Classification `yaml:",inline"`
}

// DisplayName joins brand, line and product.
func (c CommercialFood) DisplayName() string {
	if strings.TrimSpace(c.Line) == "" {
		return fmt.Sprintf("%s: %s", c.Brand, c.Product)
	}
	return fmt.Sprintf("%s - %s: %s", c.Brand, c.Line, c.Product)
}

// FindGuarantee returns the first row with the given key.
func (c CommercialFood) FindGuarantee(key string) (Guarantee, bool) {
	for _, g := range c.Guarantees {
		if g.Key == key {
			return g, true
		}
	}
	return Guarantee{}, false
}

// HasIndication reports whether code is listed among the therapeutic indications.
func (c CommercialFood) HasIndication(code string) bool {
	return slices.Contains(c.TherapeuticIndications, code)
}
