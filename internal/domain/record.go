package domain

import (
	"fmt"
	"slices"
	"strings"

	"VetNutrition/internal/units"
)

// RecordKind discriminates the FoodRecord variant.
type RecordKind string

const (
	KindLegacy     RecordKind = "legacy"
	KindCommercial RecordKind = "commercial"
)

// FoodRecord is a tagged union over LegacyFood and CommercialFood.
// The accessors are total: each one answers for both variants.
type FoodRecord struct {
	kind       RecordKind
	legacy     LegacyFood
	commercial CommercialFood
}

// NewLegacyRecord wraps a hand-authored food.
func NewLegacyRecord(food LegacyFood) FoodRecord {
	return FoodRecord{kind: KindLegacy, legacy: food}
}

// NewCommercialRecord wraps a guaranteed-analysis food.
func NewCommercialRecord(food CommercialFood) FoodRecord {
	return FoodRecord{kind: KindCommercial, commercial: food}
}

// Kind returns the variant discriminant.
func (r FoodRecord) Kind() RecordKind {
	return r.kind
}

// Legacy returns the legacy payload when the record is a legacy food.
func (r FoodRecord) Legacy() (LegacyFood, bool) {
	return r.legacy, r.kind == KindLegacy
}

// Commercial returns the commercial payload when the record is a commercial food.
func (r FoodRecord) Commercial() (CommercialFood, bool) {
	return r.commercial, r.kind == KindCommercial
}

func (r FoodRecord) DisplayName() string {
	if r.kind == KindCommercial {
		return r.commercial.DisplayName()
	}
	return r.legacy.Name
}

func (r FoodRecord) Species() []Species {
	if r.kind == KindCommercial {
		return []Species{r.commercial.Species}
	}
	return r.legacy.Species
}

// ServesSpecies reports whether the food is declared for s.
func (r FoodRecord) ServesSpecies(s Species) bool {
	return slices.Contains(r.Species(), s)
}

// EnergyDensity returns the normalized density. Commercial foods are
// always converted from kcal/kg to kcal/g.
func (r FoodRecord) EnergyDensity() units.Density {
	if r.kind == KindCommercial {
		return units.FromKcalPerKg(r.commercial.MEKcalPerKg)
	}
	d := units.Normalize(r.legacy.Calories, r.legacy.Unit)
	d.LowConfidence = d.LowConfidence || r.legacy.UnitLowConfidence
	return d
}

// Protein returns the protein content as display text.
func (r FoodRecord) Protein() string {
	if r.kind == KindCommercial {
		return guaranteePercent(r.commercial, KeyProteinMin)
	}
	return r.legacy.Protein
}

// Fat returns the fat content as display text.
func (r FoodRecord) Fat() string {
	if r.kind == KindCommercial {
		return guaranteePercent(r.commercial, KeyFatMin)
	}
	return r.legacy.Fat
}

func (r FoodRecord) Indication() string {
	if r.kind == KindCommercial {
		return strings.Join(r.commercial.FunctionalNotes, "; ")
	}
	return r.legacy.Indication
}

// Alerts are only authored for legacy foods.
func (r FoodRecord) Alerts() []Alert {
	if r.kind == KindCommercial {
		return nil
	}
	return r.legacy.Alerts
}

func (r FoodRecord) IsTherapeutic() bool {
	if r.kind == KindCommercial {
		return r.commercial.IsTherapeutic
	}
	return r.legacy.IsTherapeutic
}

func (r FoodRecord) TherapeuticIndications() []string {
	if r.kind == KindCommercial {
		return r.commercial.TherapeuticIndications
	}
	return r.legacy.TherapeuticIndications
}

// LifeStage defaults to ALL when the record does not declare one.
func (r FoodRecord) LifeStage() LifeStage {
	stage := r.legacy.LifeStage
	if r.kind == KindCommercial {
		stage = r.commercial.LifeStage
	}
	if stage == "" {
		return LifeStageAll
	}
	return stage
}

// NeuterStatus defaults to ANY when the record does not declare one.
func (r FoodRecord) NeuterStatus() NeuterStatus {
	status := r.legacy.NeuterStatus
	if r.kind == KindCommercial {
		status = r.commercial.NeuterStatus
	}
	if status == "" {
		return NeuterAny
	}
	return status
}

// Classification returns the stored profile fields, possibly empty.
func (r FoodRecord) Classification() Classification {
	if r.kind == KindCommercial {
		return r.commercial.Classification
	}
	return r.legacy.Classification
}

// WithClassification returns a copy of r carrying c.
func (r FoodRecord) WithClassification(c Classification) FoodRecord {
	if r.kind == KindCommercial {
		r.commercial.Classification = c
		return r
	}
	r.legacy.Classification = c
	return r
}

// WithDensity returns a copy of a legacy record carrying the normalized
// density. Commercial records are returned unchanged.
func (r FoodRecord) WithDensity(d units.Density) FoodRecord {
	if r.kind != KindLegacy {
		return r
	}
	r.legacy.Calories = d.KcalPerUnit
	r.legacy.Unit = d.Unit
	r.legacy.UnitLowConfidence = d.LowConfidence
	return r
}

func (r FoodRecord) NutritionProfile() NutritionProfile {
	return r.Classification().Profile
}

func (r FoodRecord) IsCompleteAndBalanced() bool {
	v := r.Classification().CompleteAndBalanced
	return v != nil && *v
}

func (r FoodRecord) RequiresVetSupervision() bool {
	v := r.Classification().RequiresVetSupervision
	return v != nil && *v
}

func (r FoodRecord) SafetyNotes() SafetyNotes {
	return r.Classification().SafetyNotes
}

func guaranteePercent(food CommercialFood, key string) string {
	g, ok := food.FindGuarantee(key)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.1f%%", g.Value/10)
}
