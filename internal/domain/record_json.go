package domain

import (
	"encoding/json"

	"VetNutrition/internal/units"
)

type recordJSON struct {
	Kind                   RecordKind       `json:"kind"`
	DisplayName            string           `json:"displayName"`
	Species                []Species        `json:"species"`
	EnergyDensity          units.Density    `json:"energyDensity"`
	Protein                string           `json:"protein,omitempty"`
	Fat                    string           `json:"fat,omitempty"`
	Indication             string           `json:"indication,omitempty"`
	Alerts                 []Alert          `json:"alerts,omitempty"`
	IsTherapeutic          bool             `json:"isTherapeutic"`
	TherapeuticIndications []string         `json:"therapeuticIndications,omitempty"`
	LifeStage              LifeStage        `json:"lifeStage"`
	NeuterStatus           NeuterStatus     `json:"neuterStatus"`
	NutritionProfile       NutritionProfile `json:"nutritionProfile,omitempty"`
	ProfileLabel           string           `json:"profileLabel,omitempty"`
	IsCompleteAndBalanced  bool             `json:"isCompleteAndBalanced"`
	RequiresVetSupervision bool             `json:"requiresVetSupervision"`
	SafetyNotes            *SafetyNotes     `json:"speciesSafetyNotes,omitempty"`
	Legacy                 *LegacyFood      `json:"legacy,omitempty"`
	Commercial             *CommercialFood  `json:"commercial,omitempty"`
}

// MarshalJSON flattens the shared accessors and embeds the variant payload.
func (r FoodRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Kind:                   r.kind,
		DisplayName:            r.DisplayName(),
		Species:                r.Species(),
		EnergyDensity:          r.EnergyDensity(),
		Protein:                r.Protein(),
		Fat:                    r.Fat(),
		Indication:             r.Indication(),
		Alerts:                 r.Alerts(),
		IsTherapeutic:          r.IsTherapeutic(),
		TherapeuticIndications: r.TherapeuticIndications(),
		LifeStage:              r.LifeStage(),
		NeuterStatus:           r.NeuterStatus(),
		NutritionProfile:       r.NutritionProfile(),
		IsCompleteAndBalanced:  r.IsCompleteAndBalanced(),
		RequiresVetSupervision: r.RequiresVetSupervision(),
	}
	if out.NutritionProfile != "" {
		out.ProfileLabel = out.NutritionProfile.Label()
	}
	if notes := r.SafetyNotes(); !notes.Empty() {
		out.SafetyNotes = &notes
	}
	switch r.kind {
	case KindLegacy:
		food := r.legacy
		out.Legacy = &food
	case KindCommercial:
		food := r.commercial
		out.Commercial = &food
	}
	return json.Marshal(out)
}
