// Package ration turns a caloric target and a catalog entry into a daily
// feeding amount.
package ration

import (
	"errors"
	"fmt"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/energy"
)

// ErrZeroEnergyDensity is returned when a food without usable energy
// density is added without reference-only confirmation.
var ErrZeroEnergyDensity = errors.New("food has no usable energy density")

// Status tells whether an amount could be computed.
type Status string

const (
	StatusOK            Status = "ok"
	StatusMissingTarget Status = "missing_target"
	StatusZeroDensity   Status = "zero_density"
)

// Display texts for incomplete amounts.
const (
	MissingTargetText = "Insira o peso ideal"
	ZeroDensityText   = "Sem densidade energética (apenas referência)"
)

// Amount is a daily feeding quantity ready for display.
type Amount struct {
	Status        Status  `json:"status"`
	Value         float64 `json:"value"`
	Unit          string  `json:"unit,omitempty"`
	Text          string  `json:"text"`
	LowConfidence bool    `json:"lowConfidence,omitempty"`
	// MissingTarget is set whenever the target is absent, including when
	// Status reports the zero density first.
	MissingTarget bool `json:"missingTarget,omitempty"`
}

// Resolve divides the target by the entry's energy density. Commercial
// foods always resolve in grams from their kcal/kg declaration.
func Resolve(targetKcal float64, entry catalog.Entry) Amount {
	density := entry.Record.EnergyDensity()
	missing := !(targetKcal > 0)

	if !density.Usable() {
		return Amount{Status: StatusZeroDensity, Text: ZeroDensityText, MissingTarget: missing}
	}
	if missing {
		return Amount{Status: StatusMissingTarget, Text: MissingTargetText, LowConfidence: density.LowConfidence, MissingTarget: true}
	}

	var value float64
	unit := density.Label()
	if c, ok := entry.Record.Commercial(); ok {
		value = targetKcal / c.MEKcalPerKg * 1000
		unit = "g"
	} else {
		value = targetKcal / density.KcalPerUnit
	}

	return Amount{
		Status:        StatusOK,
		Value:         value,
		Unit:          unit,
		Text:          FormatAmount(value, unit),
		LowConfidence: density.LowConfidence,
	}
}

// FormatAmount renders a daily amount with one decimal.
func FormatAmount(value float64, unit string) string {
	return fmt.Sprintf("%.1f %s/dia", value, unit)
}

// StageAmount is the feeding amount for one refeeding day.
type StageAmount struct {
	Day      int     `json:"day"`
	Fraction float64 `json:"fraction"`
	Kcal     float64 `json:"kcal"`
	Amount   Amount  `json:"amount"`
}

// StagePlan is a refeeding ramp resolved against one food.
type StagePlan struct {
	Days   int           `json:"days"`
	Stages []StageAmount `json:"stages"`
}

// ResolveRefeeding resolves every stage of every ramp once against entry.
func ResolveRefeeding(plans []energy.RefeedingPlan, entry catalog.Entry) []StagePlan {
	out := make([]StagePlan, 0, len(plans))
	for _, p := range plans {
		sp := StagePlan{Days: p.Days, Stages: make([]StageAmount, 0, len(p.Stages))}
		for _, s := range p.Stages {
			sp.Stages = append(sp.Stages, StageAmount{
				Day:      s.Day,
				Fraction: s.Fraction,
				Kcal:     s.Kcal,
				Amount:   Resolve(s.Kcal, entry),
			})
		}
		out = append(out, sp)
	}
	return out
}

// HasUsableDensity reports whether entry can be rationed.
func HasUsableDensity(entry catalog.Entry) bool {
	return entry.Record.EnergyDensity().Usable()
}
