package ration

import (
	"fmt"
	"slices"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/energy"
)

// Line is one selected food in a prescription.
type Line struct {
	Entry         catalog.Entry `json:"entry"`
	ReferenceOnly bool          `json:"referenceOnly,omitempty"`
}

// ResolvedLine carries the amounts computed for a line. Refeeding is set
// instead of Amount for critical patients.
type ResolvedLine struct {
	Line
	Amount    *Amount     `json:"amount,omitempty"`
	Refeeding []StagePlan `json:"refeeding,omitempty"`
}

// Prescription is an ordered list of selected foods. The zero value is
// ready to use.
type Prescription struct {
	lines []Line
}

// Add appends entry. A food without usable energy density is only
// accepted when referenceOnly confirms it is listed for reference.
// Adding the same id twice is a no-op.
func (p *Prescription) Add(entry catalog.Entry, referenceOnly bool) error {
	if slices.ContainsFunc(p.lines, func(l Line) bool { return l.Entry.ID == entry.ID }) {
		return nil
	}
	usable := HasUsableDensity(entry)
	if !usable && !referenceOnly {
		return fmt.Errorf("add %q: %w", entry.Record.DisplayName(), ErrZeroEnergyDensity)
	}
	p.lines = append(p.lines, Line{Entry: entry, ReferenceOnly: !usable || referenceOnly})
	return nil
}

// Remove drops the line with the given id and reports whether it existed.
func (p *Prescription) Remove(id string) bool {
	n := len(p.lines)
	p.lines = slices.DeleteFunc(p.lines, func(l Line) bool { return l.Entry.ID == id })
	return len(p.lines) != n
}

// Lines returns a copy of the selected lines.
func (p *Prescription) Lines() []Line {
	return slices.Clone(p.lines)
}

// Len is the number of lines.
func (p *Prescription) Len() int {
	return len(p.lines)
}

// Resolve computes every line against target. When refeeding plans are
// given the target is ignored and each line resolves per stage.
func (p *Prescription) Resolve(targetKcal float64, refeeding []energy.RefeedingPlan) []ResolvedLine {
	out := make([]ResolvedLine, 0, len(p.lines))
	for _, l := range p.lines {
		rl := ResolvedLine{Line: l}
		if len(refeeding) > 0 {
			rl.Refeeding = ResolveRefeeding(refeeding, l.Entry)
		} else {
			amount := Resolve(targetKcal, l.Entry)
			rl.Amount = &amount
		}
		out = append(out, rl)
	}
	return out
}
