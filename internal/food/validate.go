package food

import (
	"fmt"
	"strings"

	"VetNutrition/internal/domain"
)

// Validate checks the fields a commercial row needs before it can be
// used for rationing.
func Validate(c domain.CommercialFood) domain.Validation {
	var v domain.Validation

	if c.MEKcalPerKg <= 0 {
		v.Errors = append(v.Errors, "ME (kcal/kg) deve ser > 0")
	}
	if g, ok := c.FindGuarantee(domain.KeyProteinMin); !ok || g.Value <= 0 {
		v.Errors = append(v.Errors, "Proteína mínima (PB) não encontrada ou inválida")
	}
	if g, ok := c.FindGuarantee(domain.KeyFatMin); !ok || g.Value <= 0 {
		v.Errors = append(v.Errors, "Gordura mínima (EE) não encontrada ou inválida")
	}
	if _, ok := c.FindGuarantee(domain.KeyFiberMax); !ok {
		v.Warnings = append(v.Warnings, "Fibra bruta não declarada (importante para dietas de obesidade)")
	}
	if c.Species == domain.SpeciesCat {
		if _, ok := c.FindGuarantee(domain.KeyTaurineMin); !ok {
			v.Warnings = append(v.Warnings, "Taurina não declarada (essencial para gatos)")
		}
	}
	for _, g := range c.Guarantees {
		if g.Value < 0 {
			v.Errors = append(v.Errors, fmt.Sprintf("Garantia %s negativa", g.Key))
		}
	}

	return v
}

// displayedGuarantees are shown as percentages next to a commercial food.
var displayedGuarantees = []struct {
	key   string
	label string
}{
	{domain.KeyProteinMin, "PB"},
	{domain.KeyFatMin, "EE"},
	{domain.KeyFiberMax, "FB"},
	{domain.KeyMoistureMax, "Umidade"},
}

// GuaranteeSummary renders the main g/kg guarantees as percentages,
// e.g. "PB 26.0% · EE 17.0%".
func GuaranteeSummary(c domain.CommercialFood) string {
	parts := make([]string, 0, len(displayedGuarantees))
	for _, d := range displayedGuarantees {
		g, ok := c.FindGuarantee(d.key)
		if !ok || g.Unit != domain.UnitGPerKg {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.1f%%", d.label, g.Value/10))
	}
	return strings.Join(parts, " · ")
}
