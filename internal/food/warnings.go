package food

import (
	"fmt"

	"VetNutrition/internal/domain"
)

// Warning thresholds on the guaranteed analysis.
const (
	HighFatGPerKg          = 170.0
	UltraLowFatGPerKg      = 60.0
	RenalPhosphorusMgPerKg = 3500.0
	RenalProteinGPerKg     = 160.0
)

// Warnings derives caution flags from a commercial food's guarantees.
// Rules are independent; a missing guarantee skips its rule.
func Warnings(c domain.CommercialFood) []domain.Warning {
	var out []domain.Warning

	if fat, ok := c.FindGuarantee(domain.KeyFatMin); ok {
		switch {
		case fat.Value >= HighFatGPerKg:
			out = append(out, domain.Warning{
				Kind:    domain.WarningHighFat,
				Message: "Alto teor de gordura (≥17%): risco aumentado para pancreatite/hiperlipidemia em pacientes susceptíveis.",
			})
		case fat.Value <= UltraLowFatGPerKg:
			out = append(out, domain.Warning{
				Kind:    domain.WarningUltraLowFat,
				Message: "Teor de gordura muito baixo (≤6%): útil em dietas low-fat, mas pode comprometer palatabilidade.",
			})
		}
	}

	if c.IsTherapeutic && c.HasIndication(domain.IndicationCKD) && renalControlled(c) {
		out = append(out, domain.Warning{
			Kind:    domain.WarningRenalDiet,
			Message: "Dieta renal: fósforo e/ou proteína controlados para manejo de DRC.",
		})
	}

	phMin, okMin := c.FindGuarantee(domain.KeyUrinaryPHMin)
	phMax, okMax := c.FindGuarantee(domain.KeyUrinaryPHMax)
	if okMin && okMax {
		out = append(out, domain.Warning{
			Kind:    domain.WarningUrinaryPHControl,
			Message: fmt.Sprintf("Controle de pH urinário declarado (%v–%v): útil para prevenção de cálculos urinários.", phMin.Value, phMax.Value),
		})
	}

	return out
}

func renalControlled(c domain.CommercialFood) bool {
	if p, ok := c.FindGuarantee(domain.KeyPhosphorusMax); ok && p.Value <= RenalPhosphorusMgPerKg {
		return true
	}
	if p, ok := c.FindGuarantee(domain.KeyProteinMin); ok && p.Value <= RenalProteinGPerKg {
		return true
	}
	return false
}
