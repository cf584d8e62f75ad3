// Package units canonicalizes declared food energy densities to
// kcal/g, kcal/ml or kcal per discrete container.
package units

import "strings"

// Kind is the canonical dimension of a density.
type Kind string

const (
	KindMass     Kind = "mass"
	KindVolume   Kind = "volume"
	KindDiscrete Kind = "discrete"
)

// Density is a normalized kcal-per-unit value. Unit is "g", "ml" or
// the label of a discrete container such as "lata".
type Density struct {
	KcalPerUnit   float64 `json:"kcalPerUnit" yaml:"kcalPerUnit"`
	Unit          string  `json:"unit" yaml:"unit"`
	Kind          Kind    `json:"kind" yaml:"kind"`
	LowConfidence bool    `json:"lowConfidence,omitempty" yaml:"lowConfidence,omitempty"`
}

// Label is the unit as printed next to a feeding amount.
func (d Density) Label() string {
	if d.Kind == KindVolume {
		return "mL"
	}
	return d.Unit
}

// Usable reports whether the density can be divided into.
func (d Density) Usable() bool {
	return d.KcalPerUnit > 0
}

var discreteContainers = map[string]struct{}{
	"sache":   {},
	"sachê":   {},
	"lata":    {},
	"unidade": {},
	"tubo":    {},
	"bisnaga": {},
}

// Normalize maps a declared (kcal, unit) pair to its canonical form.
//
//	g, ml            unchanged
//	L, l             ml, magnitude unchanged
//	kg               g, magnitude / 1000
//	container labels kcal per container
//	anything else    g, magnitude unchanged, LowConfidence set
//
// Normalizing an already normalized value returns it unchanged.
func Normalize(kcal float64, unit string) Density {
	token := strings.ToLower(strings.TrimSpace(unit))
	switch token {
	case "g":
		return Density{KcalPerUnit: kcal, Unit: "g", Kind: KindMass}
	case "ml", "l":
		return Density{KcalPerUnit: kcal, Unit: "ml", Kind: KindVolume}
	case "kg":
		return Density{KcalPerUnit: kcal / 1000, Unit: "g", Kind: KindMass}
	}
	if _, ok := discreteContainers[token]; ok {
		return Density{KcalPerUnit: kcal, Unit: token, Kind: KindDiscrete}
	}
	return Density{KcalPerUnit: kcal, Unit: "g", Kind: KindMass, LowConfidence: true}
}

// FromKcalPerKg converts a metabolizable-energy declaration to kcal/g.
func FromKcalPerKg(me float64) Density {
	return Normalize(me, "kg")
}
