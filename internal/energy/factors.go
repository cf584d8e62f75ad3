package energy

import (
	"fmt"
	"strings"

	"VetNutrition/internal/domain"
)

// DefaultState is used when a requested state is not in the table.
const DefaultState = "Adulto Castrado / Inativo"

// FactorTable is the immutable physiological-state multiplier table.
type FactorTable struct {
	order map[domain.Species][]domain.StateFactor
	index map[domain.Species]map[string]int
}

// NewFactorTable validates and indexes the per-species rows. Names must be
// unique per species, multipliers positive and kMin <= kMax.
func NewFactorTable(rows map[domain.Species][]domain.StateFactor) (*FactorTable, error) {
	t := &FactorTable{
		order: make(map[domain.Species][]domain.StateFactor, len(rows)),
		index: make(map[domain.Species]map[string]int, len(rows)),
	}

	for species, factors := range rows {
		if !species.Valid() {
			return nil, fmt.Errorf("factor table: unknown species %q", species)
		}
		idx := make(map[string]int, len(factors))
		copied := make([]domain.StateFactor, 0, len(factors))
		for _, f := range factors {
			name := strings.TrimSpace(f.Name)
			if name == "" {
				return nil, fmt.Errorf("factor table: %s has a state without name", species)
			}
			if _, dup := idx[name]; dup {
				return nil, fmt.Errorf("factor table: %s state %q declared twice", species, name)
			}
			if f.KMax == 0 {
				f.KMax = f.KMin
			}
			if f.KMin <= 0 || f.KMin > f.KMax {
				return nil, fmt.Errorf("factor table: %s state %q has invalid k [%v, %v]", species, name, f.KMin, f.KMax)
			}
			f.Name = name
			idx[name] = len(copied)
			copied = append(copied, f)
		}
		t.order[species] = copied
		t.index[species] = idx
	}

	return t, nil
}

// States lists the rows for a species in declaration order.
func (t *FactorTable) States(species domain.Species) []domain.StateFactor {
	rows := t.order[species]
	out := make([]domain.StateFactor, len(rows))
	copy(out, rows)
	return out
}

// Lookup finds a state by exact name.
func (t *FactorTable) Lookup(species domain.Species, name string) (domain.StateFactor, bool) {
	i, ok := t.index[species][strings.TrimSpace(name)]
	if !ok {
		return domain.StateFactor{}, false
	}
	return t.order[species][i], true
}

// Resolve looks up name and falls back to DefaultState. The boolean is
// false when the fallback was used.
func (t *FactorTable) Resolve(species domain.Species, name string) (domain.StateFactor, bool, error) {
	if f, ok := t.Lookup(species, name); ok {
		return f, true, nil
	}
	if f, ok := t.Lookup(species, DefaultState); ok {
		return f, false, nil
	}
	return domain.StateFactor{}, false, fmt.Errorf("no state %q nor default state for %s", name, species)
}
