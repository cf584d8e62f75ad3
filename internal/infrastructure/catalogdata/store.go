// Package catalogdata loads the food tables and the physiological-state
// table from YAML, either compiled into the binary or from files on disk.
package catalogdata

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"VetNutrition/internal/domain"
	"VetNutrition/internal/ports"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	legacyFile     = "data/legacy_foods.yaml"
	commercialFile = "data/commercial_foods.yaml"
	factorsFile    = "data/physiological_states.yaml"
)

// Paths overrides the embedded tables. Empty fields keep the embedded data.
type Paths struct {
	Legacy     string
	Commercial string
	Factors    string
}

// Store holds the decoded tables. It never changes after New returns.
type Store struct {
	legacy     []domain.LegacyFood
	commercial []domain.CommercialFood
	factors    map[domain.Species][]domain.StateFactor
}

var (
	_ ports.CatalogSource = (*Store)(nil)
	_ ports.FactorSource  = (*Store)(nil)
)

// New reads and decodes the three tables.
func New(paths Paths) (*Store, error) {
	s := &Store{}

	if err := decode(paths.Legacy, legacyFile, &s.legacy); err != nil {
		return nil, fmt.Errorf("load legacy foods: %w", err)
	}
	if err := decode(paths.Commercial, commercialFile, &s.commercial); err != nil {
		return nil, fmt.Errorf("load commercial foods: %w", err)
	}

	var rows map[string][]factorRow
	if err := decode(paths.Factors, factorsFile, &rows); err != nil {
		return nil, fmt.Errorf("load physiological states: %w", err)
	}
	factors, err := toFactors(rows)
	if err != nil {
		return nil, fmt.Errorf("load physiological states: %w", err)
	}
	s.factors = factors

	return s, nil
}

// Embedded loads the tables compiled into the binary.
func Embedded() (*Store, error) {
	return New(Paths{})
}

// LegacyFoods returns a copy of the hand-authored list.
func (s *Store) LegacyFoods(context.Context) ([]domain.LegacyFood, error) {
	out := make([]domain.LegacyFood, len(s.legacy))
	copy(out, s.legacy)
	return out, nil
}

// CommercialFoods returns a copy of the guaranteed-analysis catalog.
func (s *Store) CommercialFoods(context.Context) ([]domain.CommercialFood, error) {
	out := make([]domain.CommercialFood, len(s.commercial))
	copy(out, s.commercial)
	return out, nil
}

// Factors returns the per-species state rows in file order.
func (s *Store) Factors(context.Context) (map[domain.Species][]domain.StateFactor, error) {
	out := make(map[domain.Species][]domain.StateFactor, len(s.factors))
	for species, rows := range s.factors {
		out[species] = append([]domain.StateFactor(nil), rows...)
	}
	return out, nil
}

func decode(path, embeddedName string, out any) error {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = embedded.ReadFile(embeddedName)
	}
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

type factorRow struct {
	Name      string  `yaml:"name"`
	K         kFactor `yaml:"k"`
	Rationale string  `yaml:"rationale"`
}

// kFactor accepts `k: 1.6` or `k: "2.0-4.0"`.
type kFactor struct {
	Min float64
	Max float64
}

func (k *kFactor) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: k must be a number or a range", node.Line)
	}

	value := strings.TrimSpace(node.Value)
	if lo, hi, ok := strings.Cut(value, "-"); ok && lo != "" {
		minK, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid k range %q", node.Line, value)
		}
		maxK, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid k range %q", node.Line, value)
		}
		k.Min, k.Max = minK, maxK
		return nil
	}

	single, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid k %q", node.Line, value)
	}
	k.Min, k.Max = single, single
	return nil
}

func toFactors(rows map[string][]factorRow) (map[domain.Species][]domain.StateFactor, error) {
	out := make(map[domain.Species][]domain.StateFactor, len(rows))
	for key, list := range rows {
		species, err := domain.ParseSpecies(key)
		if err != nil {
			return nil, err
		}
		factors := make([]domain.StateFactor, 0, len(list))
		for _, r := range list {
			factors = append(factors, domain.StateFactor{
				Name:      r.Name,
				KMin:      r.K.Min,
				KMax:      r.K.Max,
				Rationale: r.Rationale,
			})
		}
		out[species] = factors
	}
	return out, nil
}
