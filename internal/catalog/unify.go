// Package catalog merges the legacy and commercial food lists into one
// filtered, searchable and collated catalog.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"VetNutrition/internal/domain"
	"VetNutrition/internal/food"
)

// ErrUnknownFood is returned when an id matches no catalog entry.
var ErrUnknownFood = errors.New("unknown food")

// Namespace for name-derived ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("vetnutrition/catalog"))

// Filter restricts the unified list. An empty Species keeps every species;
// LifeStage ALL and NeuterStatus ANY match everything.
type Filter struct {
	Species       domain.Species      `json:"species,omitempty" yaml:"species,omitempty"`
	LifeStage     domain.LifeStage    `json:"lifeStage,omitempty" yaml:"lifeStage,omitempty"`
	NeuterStatus  domain.NeuterStatus `json:"neuterStatus,omitempty" yaml:"neuterStatus,omitempty"`
	IsTherapeutic *bool               `json:"isTherapeutic,omitempty" yaml:"isTherapeutic,omitempty"`
}

func (f Filter) key(query string) string {
	therapeutic := "-"
	if f.IsTherapeutic != nil {
		therapeutic = fmt.Sprint(*f.IsTherapeutic)
	}
	return strings.Join([]string{
		string(f.Species), string(f.LifeStage), string(f.NeuterStatus), therapeutic,
		strings.ToLower(strings.TrimSpace(query)),
	}, "|")
}

// Entry is one unified catalog row.
type Entry struct {
	ID         string             `json:"id"`
	Record     domain.FoodRecord  `json:"record"`
	IsLegacy   bool               `json:"isLegacySource"`
	Custom     bool               `json:"custom,omitempty"`
	Warnings   []domain.Warning   `json:"warnings,omitempty"`
	Validation *domain.Validation `json:"validation,omitempty"`
}

// LegacyID derives the stable id of a hand-authored food.
func LegacyID(name string) string {
	var b strings.Builder
	b.WriteString("predefined-")
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	return b.String()
}

// CommercialID keeps the declared id or derives one from the display name.
func CommercialID(c domain.CommercialFood) string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return id
	}
	return uuid.NewSHA1(idNamespace, []byte(c.DisplayName())).String()
}

// NewLegacyEntry classifies a legacy food into an entry.
func NewLegacyEntry(f domain.LegacyFood) Entry {
	return Entry{
		ID:       LegacyID(f.Name),
		Record:   food.Classify(domain.NewLegacyRecord(f)),
		IsLegacy: true,
	}
}

// NewCommercialEntry classifies a commercial food and attaches its
// warnings and validation report.
func NewCommercialEntry(c domain.CommercialFood) Entry {
	v := food.Validate(c)
	return Entry{
		ID:         CommercialID(c),
		Record:     food.Classify(domain.NewCommercialRecord(c)),
		Warnings:   food.Warnings(c),
		Validation: &v,
	}
}

// CustomFood is a user-entered food with a declared density.
type CustomFood struct {
	Name     string           `json:"name" yaml:"name"`
	Calories float64          `json:"calories" yaml:"calories"`
	Unit     string           `json:"unit" yaml:"unit"`
	Species  []domain.Species `json:"species,omitempty" yaml:"species,omitempty"`
}

// NewCustomEntry runs a custom food through the same normalization and
// classification as the legacy list.
func NewCustomEntry(c CustomFood) Entry {
	species := c.Species
	if len(species) == 0 {
		species = []domain.Species{domain.SpeciesDog, domain.SpeciesCat}
	}
	seed := fmt.Sprintf("%s|%v|%s", strings.TrimSpace(c.Name), c.Calories, strings.ToLower(strings.TrimSpace(c.Unit)))
	return Entry{
		ID: "custom-" + uuid.NewSHA1(idNamespace, []byte(seed)).String(),
		Record: food.Classify(domain.NewLegacyRecord(domain.LegacyFood{
			Name:     strings.TrimSpace(c.Name),
			Species:  species,
			Calories: c.Calories,
			Unit:     c.Unit,
		})),
		IsLegacy: true,
		Custom:   true,
	}
}

// Entries classifies both catalogs without filtering.
func Entries(legacy []domain.LegacyFood, commercial []domain.CommercialFood) []Entry {
	out := make([]Entry, 0, len(legacy)+len(commercial))
	for _, f := range legacy {
		out = append(out, NewLegacyEntry(f))
	}
	for _, c := range commercial {
		out = append(out, NewCommercialEntry(c))
	}
	return out
}

// Unify merges, filters, searches and sorts both catalogs.
func Unify(legacy []domain.LegacyFood, commercial []domain.CommercialFood, filter Filter, query string) []Entry {
	return Select(Entries(legacy, commercial), filter, query)
}

// Select applies filter and query to classified entries and sorts the
// result with pt-BR collation ignoring case and diacritics.
func Select(entries []Entry, filter Filter, query string) []Entry {
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !filter.Matches(e.Record) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Record.DisplayName()), needle) {
			continue
		}
		out = append(out, e)
	}

	Sort(out)
	return out
}

// Matches applies the structured filter to a record.
func (f Filter) Matches(rec domain.FoodRecord) bool {
	if f.Species != "" && !rec.ServesSpecies(f.Species) {
		return false
	}
	if !lifeStageMatches(f.LifeStage, rec.LifeStage()) {
		return false
	}
	if !neuterMatches(f.NeuterStatus, rec.NeuterStatus()) {
		return false
	}
	if f.IsTherapeutic != nil && rec.IsTherapeutic() != *f.IsTherapeutic {
		return false
	}
	return true
}

func lifeStageMatches(want, have domain.LifeStage) bool {
	return want == "" || want == domain.LifeStageAll || have == domain.LifeStageAll || want == have
}

func neuterMatches(want, have domain.NeuterStatus) bool {
	return want == "" || want == domain.NeuterAny || have == domain.NeuterAny || want == have
}

// Sort orders entries by display name, then id.
func Sort(entries []Entry) {
	// collate.Collator is not safe for concurrent use.
	col := collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := col.CompareString(a.Record.DisplayName(), b.Record.DisplayName()); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
