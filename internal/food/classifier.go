// Package food infers nutrition profiles, derives guarantee-based warnings
// and validates commercial catalog rows.
package food

import (
	"slices"
	"strings"

	"VetNutrition/internal/domain"
)

// Rule maps a display-name pattern to a profile. Rules are evaluated in
// order and the first match wins.
type Rule struct {
	Name    string
	Profile domain.NutritionProfile
	Match   func(name string, rec domain.FoodRecord) bool
}

func containsAny(name string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}

// DefaultRules is the ordered rule list used by Classify. The name passed
// to Match is already lowercased.
var DefaultRules = []Rule{
	{
		Name:    "recovery-liquid",
		Profile: domain.ProfileSupportEnteral,
		Match: func(name string, _ domain.FoodRecord) bool {
			return isRecovery(name) && containsAny(name, "liquid", "líquido")
		},
	},
	{
		Name:    "recovery",
		Profile: domain.ProfileVetRecoveryComplete,
		Match: func(name string, _ domain.FoodRecord) bool {
			return isRecovery(name)
		},
	},
	{
		Name:    "human-enteral",
		Profile: domain.ProfileHumanEnteral,
		Match: func(name string, _ domain.FoodRecord) bool {
			return containsAny(name, "fresubin", "complett peptide") ||
				(strings.Contains(name, "complett") && strings.Contains(name, "líquido"))
		},
	},
	{
		Name:    "supplement",
		Profile: domain.ProfileSupplement,
		Match: func(name string, _ domain.FoodRecord) bool {
			return containsAny(name, "churu", "cat stix", "nutrapet") ||
				(strings.Contains(name, "nutralife") && strings.Contains(name, "pasta")) ||
				(strings.Contains(name, "gourmet") && containsAny(name, "sachê", "sache"))
		},
	},
	{
		Name:    "therapeutic",
		Profile: domain.ProfileVetTherapeuticComplete,
		Match: func(_ string, rec domain.FoodRecord) bool {
			return rec.IsTherapeutic()
		},
	},
	{
		Name:    "complete",
		Profile: domain.ProfileComplete,
		Match: func(string, domain.FoodRecord) bool {
			return true
		},
	},
}

func isRecovery(name string) bool {
	return containsAny(name, "recovery", "recuperação", "a/d", "urgent care")
}

// Cat safety notes attached by profile.
const (
	CatNoteHumanEnteral = "Gatos: risco por taurina e perfil mineral inadequado se uso exclusivo/prolongado."
	CatNoteSupplement   = "Não usar como dieta exclusiva."
)

// InferProfile runs rules against the record's display name.
func InferProfile(rules []Rule, rec domain.FoodRecord) (domain.NutritionProfile, string) {
	name := strings.ToLower(rec.DisplayName())
	for _, r := range rules {
		if r.Match(name, rec) {
			return r.Profile, r.Name
		}
	}
	return domain.ProfileComplete, ""
}

// IsCompleteAndBalanced reports whether a profile can be fed as a sole diet.
func IsCompleteAndBalanced(p domain.NutritionProfile) bool {
	switch p {
	case domain.ProfileComplete, domain.ProfileVetTherapeuticComplete,
		domain.ProfileVetRecoveryComplete, domain.ProfileSupportEnteral:
		return true
	}
	return false
}

// RequiresVetSupervision reports whether a profile, or a therapeutic flag,
// calls for veterinary follow-up.
func RequiresVetSupervision(p domain.NutritionProfile, therapeutic bool) bool {
	switch p {
	case domain.ProfileVetTherapeuticComplete, domain.ProfileVetRecoveryComplete,
		domain.ProfileSupportEnteral, domain.ProfileHumanEnteral:
		return true
	}
	return therapeutic
}

// Classifier fills missing classification fields.
type Classifier struct {
	rules []Rule
}

// NewClassifier uses DefaultRules when rules is empty.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns rec with every absent classification field filled and
// the legacy density normalized. Declared values are kept, so classifying
// an already classified record returns it unchanged.
func (c *Classifier) Classify(rec domain.FoodRecord) domain.FoodRecord {
	rec = rec.WithDensity(rec.EnergyDensity())

	cls := rec.Classification()
	if cls.Profile == "" {
		cls.Profile, _ = InferProfile(c.rules, rec)
	}
	if cls.CompleteAndBalanced == nil {
		v := IsCompleteAndBalanced(cls.Profile)
		cls.CompleteAndBalanced = &v
	}
	if cls.RequiresVetSupervision == nil {
		v := RequiresVetSupervision(cls.Profile, rec.IsTherapeutic())
		cls.RequiresVetSupervision = &v
	}
	if rec.ServesSpecies(domain.SpeciesCat) {
		if note := catNote(cls.Profile); note != "" && !slices.Contains(cls.SafetyNotes.Cat, note) {
			cls.SafetyNotes.Cat = append(slices.Clone(cls.SafetyNotes.Cat), note)
		}
	}
	return rec.WithClassification(cls)
}

func catNote(p domain.NutritionProfile) string {
	switch p {
	case domain.ProfileHumanEnteral:
		return CatNoteHumanEnteral
	case domain.ProfileSupplement:
		return CatNoteSupplement
	}
	return ""
}

// Classify uses the default rule list.
func Classify(rec domain.FoodRecord) domain.FoodRecord {
	return defaultClassifier.Classify(rec)
}

var defaultClassifier = NewClassifier(nil)
