package domain

// WarningKind names an automatically derived caution.
type WarningKind string

const (
	WarningHighFat          WarningKind = "high_fat"
	WarningUltraLowFat      WarningKind = "ultra_low_fat"
	WarningRenalDiet        WarningKind = "renal_diet"
	WarningUrinaryPHControl WarningKind = "urinary_ph_control"
)

// Warning is derived from a guarantee table and never stored.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}

// Validation reports catalog-data problems for a commercial food.
type Validation struct {
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Valid reports whether no blocking error was found.
func (v Validation) Valid() bool {
	return len(v.Errors) == 0
}
