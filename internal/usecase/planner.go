package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/domain"
	"VetNutrition/internal/energy"
	"VetNutrition/internal/ports"
	"VetNutrition/internal/ration"
)

// PlannerDeps wires the computation core and optional adapters into the planner.
type PlannerDeps struct {
	Calculator *energy.Calculator
	Catalog    *catalog.Unifier
	Importer   ports.GuaranteeImporter
	Logger     *slog.Logger
}

// Planner implements the feeding-plan workflow shared by every outer surface.
type Planner struct {
	calculator *energy.Calculator
	catalog    *catalog.Unifier
	importer   ports.GuaranteeImporter
	logger     *slog.Logger
}

// NewPlanner constructs the orchestration component.
func NewPlanner(deps PlannerDeps) *Planner {
	return &Planner{
		calculator: deps.Calculator,
		catalog:    deps.Catalog,
		importer:   deps.Importer,
		logger:     deps.Logger,
	}
}

// EnergyReport is everything derived from the patient inputs alone.
type EnergyReport struct {
	Patient domain.PatientInputs `json:"patient"`
	Daily   energy.DailyEnergy   `json:"daily"`
	Target  energy.Target        `json:"target"`
	// NeedsIdealWeight is set when the goal could not be resolved and the
	// caller must ask for the ideal weight instead of showing a dose.
	NeedsIdealWeight bool                   `json:"needsIdealWeight,omitempty"`
	Critical         bool                   `json:"critical"`
	Refeeding        []energy.RefeedingPlan `json:"refeeding,omitempty"`
}

// Energy computes RER, DER and the caloric target. Critical patients skip
// the goal and get the refeeding ramps over their current RER.
func (p *Planner) Energy(in domain.PatientInputs) (EnergyReport, error) {
	if !in.Species.Valid() {
		return EnergyReport{}, fmt.Errorf("energy: %w %q", domain.ErrUnknownSpecies, in.Species)
	}

	daily, err := p.calculator.Daily(in.Species, in.WeightKg, in.PhysiologicalState)
	if err != nil {
		return EnergyReport{}, fmt.Errorf("energy: %w", err)
	}

	report := EnergyReport{Patient: in, Daily: daily, Critical: daily.Critical}
	if daily.Critical {
		report.Target = energy.Target{Goal: domain.GoalMaintenance, Kcal: daily.Resting.Kcal}
		report.Refeeding = energy.RefeedingPlans(daily.Resting)
		p.debug("critical patient", "species", in.Species, "rer", daily.Resting.Kcal)
		return report, nil
	}

	target, err := p.calculator.Target(in)
	switch {
	case errors.Is(err, energy.ErrMissingIdealWeight):
		report.NeedsIdealWeight = true
	case err != nil:
		return EnergyReport{}, fmt.Errorf("energy target: %w", err)
	}
	report.Target = target

	if !daily.FactorExact {
		p.debug("state fell back to default", "requested", in.PhysiologicalState, "applied", daily.Factor.Name)
	}
	return report, nil
}

// States lists the physiological states of one species in table order.
func (p *Planner) States(species domain.Species) ([]domain.StateFactor, error) {
	if !species.Valid() {
		return nil, fmt.Errorf("states: %w %q", domain.ErrUnknownSpecies, species)
	}
	return p.calculator.Factors().States(species), nil
}

// IdealWeight estimates the ideal weight from a body condition score.
func (p *Planner) IdealWeight(species domain.Species, weightKg float64, bcs int) (float64, error) {
	w, err := energy.IdealWeight(species, weightKg, bcs)
	if err != nil {
		return 0, fmt.Errorf("ideal weight: %w", err)
	}
	return w, nil
}

// FoodQuery selects entries from the unified catalog.
type FoodQuery struct {
	Filter catalog.Filter `json:"filter"`
	Query  string         `json:"query,omitempty"`
}

// Foods returns the filtered and sorted catalog view.
func (p *Planner) Foods(q FoodQuery) []catalog.Entry {
	entries := p.catalog.Search(q.Filter, q.Query)
	p.debug("foods searched", "query", q.Query, "species", q.Filter.Species, "count", len(entries))
	return entries
}

// FoodLine selects a catalog entry for the plan.
type FoodLine struct {
	ID            string `json:"id" yaml:"id"`
	ReferenceOnly bool   `json:"referenceOnly,omitempty" yaml:"referenceOnly,omitempty"`
}

// CustomLine adds a user-entered food to the plan.
type CustomLine struct {
	catalog.CustomFood `yaml:",inline"`
	ReferenceOnly      bool `json:"referenceOnly,omitempty" yaml:"referenceOnly,omitempty"`
}

// PlanRequest is one patient plus the foods chosen for it.
type PlanRequest struct {
	Patient     domain.PatientInputs `json:"patient" yaml:"patient"`
	Foods       []FoodLine           `json:"foods" yaml:"foods"`
	CustomFoods []CustomLine         `json:"customFoods,omitempty" yaml:"customFoods,omitempty"`
}

// Plan is the resolved prescription.
type Plan struct {
	Energy EnergyReport          `json:"energy"`
	Lines  []ration.ResolvedLine `json:"lines"`
}

// Plan resolves the energy report and a daily amount for each chosen food.
func (p *Planner) Plan(req PlanRequest) (Plan, error) {
	report, err := p.Energy(req.Patient)
	if err != nil {
		return Plan{}, err
	}

	var rx ration.Prescription
	for _, line := range req.Foods {
		entry, err := p.catalog.Find(line.ID)
		if err != nil {
			return Plan{}, fmt.Errorf("plan: %w", err)
		}
		if err := rx.Add(entry, line.ReferenceOnly); err != nil {
			return Plan{}, fmt.Errorf("plan: %w", err)
		}
	}
	for _, custom := range req.CustomFoods {
		if err := rx.Add(catalog.NewCustomEntry(custom.CustomFood), custom.ReferenceOnly); err != nil {
			return Plan{}, fmt.Errorf("plan: %w", err)
		}
	}

	lines := rx.Resolve(report.Target.Kcal, report.Refeeding)
	p.debug("plan resolved", "lines", len(lines), "target", report.Target.Kcal, "critical", report.Critical)
	return Plan{Energy: report, Lines: lines}, nil
}

// Import drafts a commercial food from a retailer page. The result is
// never added to the running catalog.
func (p *Planner) Import(ctx context.Context, pageURL string) (domain.CommercialFood, error) {
	if p.importer == nil {
		return domain.CommercialFood{}, fmt.Errorf("import: no importer configured")
	}
	draft, err := p.importer.Import(ctx, pageURL)
	if err != nil {
		return domain.CommercialFood{}, fmt.Errorf("import: %w", err)
	}
	return draft, nil
}

func (p *Planner) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
