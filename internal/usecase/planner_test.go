package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/domain"
	"VetNutrition/internal/energy"
	"VetNutrition/internal/ration"
)

var dogStates = []domain.StateFactor{
	{Name: "Paciente Crítico / Hospitalizado", KMin: 1.0, KMax: 1.0, Rationale: "Meta inicial."},
	{Name: "Adulto Castrado / Inativo", KMin: 1.6, KMax: 1.6, Rationale: "Para prevenir ganho de peso."},
	{Name: "Lactação (Ninhada pequena 1-4)", KMin: 2.0, KMax: 4.0},
}

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()

	table, err := energy.NewFactorTable(map[domain.Species][]domain.StateFactor{
		domain.SpeciesDog: dogStates,
		domain.SpeciesCat: {{Name: "Adulto Castrado / Inativo", KMin: 1.0, KMax: 1.0}},
	})
	if err != nil {
		t.Fatalf("NewFactorTable: %v", err)
	}

	unifier, err := catalog.NewUnifier(
		[]domain.LegacyFood{
			{Name: "Ração Teste", Species: []domain.Species{domain.SpeciesDog}, Calories: 3.0, Unit: "g"},
			{Name: "Suplemento Sem Caloria", Species: []domain.Species{domain.SpeciesDog}, Calories: 0, Unit: "g"},
		},
		[]domain.CommercialFood{{
			ID: "premier-renal", Brand: "Premier", Product: "Renal Cães", Species: domain.SpeciesDog,
			MEKcalPerKg: 3950,
		}},
		0,
	)
	if err != nil {
		t.Fatalf("NewUnifier: %v", err)
	}

	return NewPlanner(PlannerDeps{Calculator: energy.NewCalculator(table), Catalog: unifier})
}

func dog(weight float64, state string) domain.PatientInputs {
	return domain.PatientInputs{Species: domain.SpeciesDog, WeightKg: weight, PhysiologicalState: state}
}

func TestEnergyMaintenance(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	report, err := p.Energy(dog(10, "Adulto Castrado / Inativo"))
	if err != nil {
		t.Fatalf("Energy: %v", err)
	}
	if math.Abs(report.Daily.Kcal-629.9) > 0.1 || report.Target.Kcal != report.Daily.Kcal {
		t.Fatalf("daily = %v, target = %v", report.Daily.Kcal, report.Target.Kcal)
	}
	if report.Critical || len(report.Refeeding) != 0 || report.NeedsIdealWeight {
		t.Fatalf("unexpected flags: %+v", report)
	}
}

func TestEnergyDeficitWithoutIdealWeight(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	in := dog(30, "Adulto Castrado / Inativo")
	in.Goal = domain.GoalDeficit

	report, err := p.Energy(in)
	if err != nil {
		t.Fatalf("Energy: %v", err)
	}
	if !report.NeedsIdealWeight || report.Target.Kcal != 0 {
		t.Fatalf("report = %+v", report)
	}

	plan, err := p.Plan(PlanRequest{Patient: in, Foods: []FoodLine{{ID: catalog.LegacyID("Ração Teste")}}})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if got := plan.Lines[0].Amount; got == nil || got.Status != ration.StatusMissingTarget {
		t.Fatalf("amount = %+v", got)
	}
}

func TestEnergyCriticalBypassesGoal(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	in := dog(10, "Paciente Crítico / Hospitalizado")
	in.Goal = domain.GoalDeficit
	in.IdealWeightKg = 8

	report, err := p.Energy(in)
	if err != nil {
		t.Fatalf("Energy: %v", err)
	}
	if !report.Critical || report.Target.Goal != domain.GoalMaintenance {
		t.Fatalf("report = %+v", report)
	}
	if report.Target.Kcal != report.Daily.Resting.Kcal || len(report.Refeeding) != 2 {
		t.Fatalf("target = %v, rer = %v, plans = %d", report.Target.Kcal, report.Daily.Resting.Kcal, len(report.Refeeding))
	}

	plan, err := p.Plan(PlanRequest{Patient: in, Foods: []FoodLine{{ID: "premier-renal"}}})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	line := plan.Lines[0]
	if line.Amount != nil || len(line.Refeeding) != 2 {
		t.Fatalf("critical line = %+v", line)
	}
	last := line.Refeeding[0].Stages[2]
	if want := report.Daily.Resting.Kcal / 3950 * 1000; math.Abs(last.Amount.Value-want) > 1e-9 {
		t.Fatalf("day 3 amount = %v, want %v", last.Amount.Value, want)
	}
}

func TestEnergyErrors(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	if _, err := p.Energy(dog(0, "Adulto Castrado / Inativo")); !errors.Is(err, energy.ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
	if _, err := p.Energy(domain.PatientInputs{Species: "horse", WeightKg: 400}); !errors.Is(err, domain.ErrUnknownSpecies) {
		t.Fatalf("expected ErrUnknownSpecies, got %v", err)
	}
	if _, err := p.States("horse"); !errors.Is(err, domain.ErrUnknownSpecies) {
		t.Fatalf("expected ErrUnknownSpecies, got %v", err)
	}
	if _, err := p.IdealWeight(domain.SpeciesDog, 20, 10); !errors.Is(err, energy.ErrInvalidBodyCondition) {
		t.Fatalf("expected ErrInvalidBodyCondition, got %v", err)
	}
}

func TestStatesAndIdealWeight(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	states, err := p.States(domain.SpeciesDog)
	if err != nil {
		t.Fatalf("States: %v", err)
	}
	if diff := cmp.Diff(dogStates, states); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}

	w, err := p.IdealWeight(domain.SpeciesDog, 22, 6)
	if err != nil || math.Abs(w-20) > 1e-9 {
		t.Fatalf("IdealWeight = %v, %v", w, err)
	}
}

func TestFoods(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	got := p.Foods(FoodQuery{Filter: catalog.Filter{Species: domain.SpeciesDog}, Query: "ração"})
	if len(got) != 1 || got[0].ID != catalog.LegacyID("Ração Teste") {
		t.Fatalf("foods = %+v", got)
	}
	if all := p.Foods(FoodQuery{}); len(all) != 3 {
		t.Fatalf("expected 3 foods, got %d", len(all))
	}
}

func TestPlanResolvesLines(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	plan, err := p.Plan(PlanRequest{
		Patient: dog(10, "Adulto Castrado / Inativo"),
		Foods: []FoodLine{
			{ID: catalog.LegacyID("Ração Teste")},
			{ID: "premier-renal"},
			{ID: catalog.LegacyID("Suplemento Sem Caloria"), ReferenceOnly: true},
		},
		CustomFoods: []CustomLine{{CustomFood: catalog.CustomFood{Name: "Frango cozido", Calories: 1650, Unit: "kg"}}},
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(plan.Lines))
	}

	target := plan.Energy.Target.Kcal
	wants := []float64{target / 3.0, target / 3950 * 1000}
	for i, want := range wants {
		got := plan.Lines[i].Amount
		if got == nil || got.Status != ration.StatusOK || math.Abs(got.Value-want) > 1e-9 {
			t.Fatalf("line %d amount = %+v, want %v", i, got, want)
		}
	}

	if ref := plan.Lines[2]; !ref.ReferenceOnly || ref.Amount.Status != ration.StatusZeroDensity {
		t.Fatalf("reference line = %+v", ref)
	}
	if custom := plan.Lines[3]; !custom.Entry.Custom || math.Abs(custom.Amount.Value-target/1.65) > 1e-9 {
		t.Fatalf("custom line = %+v", custom)
	}
}

func TestPlanErrors(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	patient := dog(10, "Adulto Castrado / Inativo")

	_, err := p.Plan(PlanRequest{Patient: patient, Foods: []FoodLine{{ID: "nope"}}})
	if !errors.Is(err, catalog.ErrUnknownFood) {
		t.Fatalf("expected ErrUnknownFood, got %v", err)
	}

	_, err = p.Plan(PlanRequest{Patient: patient, Foods: []FoodLine{{ID: catalog.LegacyID("Suplemento Sem Caloria")}}})
	if !errors.Is(err, ration.ErrZeroEnergyDensity) {
		t.Fatalf("expected ErrZeroEnergyDensity, got %v", err)
	}
}

type stubImporter struct{ url string }

func (s *stubImporter) Import(_ context.Context, pageURL string) (domain.CommercialFood, error) {
	s.url = pageURL
	return domain.CommercialFood{ID: "draft", MEKcalPerKg: 3800}, nil
}

func TestImport(t *testing.T) {
	t.Parallel()

	p := newTestPlanner(t)
	if _, err := p.Import(context.Background(), "https://www.petz.com.br/p"); err == nil {
		t.Fatalf("expected error without importer")
	}

	stub := &stubImporter{}
	p.importer = stub
	draft, err := p.Import(context.Background(), "https://www.petz.com.br/p")
	if err != nil || draft.ID != "draft" || stub.url != "https://www.petz.com.br/p" {
		t.Fatalf("Import = %+v, %v (url %q)", draft, err, stub.url)
	}
}
