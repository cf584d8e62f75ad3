package energy

import (
	"errors"
	"math"
	"testing"

	"VetNutrition/internal/domain"
)

const tolerance = 1e-9

func testTable(t *testing.T) *FactorTable {
	t.Helper()

	table, err := NewFactorTable(map[domain.Species][]domain.StateFactor{
		domain.SpeciesDog: {
			{Name: "Paciente Crítico / Hospitalizado", KMin: 1.0, Rationale: "Meta inicial."},
			{Name: "Adulto Castrado / Inativo", KMin: 1.6, Rationale: "Para prevenir ganho de peso."},
			{Name: "Lactação (Ninhada pequena 1-4)", KMin: 2.0, KMax: 4.0, Rationale: "Ajustar conforme nº de filhotes."},
		},
		domain.SpeciesCat: {
			{Name: "Adulto Castrado / Inativo", KMin: 1.0},
			{Name: "Idoso (sem sobrepeso)", KMin: 1.0, KMax: 1.2},
		},
	})
	if err != nil {
		t.Fatalf("NewFactorTable: %v", err)
	}
	return table
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRestingAllometricBand(t *testing.T) {
	t.Parallel()

	for _, w := range []float64{2, 2.5, 10, 22.7, 45} {
		got, err := Resting(domain.SpeciesDog, w)
		if err != nil {
			t.Fatalf("Resting(dog, %v): %v", w, err)
		}
		want := 70 * math.Pow(w, 0.75)
		if got.Formula != FormulaAllometric || !almostEqual(got.Kcal, want, tolerance) {
			t.Fatalf("Resting(dog, %v) = %+v, want allometric %v", w, got, want)
		}
	}

	got, _ := Resting(domain.SpeciesDog, 10)
	if !almostEqual(got.Kcal, 393.7, 0.1) {
		t.Fatalf("dog 10kg RER = %v, want ≈393.7", got.Kcal)
	}
}

func TestRestingLinearOutsideBand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		weight float64
		want   float64
	}{
		{1, 100},
		{50, 1570},
		{1.99, 30*1.99 + 70},
	}
	for _, tc := range cases {
		got, err := Resting(domain.SpeciesDog, tc.weight)
		if err != nil {
			t.Fatalf("Resting(dog, %v): %v", tc.weight, err)
		}
		if got.Formula != FormulaLinear || !almostEqual(got.Kcal, tc.want, tolerance) {
			t.Fatalf("Resting(dog, %v) = %+v, want linear %v", tc.weight, got, tc.want)
		}
	}
}

func TestRestingCatAlwaysAllometric(t *testing.T) {
	t.Parallel()

	for _, w := range []float64{0.8, 4, 60} {
		got, err := Resting(domain.SpeciesCat, w)
		if err != nil {
			t.Fatalf("Resting(cat, %v): %v", w, err)
		}
		if got.Formula != FormulaAllometric {
			t.Fatalf("cat %v kg used %s", w, got.Formula)
		}
	}
}

func TestRestingInvalidWeight(t *testing.T) {
	t.Parallel()

	for _, w := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if _, err := Resting(domain.SpeciesDog, w); !errors.Is(err, ErrInvalidWeight) {
			t.Fatalf("Resting(dog, %v) err = %v, want ErrInvalidWeight", w, err)
		}
	}
}

func TestDailySingleFactor(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))
	got, err := calc.Daily(domain.SpeciesDog, 10, "Adulto Castrado / Inativo")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if !almostEqual(got.Kcal, 629.9, 0.15) {
		t.Fatalf("DER = %v, want ≈629.9", got.Kcal)
	}
	if got.RangeText != "" || !got.FactorExact || got.Critical {
		t.Fatalf("unexpected flags: %+v", got)
	}
}

func TestDailyRangeFactorUsesMinimum(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))
	got, err := calc.Daily(domain.SpeciesDog, 10, "Lactação (Ninhada pequena 1-4)")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	rer := 70 * math.Pow(10, 0.75)
	if !almostEqual(got.MinKcal, rer*2, tolerance) || !almostEqual(got.MaxKcal, rer*4, tolerance) {
		t.Fatalf("range = [%v, %v]", got.MinKcal, got.MaxKcal)
	}
	if got.Kcal != got.MinKcal {
		t.Fatalf("canonical DER = %v, want min %v", got.Kcal, got.MinKcal)
	}
	if got.RangeText != "787.3 a 1574.6" {
		t.Fatalf("range text = %q", got.RangeText)
	}
}

func TestDailyUnknownStateFallsBack(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))
	got, err := calc.Daily(domain.SpeciesCat, 4, "Estado inexistente")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got.FactorExact || got.Factor.Name != DefaultState {
		t.Fatalf("expected fallback to %q, got %+v", DefaultState, got.Factor)
	}
}

func TestDailyCriticalFlag(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))
	got, err := calc.Daily(domain.SpeciesDog, 10, "Paciente Crítico / Hospitalizado")
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if !got.Critical {
		t.Fatalf("expected critical state")
	}
}

func TestUnknownSpeciesIsRejected(t *testing.T) {
	t.Parallel()

	if _, err := Resting(domain.Species("horse"), 10); !errors.Is(err, domain.ErrUnknownSpecies) {
		t.Fatalf("Resting(horse) err = %v, want ErrUnknownSpecies", err)
	}

	calc := NewCalculator(testTable(t))
	for _, goal := range []domain.NutritionalGoal{domain.GoalMaintenance, domain.GoalDeficit, domain.GoalSurplus} {
		in := domain.PatientInputs{Species: "horse", WeightKg: 10, Goal: goal, IdealWeightKg: 8}
		got, err := calc.Target(in)
		if !errors.Is(err, domain.ErrUnknownSpecies) {
			t.Fatalf("Target(%s) err = %v, want ErrUnknownSpecies", goal, err)
		}
		if got.Kcal != 0 {
			t.Fatalf("Target(%s) kcal = %v", goal, got.Kcal)
		}
	}
}

func TestTargetUnknownGoal(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))
	in := domain.PatientInputs{Species: domain.SpeciesDog, WeightKg: 10, Goal: "bulking", IdealWeightKg: 9}
	if _, err := calc.Target(in); !errors.Is(err, domain.ErrUnknownGoal) {
		t.Fatalf("err = %v, want ErrUnknownGoal", err)
	}
}

func TestTargetGoals(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))

	cases := []struct {
		name string
		in   domain.PatientInputs
		want float64
	}{
		{
			name: "maintenance uses DER",
			in:   domain.PatientInputs{Species: domain.SpeciesDog, WeightKg: 10, PhysiologicalState: "Adulto Castrado / Inativo", Goal: domain.GoalMaintenance},
			want: 70 * math.Pow(10, 0.75) * 1.6,
		},
		{
			name: "cat deficit on ideal weight",
			in:   domain.PatientInputs{Species: domain.SpeciesCat, WeightKg: 6, PhysiologicalState: "Adulto Castrado / Inativo", Goal: domain.GoalDeficit, IdealWeightKg: 4},
			want: 70 * math.Pow(4, 0.75) * 0.8,
		},
		{
			name: "dog deficit on ideal weight",
			in:   domain.PatientInputs{Species: domain.SpeciesDog, WeightKg: 30, Goal: domain.GoalDeficit, IdealWeightKg: 25},
			want: 70 * math.Pow(25, 0.75),
		},
		{
			name: "dog surplus uses linear form below 2kg",
			in:   domain.PatientInputs{Species: domain.SpeciesDog, WeightKg: 1.2, Goal: domain.GoalSurplus, IdealWeightKg: 1.5},
			want: (30*1.5 + 70) * 1.4,
		},
		{
			name: "cat surplus",
			in:   domain.PatientInputs{Species: domain.SpeciesCat, WeightKg: 3, Goal: domain.GoalSurplus, IdealWeightKg: 4},
			want: 70 * math.Pow(4, 0.75) * 1.2,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := calc.Target(tc.in)
			if err != nil {
				t.Fatalf("Target: %v", err)
			}
			if !almostEqual(got.Kcal, tc.want, tolerance) {
				t.Fatalf("target = %v, want %v", got.Kcal, tc.want)
			}
		})
	}
}

func TestTargetCatDeficitMatchesReference(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))
	got, err := calc.Target(domain.PatientInputs{Species: domain.SpeciesCat, WeightKg: 5, Goal: domain.GoalDeficit, IdealWeightKg: 4})
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if got.RestingIdeal == nil || !almostEqual(got.RestingIdeal.Kcal, 198.0, 0.05) {
		t.Fatalf("resting at ideal weight = %+v", got.RestingIdeal)
	}
	if !almostEqual(got.Kcal, 158.4, 0.05) {
		t.Fatalf("target = %v", got.Kcal)
	}
}

func TestTargetMissingIdealWeight(t *testing.T) {
	t.Parallel()

	calc := NewCalculator(testTable(t))
	for _, goal := range []domain.NutritionalGoal{domain.GoalDeficit, domain.GoalSurplus} {
		got, err := calc.Target(domain.PatientInputs{Species: domain.SpeciesDog, WeightKg: 12, Goal: goal})
		if !errors.Is(err, ErrMissingIdealWeight) {
			t.Fatalf("%s: err = %v", goal, err)
		}
		if got.Kcal != 0 {
			t.Fatalf("%s: target = %v, want 0", goal, got.Kcal)
		}
	}
}

func TestRefeedingPlans(t *testing.T) {
	t.Parallel()

	plans := RefeedingPlans(RestingEnergy{Kcal: 400})
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}

	three, four := plans[0], plans[1]
	if three.Days != 3 || four.Days != 4 {
		t.Fatalf("unexpected ramps: %d, %d", three.Days, four.Days)
	}
	wantThree := []float64{132, 264, 400}
	for i, stage := range three.Stages {
		if stage.Day != i+1 || !almostEqual(stage.Kcal, wantThree[i], tolerance) {
			t.Fatalf("3-day stage %d = %+v", i, stage)
		}
	}
	wantFour := []float64{100, 200, 300, 400}
	for i, stage := range four.Stages {
		if !almostEqual(stage.Kcal, wantFour[i], tolerance) {
			t.Fatalf("4-day stage %d = %+v", i, stage)
		}
	}
}

func TestIsCriticalState(t *testing.T) {
	t.Parallel()

	if !IsCriticalState("PACIENTE CRÍTICO") || !IsCriticalState("hospitalizado") {
		t.Fatalf("critical states not detected")
	}
	if IsCriticalState("Adulto Ativo / Não Castrado") {
		t.Fatalf("non-critical state flagged")
	}
}

func TestIdealWeight(t *testing.T) {
	t.Parallel()

	dog, err := IdealWeight(domain.SpeciesDog, 22, 6)
	if err != nil || !almostEqual(dog, 20, tolerance) {
		t.Fatalf("dog ideal = %v, %v", dog, err)
	}
	cat, err := IdealWeight(domain.SpeciesCat, 6.5, 7)
	if err != nil || !almostEqual(cat, 5, tolerance) {
		t.Fatalf("cat ideal = %v, %v", cat, err)
	}
	if _, err := IdealWeight(domain.SpeciesCat, 4, 10); !errors.Is(err, ErrInvalidBodyCondition) {
		t.Fatalf("bcs 10 err = %v", err)
	}
	if _, err := IdealWeight(domain.SpeciesDog, 0, 5); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("zero weight err = %v", err)
	}
}

func TestNewFactorTableRejectsBadRows(t *testing.T) {
	t.Parallel()

	bad := []map[domain.Species][]domain.StateFactor{
		{domain.SpeciesDog: {{Name: "A", KMin: 1}, {Name: "A", KMin: 2}}},
		{domain.SpeciesDog: {{Name: "A", KMin: 3, KMax: 2}}},
		{domain.SpeciesDog: {{Name: "", KMin: 1}}},
		{domain.SpeciesDog: {{Name: "A", KMin: 0}}},
		{domain.Species("horse"): {{Name: "A", KMin: 1}}},
	}
	for i, rows := range bad {
		if _, err := NewFactorTable(rows); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
