package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"VetNutrition/internal/catalog"
	"VetNutrition/internal/domain"
	"VetNutrition/internal/ration"
	"VetNutrition/internal/usecase"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printEnergy(w io.Writer, r usecase.EnergyReport) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "RER\t%.1f kcal/dia\t%s\n", r.Daily.Resting.Kcal, r.Daily.Resting.Formula.Describe())

	factor := r.Daily.Factor.Name
	if !r.Daily.FactorExact {
		factor += " (padrão)"
	}
	fmt.Fprintf(tw, "Estado\t%s\tk=%s\n", factor, r.Daily.Factor.KText())

	if r.Daily.RangeText != "" {
		fmt.Fprintf(tw, "DER\t%.1f kcal/dia\tfaixa %s kcal/dia\n", r.Daily.Kcal, r.Daily.RangeText)
	} else {
		fmt.Fprintf(tw, "DER\t%.1f kcal/dia\t\n", r.Daily.Kcal)
	}

	switch {
	case r.NeedsIdealWeight:
		fmt.Fprintf(tw, "Meta\t%s\t%s\n", ration.MissingTargetText, r.Target.Goal)
	default:
		fmt.Fprintf(tw, "Meta\t%.1f kcal/dia\t%s\n", r.Target.Kcal, r.Target.Goal)
	}

	for _, plan := range r.Refeeding {
		stages := make([]string, 0, len(plan.Stages))
		for _, s := range plan.Stages {
			stages = append(stages, fmt.Sprintf("D%d %.0f%% %.1f", s.Day, s.Fraction*100, s.Kcal))
		}
		fmt.Fprintf(tw, "Realimentação %d dias\t%s\t\n", plan.Days, strings.Join(stages, " | "))
	}
	return tw.Flush()
}

func printStates(w io.Writer, states []domain.StateFactor) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ESTADO\tK\tJUSTIFICATIVA")
	for _, s := range states {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.KText(), s.Rationale)
	}
	return tw.Flush()
}

func printFoods(w io.Writer, entries []catalog.Entry) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tALIMENTO\tDENSIDADE\tPERFIL\tAVISOS")
	for _, e := range entries {
		d := e.Record.EnergyDensity()
		density := "-"
		if d.Usable() {
			density = fmt.Sprintf("%.3f kcal/%s", d.KcalPerUnit, d.Label())
		}
		warnings := make([]string, 0, len(e.Warnings))
		for _, warn := range e.Warnings {
			warnings = append(warnings, string(warn.Kind))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Record.DisplayName(), density, e.Record.NutritionProfile().Label(), strings.Join(warnings, ","))
	}
	return tw.Flush()
}

func printPlan(w io.Writer, plan usecase.Plan) error {
	if err := printEnergy(w, plan.Energy); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw := newTable(w)
	fmt.Fprintln(tw, "ALIMENTO\tQUANTIDADE\tOBS")
	for _, line := range plan.Lines {
		name := line.Entry.Record.DisplayName()
		note := ""
		if line.ReferenceOnly {
			note = "apenas referência"
		}
		if line.Amount != nil {
			if line.Amount.LowConfidence {
				note = strings.TrimPrefix(note+", unidade presumida", ", ")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", name, line.Amount.Text, note)
			continue
		}
		for _, sp := range line.Refeeding {
			texts := make([]string, 0, len(sp.Stages))
			for _, s := range sp.Stages {
				texts = append(texts, fmt.Sprintf("D%d %s", s.Day, s.Amount.Text))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", name, strings.Join(texts, " | "), note)
		}
	}
	return tw.Flush()
}
