package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"VetNutrition/internal/app"
	"VetNutrition/internal/catalog"
	"VetNutrition/internal/config"
	"VetNutrition/internal/domain"
	"VetNutrition/internal/energy"
	"VetNutrition/internal/logging"
	"VetNutrition/internal/usecase"
)

type rootState struct {
	application *app.Application
	jsonOut     bool
}

func newRootCmd() *cobra.Command {
	state := &rootState{}

	root := &cobra.Command{
		Use:           "vetnutrition",
		Short:         "Energy requirements and feeding amounts for dogs and cats",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			state.application = application
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&state.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newEnergyCmd(state),
		newStatesCmd(state),
		newIdealWeightCmd(state),
		newFoodsCmd(state),
		newPlanCmd(state),
		newServeCmd(state),
		newImportCmd(state),
	)
	return root
}

// patientFlags collects PatientInputs from the command line.
type patientFlags struct {
	species string
	weight  float64
	state   string
	goal    string
	ideal   float64
}

func (p *patientFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&p.species, "species", "s", "dog", "dog or cat (cão, gato)")
	f.Float64VarP(&p.weight, "weight", "w", 0, "current body weight in kg")
	f.StringVar(&p.state, "state", energy.DefaultState, "physiological state name")
	f.StringVar(&p.goal, "goal", string(domain.GoalMaintenance), "maintenance, deficit or surplus")
	f.Float64Var(&p.ideal, "ideal-weight", 0, "ideal body weight in kg (deficit and surplus)")
}

func (p *patientFlags) inputs() (domain.PatientInputs, error) {
	species, err := domain.ParseSpecies(p.species)
	if err != nil {
		return domain.PatientInputs{}, err
	}
	goal, err := domain.ParseGoal(p.goal)
	if err != nil {
		return domain.PatientInputs{}, err
	}
	return domain.PatientInputs{
		Species:            species,
		WeightKg:           p.weight,
		PhysiologicalState: p.state,
		Goal:               goal,
		IdealWeightKg:      p.ideal,
	}, nil
}

func newEnergyCmd(state *rootState) *cobra.Command {
	var patient patientFlags
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Compute RER, DER and the caloric target",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := patient.inputs()
			if err != nil {
				return err
			}
			report, err := state.application.Planner().Energy(in)
			if err != nil {
				return err
			}
			if state.jsonOut {
				return printJSON(cmd, report)
			}
			return printEnergy(cmd.OutOrStdout(), report)
		},
	}
	patient.bind(cmd)
	return cmd
}

func newStatesCmd(state *rootState) *cobra.Command {
	var species string
	cmd := &cobra.Command{
		Use:   "states",
		Short: "List physiological states and their multipliers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := domain.ParseSpecies(species)
			if err != nil {
				return err
			}
			states, err := state.application.Planner().States(s)
			if err != nil {
				return err
			}
			if state.jsonOut {
				return printJSON(cmd, states)
			}
			return printStates(cmd.OutOrStdout(), states)
		},
	}
	cmd.Flags().StringVarP(&species, "species", "s", "dog", "dog or cat")
	return cmd
}

func newIdealWeightCmd(state *rootState) *cobra.Command {
	var (
		species string
		weight  float64
		bcs     int
	)
	cmd := &cobra.Command{
		Use:   "ideal-weight",
		Short: "Estimate the ideal weight from a 9-point body condition score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := domain.ParseSpecies(species)
			if err != nil {
				return err
			}
			ideal, err := state.application.Planner().IdealWeight(s, weight, bcs)
			if err != nil {
				return err
			}
			if state.jsonOut {
				return printJSON(cmd, map[string]float64{"idealWeightKg": ideal})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Peso ideal estimado: %.1f kg\n", ideal)
			return err
		},
	}
	cmd.Flags().StringVarP(&species, "species", "s", "dog", "dog or cat")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "current body weight in kg")
	cmd.Flags().IntVar(&bcs, "bcs", 5, "body condition score (1-9)")
	return cmd
}

func newFoodsCmd(state *rootState) *cobra.Command {
	var (
		species     string
		lifeStage   string
		neuter      string
		therapeutic string
		query       string
	)
	cmd := &cobra.Command{
		Use:   "foods [query]",
		Short: "Search the unified food catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := domain.ParseLifeStage(lifeStage)
			if err != nil {
				return err
			}
			status, err := domain.ParseNeuterStatus(neuter)
			if err != nil {
				return err
			}
			filter := catalog.Filter{LifeStage: stage, NeuterStatus: status}
			if species != "" {
				s, err := domain.ParseSpecies(species)
				if err != nil {
					return err
				}
				filter.Species = s
			}
			if therapeutic != "" {
				v, err := strconv.ParseBool(therapeutic)
				if err != nil {
					return fmt.Errorf("--therapeutic: %w", err)
				}
				filter.IsTherapeutic = &v
			}
			if len(args) == 1 {
				query = args[0]
			}

			entries := state.application.Planner().Foods(usecase.FoodQuery{Filter: filter, Query: query})
			if state.jsonOut {
				return printJSON(cmd, entries)
			}
			return printFoods(cmd.OutOrStdout(), entries)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&species, "species", "s", "", "dog or cat; empty lists both")
	f.StringVar(&lifeStage, "life-stage", string(domain.LifeStageAll), "ALL, PUPPY, ADULT or SENIOR")
	f.StringVar(&neuter, "neuter", string(domain.NeuterAny), "ANY, NEUTERED or INTACT")
	f.StringVar(&therapeutic, "therapeutic", "", "true or false; empty keeps both")
	return cmd
}

func newPlanCmd(state *rootState) *cobra.Command {
	var (
		patient   patientFlags
		file      string
		foods     []string
		reference []string
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve daily amounts for the selected foods",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req usecase.PlanRequest
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read plan request: %w", err)
				}
				if err := yaml.Unmarshal(raw, &req); err != nil {
					return fmt.Errorf("parse plan request: %w", err)
				}
			} else {
				in, err := patient.inputs()
				if err != nil {
					return err
				}
				req.Patient = in
			}
			for _, id := range foods {
				req.Foods = append(req.Foods, usecase.FoodLine{ID: id})
			}
			for _, id := range reference {
				req.Foods = append(req.Foods, usecase.FoodLine{ID: id, ReferenceOnly: true})
			}

			plan, err := state.application.Planner().Plan(req)
			if err != nil {
				return err
			}
			if state.jsonOut {
				return printJSON(cmd, plan)
			}
			return printPlan(cmd.OutOrStdout(), plan)
		},
	}
	patient.bind(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML plan request (patient, foods, customFoods)")
	cmd.Flags().StringSliceVar(&foods, "food", nil, "catalog id to prescribe (repeatable)")
	cmd.Flags().StringSliceVar(&reference, "reference", nil, "catalog id listed for reference only (repeatable)")
	return cmd
}

func newServeCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and the MCP tool endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return state.application.Serve(cmd.Context())
		},
	}
}

func newImportCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "import <product-url>",
		Short: "Draft a commercial catalog entry from a retailer product page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := state.application.Planner().Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if state.jsonOut {
				return printJSON(cmd, draft)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode([]domain.CommercialFood{draft})
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
