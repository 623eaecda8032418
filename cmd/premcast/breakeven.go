package main

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/breakeven"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newBreakevenCmd(root *rootOptions) *cobra.Command {
	var (
		rf            requestFlags
		scenarioID    string
		paramName     string
		targetPremium string
		targetGrowth  string
		minValue      string
		maxValue      string
		format        string
	)
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Find the assumption at which premiums reach a target",
		Long: `Search a scenario parameter for the value at which the forecast reaches a
final-year premium (--target-premium) or total growth in percent
(--target-growth). Without --parameter every sweepable parameter is solved.`,
		Example: `  premcast breakeven --target-growth 80 --start 2025 --end 2035
  premcast breakeven --parameter inflation_target --target-premium 2500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return unknownChoice("output format", format, []string{"table", "json"})
			}
			goal, target, err := breakevenTarget(targetPremium, targetGrowth)
			if err != nil {
				return err
			}
			if paramName != "" {
				if _, ok := domain.SensitivityParameters[paramName]; !ok {
					return unknownChoice("parameter", paramName, parameterNames())
				}
			}
			req, err := rf.forecastRequest(cmd, scenarioID)
			if err != nil {
				return err
			}
			solveReq := breakeven.SolveRequest{Request: req, Parameter: paramName, Goal: goal, Target: target}
			if solveReq.Min, err = optionalDecimal("min", minValue); err != nil {
				return err
			}
			if solveReq.Max, err = optionalDecimal("max", maxValue); err != nil {
				return err
			}

			a, err := root.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()
			if _, ok := a.forecaster.Scenario(scenarioID); !ok {
				return unknownScenario(scenarioID, a.forecaster.ScenarioIDs())
			}

			solver := breakeven.NewDefaultSolver(a.forecaster)
			var result any
			if paramName != "" {
				result, err = solver.Solve(cmd.Context(), solveReq)
			} else {
				result, err = solver.SolveAll(cmd.Context(), solveReq, nil)
			}
			if err != nil {
				return err
			}

			var text string
			switch r := result.(type) {
			case *breakeven.SolveResult:
				text = (&breakeven.TableFormatter{}).Format(r)
			case *breakeven.MultiResult:
				text = (&breakeven.TableFormatter{}).FormatMulti(r)
			}
			if format == "json" {
				if text, err = (&breakeven.JSONFormatter{Pretty: true}).Format(result); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&scenarioID, "scenario", "s", "base", "Scenario to solve")
	cmd.Flags().StringVarP(&paramName, "parameter", "p", "", "Parameter to solve (default all)")
	cmd.Flags().StringVar(&targetPremium, "target-premium", "", "Final-year average premium to reach")
	cmd.Flags().StringVar(&targetGrowth, "target-growth", "", "Growth over the horizon to reach, in percent")
	cmd.Flags().StringVar(&minValue, "min", "", "Lowest parameter value to search")
	cmd.Flags().StringVar(&maxValue, "max", "", "Highest parameter value to search")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}

func breakevenTarget(premium, growth string) (breakeven.Goal, decimal.Decimal, error) {
	switch {
	case premium != "" && growth != "":
		return "", decimal.Decimal{}, fmt.Errorf("%w: use either --target-premium or --target-growth", domain.ErrInvalidRequest)
	case premium != "":
		v, err := optionalDecimal("target-premium", premium)
		if err != nil {
			return "", decimal.Decimal{}, err
		}
		return breakeven.GoalTargetPremium, *v, nil
	case growth != "":
		v, err := optionalDecimal("target-growth", growth)
		if err != nil {
			return "", decimal.Decimal{}, err
		}
		return breakeven.GoalTargetGrowth, *v, nil
	}
	return "", decimal.Decimal{}, fmt.Errorf("%w: --target-premium or --target-growth is required", domain.ErrInvalidRequest)
}
