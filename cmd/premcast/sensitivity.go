package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/premcast/internal/calculation"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/rgehrsitz/premcast/internal/output"
	"github.com/spf13/cobra"
)

func newSensitivityCmd(root *rootOptions) *cobra.Command {
	var (
		rf         requestFlags
		scenarioID string
		paramName  string
		minValue   string
		maxValue   string
		steps      int
		format     string
		save       bool
	)
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep one scenario parameter and measure the final premium",
		Long: fmt.Sprintf(`Re-run the forecast while one scenario parameter moves across a range and
report how the final-year premium responds.

Parameters: %s
Rates are fractions (0.05 is 5%%); longevity_gain is in years.`, strings.Join(parameterNames(), ", ")),
		Example: `  premcast sensitivity --parameter inflation_target --start 2025 --end 2035
  premcast sensitivity --parameter mortality_improvement --min 0 --max 0.03 --steps 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			param, ok := domain.SensitivityParameters[paramName]
			if !ok {
				return unknownChoice("parameter", paramName, parameterNames())
			}
			var err error
			if param, err = overrideRange(cmd, param, minValue, maxValue, steps); err != nil {
				return err
			}
			req, err := rf.forecastRequest(cmd, scenarioID)
			if err != nil {
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

			analysis, err := calculation.NewSensitivityAnalyzer(a.forecaster).AnalyzeParameter(req, param)
			if err != nil {
				return err
			}
			return emit(cmd, format, save, output.NewSensitivityReport(analysis, req.Filters))
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&scenarioID, "scenario", "s", "base", "Scenario to sweep")
	cmd.Flags().StringVarP(&paramName, "parameter", "p", "inflation_target", "Parameter to sweep")
	cmd.Flags().StringVar(&minValue, "min", "", "Lowest parameter value (default per parameter)")
	cmd.Flags().StringVar(&maxValue, "max", "", "Highest parameter value (default per parameter)")
	cmd.Flags().IntVar(&steps, "steps", 0, "Number of values in the sweep (default per parameter)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, plain, csv, json, html)")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a file instead of stdout")
	return cmd
}

func parameterNames() []string {
	return sortedNames(domain.SensitivityParameters)
}

func overrideRange(cmd *cobra.Command, p domain.SensitivityParameter, minValue, maxValue string, steps int) (domain.SensitivityParameter, error) {
	if v, err := optionalDecimal("min", minValue); err != nil {
		return p, err
	} else if v != nil {
		p.MinValue = *v
	}
	if v, err := optionalDecimal("max", maxValue); err != nil {
		return p, err
	} else if v != nil {
		p.MaxValue = *v
	}
	if cmd.Flags().Changed("steps") {
		if steps < 2 {
			return p, fmt.Errorf("%w: --steps must be at least 2", domain.ErrInvalidRequest)
		}
		p.Steps = steps
	}
	if p.MinValue.GreaterThan(p.MaxValue) {
		return p, fmt.Errorf("%w: --min %s is above --max %s", domain.ErrInvalidRequest, p.MinValue, p.MaxValue)
	}
	return p, nil
}
