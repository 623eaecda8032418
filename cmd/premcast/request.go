package main

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// requestFlags are shared by every command that runs a forecast.
type requestFlags struct {
	startYear  int
	endYear    int
	baseYear   int
	ageMin     int
	ageMax     int
	ageBand    string
	gender     string
	group      string
	policy     string
	smoking    string
	country    string
	sumInsured string
	coverage   string

	allowFallback     bool
	fallbackInflation float64
	fallbackInterest  float64
	fallbackGDP       float64
}

func (rf *requestFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&rf.startYear, "start", 0, "First forecast year (default current year)")
	f.IntVar(&rf.endYear, "end", 0, "Last forecast year (default start+10)")
	f.IntVar(&rf.baseYear, "base-year", 0, "Year that anchors cumulative inflation (default latest historical year)")
	f.IntVar(&rf.ageMin, "age-min", 0, "Lowest age to include")
	f.IntVar(&rf.ageMax, "age-max", 0, "Highest age to include")
	f.StringVar(&rf.ageBand, "age-band", "", "Age band to include (18-30, 31-40, 41-50, 51-60, 61-70, 71+)")
	f.StringVar(&rf.gender, "gender", "", "Gender to include (Male, Female)")
	f.StringVar(&rf.group, "group", "", "Group type to include (Individual, Family, Corporate)")
	f.StringVar(&rf.policy, "policy", "", "Policy type to include (Term, Whole)")
	f.StringVar(&rf.smoking, "smoking", "", "Smoking status to include (Smoker, NonSmoker)")
	f.StringVar(&rf.country, "country", "", "Country to include (default from configuration)")
	f.StringVar(&rf.sumInsured, "sum-insured", "", "Only include cells with this sum insured")
	f.StringVar(&rf.coverage, "coverage", "", "Reprice every selected cell at this sum insured")
	f.BoolVar(&rf.allowFallback, "allow-fallback", false, "Project stale or missing history instead of failing")
	f.Float64Var(&rf.fallbackInflation, "fallback-inflation", 0, "Seed inflation in percent for countries without economic data")
	f.Float64Var(&rf.fallbackInterest, "fallback-interest", 0, "Seed interest rate in percent for countries without economic data")
	f.Float64Var(&rf.fallbackGDP, "fallback-gdp", 0, "Seed GDP growth in percent for countries without economic data")
}

func (rf *requestFlags) horizon() (int, int) {
	start := rf.startYear
	if start == 0 {
		start = time.Now().Year()
	}
	end := rf.endYear
	if end == 0 {
		end = start + 10
	}
	return start, end
}

func (rf *requestFlags) filters(cmd *cobra.Command) (domain.Filters, error) {
	var f domain.Filters
	flags := cmd.Flags()
	if flags.Changed("age-min") {
		v := rf.ageMin
		f.AgeMin = &v
	}
	if flags.Changed("age-max") {
		v := rf.ageMax
		f.AgeMax = &v
	}
	if f.AgeMin != nil && f.AgeMax != nil && *f.AgeMin > *f.AgeMax {
		return f, fmt.Errorf("%w: --age-min %d is above --age-max %d", domain.ErrInvalidRequest, *f.AgeMin, *f.AgeMax)
	}
	if rf.ageBand != "" {
		if !domain.IsValidAgeBand(rf.ageBand) {
			return f, fmt.Errorf("%w: unknown age band %q", domain.ErrInvalidRequest, rf.ageBand)
		}
		f.AgeBand = rf.ageBand
	}

	var err error
	if rf.gender != "" {
		if f.Gender, err = domain.ParseGender(rf.gender); err != nil {
			return f, err
		}
	}
	if rf.group != "" {
		if f.GroupType, err = domain.ParseGroupType(rf.group); err != nil {
			return f, err
		}
	}
	if rf.policy != "" {
		if f.PolicyType, err = domain.ParsePolicyType(rf.policy); err != nil {
			return f, err
		}
	}
	if rf.smoking != "" {
		if f.SmokingStatus, err = domain.ParseSmokingStatus(rf.smoking); err != nil {
			return f, err
		}
	}
	f.Country = rf.country
	if f.SumInsured, err = optionalDecimal("sum-insured", rf.sumInsured); err != nil {
		return f, err
	}
	return f, nil
}

func optionalDecimal(flag, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s %q is not a number", domain.ErrInvalidRequest, flag, s)
	}
	return &d, nil
}

func (rf *requestFlags) fallback(cmd *cobra.Command) *domain.FallbackPolicy {
	flags := cmd.Flags()
	seeded := flags.Changed("fallback-inflation") || flags.Changed("fallback-interest") || flags.Changed("fallback-gdp")
	if !rf.allowFallback && !seeded {
		return nil
	}
	p := &domain.FallbackPolicy{AllowFallback: true}
	if seeded {
		hundred := decimal.NewFromInt(100)
		p.Economics = &domain.EconomicPoint{
			Inflation: decimal.NewFromFloat(rf.fallbackInflation).Div(hundred),
			Interest:  decimal.NewFromFloat(rf.fallbackInterest).Div(hundred),
			GDPGrowth: decimal.NewFromFloat(rf.fallbackGDP).Div(hundred),
		}
	}
	return p
}

// compareRequest builds the shared horizon, filters, coverage and fallback.
// forecastRequest and the sensitivity sweep derive from it.
func (rf *requestFlags) compareRequest(cmd *cobra.Command, ids ...string) (domain.CompareRequest, error) {
	filters, err := rf.filters(cmd)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	coverage, err := optionalDecimal("coverage", rf.coverage)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	start, end := rf.horizon()
	return domain.CompareRequest{
		ScenarioIDs: ids,
		StartYear:   start,
		EndYear:     end,
		Filters:     filters,
		Coverage:    coverage,
		BaseYear:    rf.baseYear,
		Fallback:    rf.fallback(cmd),
	}, nil
}

func (rf *requestFlags) forecastRequest(cmd *cobra.Command, scenarioID string) (domain.ForecastRequest, error) {
	req, err := rf.compareRequest(cmd)
	if err != nil {
		return domain.ForecastRequest{}, err
	}
	return req.ForScenario(scenarioID), nil
}
