package calculation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// Forecaster runs premium forecasts over a fixed dataset and scenario catalogue.
// It holds no per-call state, so one Forecaster may serve concurrent callers.
type Forecaster struct {
	dataset   *domain.Dataset
	scenarios map[string]domain.Scenario
	order     []string
	settings  domain.EngineSettings

	Calc      *PremiumCalculator
	Projector *Projector
	Logger    Logger
}

// NewForecaster creates a forecaster from a dataset and model configuration.
func NewForecaster(ds *domain.Dataset, cfg *domain.Configuration) (*Forecaster, error) {
	if ds == nil || ds.Rates == nil {
		return nil, fmt.Errorf("dataset has no base rate table")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	settings := cfg.Engine
	if !settings.CoverageUnit.IsPositive() {
		settings.CoverageUnit = domain.DefaultEngineSettings().CoverageUnit
	}

	f := &Forecaster{
		dataset:   ds,
		scenarios: make(map[string]domain.Scenario, len(cfg.Scenarios)),
		settings:  settings,
		Calc:      NewPremiumCalculator(ds.Rates, DefaultRiskFactors(cfg.Rating), cfg.Sensitivities),
		Projector: NewProjector(settings.RampYears),
		Logger:    NopLogger{},
	}
	for i := range cfg.Scenarios {
		sc := cfg.Scenarios[i]
		if sc.ID == "" {
			return nil, fmt.Errorf("scenario %d has no id", i)
		}
		if _, dup := f.scenarios[sc.ID]; dup {
			return nil, fmt.Errorf("scenario %q is defined twice", sc.ID)
		}
		f.scenarios[sc.ID] = *sc.DeepCopy()
		f.order = append(f.order, sc.ID)
	}
	return f, nil
}

// SetLogger sets the logger; nil installs a no-op logger.
func (f *Forecaster) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	f.Logger = logger
}

// Scenario returns a copy of a configured scenario.
func (f *Forecaster) Scenario(id string) (domain.Scenario, bool) {
	sc, ok := f.scenarios[id]
	if !ok {
		return domain.Scenario{}, false
	}
	return *sc.DeepCopy(), true
}

// ScenarioIDs returns scenario ids in configuration order.
func (f *Forecaster) ScenarioIDs() []string {
	return append([]string(nil), f.order...)
}

// Settings returns the engine defaults in effect.
func (f *Forecaster) Settings() domain.EngineSettings {
	return f.settings
}

// Dataset returns the tables the forecaster reads.
func (f *Forecaster) Dataset() *domain.Dataset {
	return f.dataset
}

// WithScenarios returns a forecaster sharing this one's dataset and calculator
// with extra scenarios added. An extra scenario replaces a configured one with
// the same id.
func (f *Forecaster) WithScenarios(extra ...domain.Scenario) *Forecaster {
	out := *f
	out.scenarios = make(map[string]domain.Scenario, len(f.scenarios)+len(extra))
	for id, sc := range f.scenarios {
		out.scenarios[id] = sc
	}
	out.order = append([]string(nil), f.order...)
	for i := range extra {
		sc := extra[i]
		if _, exists := out.scenarios[sc.ID]; !exists {
			out.order = append(out.order, sc.ID)
		}
		out.scenarios[sc.ID] = *sc.DeepCopy()
	}
	return &out
}

// Forecast projects the average premium of one scenario over the request horizon.
func (f *Forecaster) Forecast(req domain.ForecastRequest) (*domain.ForecastResult, error) {
	sc, ok := f.scenarios[req.ScenarioID]
	if !ok {
		return nil, &domain.ForecastError{Op: "forecast", Scenario: req.ScenarioID, Err: domain.ErrUnknownScenario}
	}
	if err := f.validateRequest(req.StartYear, req.EndYear, req.Coverage); err != nil {
		return nil, &domain.ForecastError{Op: "forecast", Scenario: req.ScenarioID, Err: err}
	}

	run := f.newRun(&sc, req)
	return run.execute()
}

// Compare runs every requested scenario independently. Scenarios that fail
// are listed in the result's Failures; the call fails only when none succeed.
func (f *Forecaster) Compare(req domain.CompareRequest) (*domain.Comparison, error) {
	if len(req.ScenarioIDs) == 0 {
		return nil, &domain.ForecastError{Op: "compare", Reason: "no scenarios requested", Err: domain.ErrInvalidRequest}
	}
	rank := make(map[string]int, len(req.ScenarioIDs))
	for i, id := range req.ScenarioIDs {
		if _, dup := rank[id]; dup {
			return nil, &domain.ForecastError{Op: "compare", Scenario: id, Reason: "scenario requested twice", Err: domain.ErrInvalidRequest}
		}
		rank[id] = i
	}
	if err := f.validateRequest(req.StartYear, req.EndYear, req.Coverage); err != nil {
		return nil, &domain.ForecastError{Op: "compare", Err: err}
	}

	cmp := &domain.Comparison{}
	for _, id := range req.ScenarioIDs {
		res, err := f.Forecast(req.ForScenario(id))
		if err != nil {
			f.Logger.Warnf("scenario %s failed: %v", id, err)
			cmp.Failures = append(cmp.Failures, domain.ScenarioFailure{ScenarioID: id, Reason: err.Error(), Err: err})
			continue
		}
		cmp.Results = append(cmp.Results, *res)
		cmp.Points = append(cmp.Points, res.Points...)
	}

	if len(cmp.Results) == 0 {
		reasons := make([]string, len(cmp.Failures))
		for i, fl := range cmp.Failures {
			reasons[i] = fl.Reason
		}
		return nil, &domain.ForecastError{Op: "compare", Reason: strings.Join(reasons, "; "), Err: domain.ErrNoForecastData}
	}

	sort.SliceStable(cmp.Points, func(i, j int) bool {
		a, b := cmp.Points[i], cmp.Points[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return rank[a.ScenarioID] < rank[b.ScenarioID]
	})
	return cmp, nil
}

func (f *Forecaster) validateRequest(start, end int, coverage *decimal.Decimal) error {
	if start <= 0 || end <= 0 {
		return fmt.Errorf("start and end year are required: %w", domain.ErrInvalidHorizon)
	}
	if end < start {
		return fmt.Errorf("end year %d is before start year %d: %w", end, start, domain.ErrInvalidHorizon)
	}
	if coverage != nil {
		if _, err := CoverageUnits(*coverage, f.settings.CoverageUnit); err != nil {
			return err
		}
	}
	return nil
}

// forecastRun holds the projected series of one Forecast call.
type forecastRun struct {
	f        *Forecaster
	scenario *domain.Scenario
	req      domain.ForecastRequest
	filters  domain.Filters
	fallback domain.FallbackPolicy

	baseYear  int
	firstYear int
	lastYear  int

	economics    map[string]map[int]domain.EconomicPoint
	economicErrs map[string]error
	mortality    map[domain.MortalityKey]map[int]domain.MortalityPoint
	mortalityErr map[domain.MortalityKey]error
}

func (f *Forecaster) newRun(sc *domain.Scenario, req domain.ForecastRequest) *forecastRun {
	filters := req.Filters
	if filters.Country == "" {
		filters.Country = f.settings.DefaultCountry
	}
	fallback := f.settings.Fallback
	if req.Fallback != nil {
		fallback = *req.Fallback
	}
	return &forecastRun{
		f:            f,
		scenario:     sc,
		req:          req,
		filters:      filters,
		fallback:     fallback,
		economics:    make(map[string]map[int]domain.EconomicPoint),
		economicErrs: make(map[string]error),
		mortality:    make(map[domain.MortalityKey]map[int]domain.MortalityPoint),
		mortalityErr: make(map[domain.MortalityKey]error),
	}
}

func (r *forecastRun) fail(year int, reason string, err error) error {
	return &domain.ForecastError{Op: "forecast", Scenario: r.scenario.ID, Year: year, Reason: reason, Err: err}
}

func (r *forecastRun) execute() (*domain.ForecastResult, error) {
	cells := r.selectCells()
	if len(cells) == 0 {
		return nil, r.fail(0, "no population segments match "+r.filters.Describe(), domain.ErrNoMatchingSegments)
	}

	countries := distinctCountries(cells)
	if err := r.resolveBaseYear(countries); err != nil {
		return nil, err
	}
	for _, c := range countries {
		r.projectEconomics(c)
	}

	result := &domain.ForecastResult{
		ScenarioID:   r.scenario.ID,
		ScenarioName: r.scenario.DisplayName(),
		BaseYear:     r.baseYear,
	}
	reported := make(map[int]bool)

	for year := r.req.StartYear; year <= r.req.EndYear; year++ {
		priced := make([]PricedCell, 0, len(cells))
		var firstIssue *domain.SegmentIssue
		for i, cell := range cells {
			pc, err := r.priceCell(cell, year)
			if err != nil {
				issue := domain.SegmentIssue{Year: year, Segment: cell.Segment, SumInsured: cell.SumInsured, Reason: err.Error(), Err: err}
				if firstIssue == nil {
					firstIssue = &issue
				}
				if !reported[i] {
					reported[i] = true
					result.Issues = append(result.Issues, issue)
					r.f.Logger.Debugf("scenario %s: skipping %s: %v", r.scenario.ID, cell.Segment, err)
				}
				continue
			}
			priced = append(priced, pc)
		}

		if len(priced) == 0 && firstIssue != nil {
			return nil, r.fail(year, "no segment matching "+r.filters.Describe()+" could be priced", firstIssue.Err)
		}
		agg, err := AggregatePremiums(priced, r.filters)
		if err != nil {
			return nil, r.fail(year, "", err)
		}

		result.Points = append(result.Points, domain.ForecastPoint{
			Year:                  year,
			ScenarioID:            r.scenario.ID,
			AveragePremium:        agg.AveragePremium,
			AveragePremiumPerUnit: agg.AveragePremiumPerUnit,
			TotalWeight:           agg.TotalWeight,
			AverageSumInsured:     agg.AverageSumInsured,
			Inflation:             agg.Inflation,
			Interest:              agg.Interest,
			GDPGrowth:             agg.GDPGrowth,
			AvgLifeExpectancy:     agg.AvgLifeExpectancy,
			AvgMortalityRate:      agg.AvgMortalityRate,
			CumulativeInflation:   agg.CumulativeInflation,
			SegmentCount:          agg.Count,
		})
	}
	return result, nil
}

func (r *forecastRun) selectCells() []domain.PopulationCell {
	var out []domain.PopulationCell
	for _, cell := range r.f.dataset.Population {
		if r.filters.Matches(cell) {
			out = append(out, cell)
		}
	}
	return out
}

func distinctCountries(cells []domain.PopulationCell) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cells {
		if !seen[c.Segment.Country] {
			seen[c.Segment.Country] = true
			out = append(out, c.Segment.Country)
		}
	}
	sort.Strings(out)
	return out
}

// economicTable returns the table selected by the scenario's baseline.
func (r *forecastRun) economicTable() (*domain.EconomicTable, error) {
	table, ok := r.f.dataset.EconomicsFor(r.scenario.EconomicBaseline)
	if !ok {
		return nil, fmt.Errorf("economic baseline %q is not loaded: %w", r.scenario.EconomicBaseline, domain.ErrDataUnavailable)
	}
	return table, nil
}

// resolveBaseYear uses the requested base year, or else the latest economic
// observation among the selected countries.
func (r *forecastRun) resolveBaseYear(countries []string) error {
	table, err := r.economicTable()
	if err != nil && !r.canSynthesizeEconomics() {
		return r.fail(0, "", err)
	}

	base := r.req.BaseYear
	if base == 0 {
		for _, c := range countries {
			if y, ok := table.LatestYear(c); ok && y > base {
				base = y
			}
		}
	}
	if base == 0 {
		if !r.canSynthesizeEconomics() {
			return r.fail(0, "no economic history for "+strings.Join(countries, ", "), domain.ErrDataUnavailable)
		}
		base = r.req.StartYear
	}

	r.baseYear = base
	r.firstYear = min(r.req.StartYear, base)
	r.lastYear = max(r.req.EndYear, base)
	r.f.Logger.Debugf("scenario %s: base year %d, projecting %d-%d", r.scenario.ID, base, r.firstYear, r.lastYear)
	return nil
}

func (r *forecastRun) canSynthesizeEconomics() bool {
	return r.fallback.AllowFallback && r.fallback.Economics != nil
}

func (r *forecastRun) projectEconomics(country string) {
	var history []domain.EconomicPoint
	if table, err := r.economicTable(); err == nil {
		history = table.Series(country)
	}

	switch {
	case len(history) == 0 && r.canSynthesizeEconomics():
		seed := *r.fallback.Economics
		seed.Year = r.firstYear
		history = []domain.EconomicPoint{seed}
		r.f.Logger.Warnf("scenario %s: no economic history for %s, using fallback values from %d", r.scenario.ID, country, r.firstYear)
	case len(history) == 0:
		r.economicErrs[country] = fmt.Errorf("no economic history for %s: %w", country, domain.ErrDataUnavailable)
		return
	case history[len(history)-1].Year < r.baseYear && !r.fallback.AllowFallback:
		r.economicErrs[country] = fmt.Errorf("economic series for %s ends in %d, before base year %d: %w",
			country, history[len(history)-1].Year, r.baseYear, domain.ErrDataUnavailable)
		return
	}

	projected, err := r.f.Projector.ProjectEconomics(history, r.scenario, r.firstYear, r.lastYear)
	if err != nil {
		r.economicErrs[country] = fmt.Errorf("%s: %w", country, err)
		return
	}
	byYear := make(map[int]domain.EconomicPoint, len(projected))
	for _, pt := range projected {
		byYear[pt.Year] = pt
	}
	r.economics[country] = byYear
}

func (r *forecastRun) mortalityFor(key domain.MortalityKey) (map[int]domain.MortalityPoint, error) {
	if byYear, ok := r.mortality[key]; ok {
		return byYear, nil
	}
	if err, ok := r.mortalityErr[key]; ok {
		return nil, err
	}

	history := r.f.dataset.Mortality.Series(key)
	var err error
	var projected []domain.MortalityPoint
	switch {
	case len(history) == 0:
		err = fmt.Errorf("no mortality series for %s: %w", key, domain.ErrDataUnavailable)
	case history[len(history)-1].Year < r.baseYear && !r.fallback.AllowFallback:
		err = fmt.Errorf("mortality series %s ends in %d, before base year %d: %w",
			key, history[len(history)-1].Year, r.baseYear, domain.ErrDataUnavailable)
	default:
		projected, err = r.f.Projector.ProjectMortality(history, r.scenario, r.firstYear, r.lastYear)
		if err != nil {
			err = fmt.Errorf("%s: %w", key, err)
		}
	}
	if err != nil {
		r.mortalityErr[key] = err
		return nil, err
	}

	byYear := make(map[int]domain.MortalityPoint, len(projected))
	for _, pt := range projected {
		byYear[pt.Year] = pt
	}
	r.mortality[key] = byYear
	return byYear, nil
}

func (r *forecastRun) priceCell(cell domain.PopulationCell, year int) (PricedCell, error) {
	seg := cell.Segment.Normalize()

	econ, ok := r.economics[seg.Country]
	if !ok {
		return PricedCell{}, r.economicErrs[seg.Country]
	}
	mort, err := r.mortalityFor(seg.MortalityKey())
	if err != nil {
		return PricedCell{}, err
	}

	cumulative, err := CumulativeInflation(econ, r.baseYear, year)
	if err != nil {
		return PricedCell{}, err
	}

	sumInsured := cell.SumInsured
	if r.req.Coverage != nil {
		sumInsured = *r.req.Coverage
	}
	units, err := CoverageUnits(sumInsured, r.f.settings.CoverageUnit)
	if err != nil {
		return PricedCell{}, err
	}

	base := YearValues{Year: r.baseYear, Mortality: mort[r.baseYear], Economics: econ[r.baseYear]}
	current := YearValues{Year: year, Mortality: mort[year], Economics: econ[year]}
	premium, err := r.f.Calc.Calculate(seg, base, current, cumulative, units)
	if err != nil {
		return PricedCell{}, err
	}

	return PricedCell{
		Cell:                cell,
		SumInsured:          sumInsured,
		PerUnit:             premium.PerUnit,
		Premium:             premium.Total,
		Mortality:           current.Mortality,
		Economics:           current.Economics,
		CumulativeInflation: cumulative,
	}, nil
}
