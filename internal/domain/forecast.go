package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Filters narrows the population before aggregation. Zero-valued fields match
// everything.
type Filters struct {
	AgeMin        *int             `yaml:"age_min,omitempty" json:"ageMin,omitempty"`
	AgeMax        *int             `yaml:"age_max,omitempty" json:"ageMax,omitempty"`
	AgeBand       string           `yaml:"age_band,omitempty" json:"ageBand,omitempty"`
	Gender        Gender           `yaml:"gender,omitempty" json:"gender,omitempty"`
	GroupType     GroupType        `yaml:"group_type,omitempty" json:"groupType,omitempty"`
	PolicyType    PolicyType       `yaml:"policy_type,omitempty" json:"policyType,omitempty"`
	SmokingStatus SmokingStatus    `yaml:"smoking_status,omitempty" json:"smokingStatus,omitempty"`
	Country       string           `yaml:"country,omitempty" json:"country,omitempty"`
	SumInsured    *decimal.Decimal `yaml:"sum_insured,omitempty" json:"sumInsured,omitempty"`
}

// Matches reports whether a population cell passes every set filter.
func (f Filters) Matches(cell PopulationCell) bool {
	seg := cell.Segment.Normalize()
	if f.AgeMin != nil && seg.Age < *f.AgeMin {
		return false
	}
	if f.AgeMax != nil && seg.Age > *f.AgeMax {
		return false
	}
	if f.AgeBand != "" && seg.AgeBand != f.AgeBand {
		return false
	}
	if f.Gender != "" && seg.Gender != f.Gender {
		return false
	}
	if f.GroupType != "" && seg.GroupType != f.GroupType {
		return false
	}
	if f.PolicyType != "" && seg.PolicyType != f.PolicyType {
		return false
	}
	if f.SmokingStatus != "" && seg.SmokingStatus != f.SmokingStatus {
		return false
	}
	if f.Country != "" && seg.Country != f.Country {
		return false
	}
	if f.SumInsured != nil && !cell.SumInsured.Equal(*f.SumInsured) {
		return false
	}
	return true
}

// Describe renders the active filters as "gender=Male, age 30-40".
func (f Filters) Describe() string {
	var parts []string
	switch {
	case f.AgeMin != nil && f.AgeMax != nil:
		parts = append(parts, fmt.Sprintf("age %d-%d", *f.AgeMin, *f.AgeMax))
	case f.AgeMin != nil:
		parts = append(parts, fmt.Sprintf("age >= %d", *f.AgeMin))
	case f.AgeMax != nil:
		parts = append(parts, fmt.Sprintf("age <= %d", *f.AgeMax))
	}
	if f.AgeBand != "" {
		parts = append(parts, "age band "+f.AgeBand)
	}
	if f.Gender != "" {
		parts = append(parts, "gender="+string(f.Gender))
	}
	if f.GroupType != "" {
		parts = append(parts, "group="+string(f.GroupType))
	}
	if f.PolicyType != "" {
		parts = append(parts, "policy="+string(f.PolicyType))
	}
	if f.SmokingStatus != "" {
		parts = append(parts, "smoking="+string(f.SmokingStatus))
	}
	if f.Country != "" {
		parts = append(parts, "country="+f.Country)
	}
	if f.SumInsured != nil {
		parts = append(parts, "sum insured="+f.SumInsured.String())
	}
	if len(parts) == 0 {
		return "all segments"
	}
	return strings.Join(parts, ", ")
}

// FallbackPolicy controls what happens when a series stops before the base
// year or a country has no economic history. Without AllowFallback both
// cases are ErrDataUnavailable. With it, stale series are projected from their
// last observation, and a country with no economic rows is seeded from
// Economics when that is set.
type FallbackPolicy struct {
	AllowFallback bool           `yaml:"allow_fallback" json:"allowFallback"`
	Economics     *EconomicPoint `yaml:"economics,omitempty" json:"economics,omitempty"`
}

// ForecastRequest asks for one scenario over [StartYear, EndYear].
type ForecastRequest struct {
	ScenarioID string  `json:"scenarioId"`
	StartYear  int     `json:"startYear"`
	EndYear    int     `json:"endYear"`
	Filters    Filters `json:"filters"`
	// Coverage reprices every selected cell at this sum insured. Nil prices
	// each cell at its own sum insured.
	Coverage *decimal.Decimal `json:"coverage,omitempty"`
	// BaseYear anchors cumulative inflation and all year-over-base deltas.
	// Zero uses the latest historical economic year.
	BaseYear int             `json:"baseYear,omitempty"`
	Fallback *FallbackPolicy `json:"fallback,omitempty"`
}

// CompareRequest asks for several scenarios over the same horizon and filters.
type CompareRequest struct {
	ScenarioIDs []string         `json:"scenarioIds"`
	StartYear   int              `json:"startYear"`
	EndYear     int              `json:"endYear"`
	Filters     Filters          `json:"filters"`
	Coverage    *decimal.Decimal `json:"coverage,omitempty"`
	BaseYear    int              `json:"baseYear,omitempty"`
	Fallback    *FallbackPolicy  `json:"fallback,omitempty"`
}

// ForScenario returns the single-scenario request for one of the compared scenarios.
func (r CompareRequest) ForScenario(id string) ForecastRequest {
	return ForecastRequest{
		ScenarioID: id,
		StartYear:  r.StartYear,
		EndYear:    r.EndYear,
		Filters:    r.Filters,
		Coverage:   r.Coverage,
		BaseYear:   r.BaseYear,
		Fallback:   r.Fallback,
	}
}

// ForecastPoint is the aggregated forecast for one scenario and year.
type ForecastPoint struct {
	Year                  int             `json:"year"`
	ScenarioID            string          `json:"scenarioId"`
	AveragePremium        decimal.Decimal `json:"averagePremium"`
	AveragePremiumPerUnit decimal.Decimal `json:"averagePremiumPerUnit"`
	TotalWeight           decimal.Decimal `json:"totalWeight"`
	AverageSumInsured     decimal.Decimal `json:"averageSumInsured"`
	Inflation             decimal.Decimal `json:"inflation"`
	Interest              decimal.Decimal `json:"interest"`
	GDPGrowth             decimal.Decimal `json:"gdpGrowth"`
	AvgLifeExpectancy     decimal.Decimal `json:"avgLifeExpectancy"`
	AvgMortalityRate      decimal.Decimal `json:"avgMortalityRate"`
	CumulativeInflation   decimal.Decimal `json:"cumulativeInflation"`
	SegmentCount          int             `json:"segmentCount"`
}

// SegmentIssue records a population cell left out of one year's aggregate.
type SegmentIssue struct {
	Year       int             `json:"year"`
	Segment    Segment         `json:"segment"`
	SumInsured decimal.Decimal `json:"sumInsured"`
	Reason     string          `json:"reason"`
	Err        error           `json:"-"`
}

// ForecastResult is one scenario's forecast.
type ForecastResult struct {
	ScenarioID   string          `json:"scenarioId"`
	ScenarioName string          `json:"scenarioName"`
	BaseYear     int             `json:"baseYear"`
	Points       []ForecastPoint `json:"points"`
	Issues       []SegmentIssue  `json:"issues,omitempty"`
}

// Point returns the forecast for a year.
func (r *ForecastResult) Point(year int) (ForecastPoint, bool) {
	for _, p := range r.Points {
		if p.Year == year {
			return p, true
		}
	}
	return ForecastPoint{}, false
}

// ScenarioFailure marks a compared scenario that produced no forecast.
type ScenarioFailure struct {
	ScenarioID string `json:"scenarioId"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

// Comparison joins several scenario forecasts. Points are ordered by year,
// then by the caller's scenario order.
type Comparison struct {
	Points   []ForecastPoint   `json:"points"`
	Results  []ForecastResult  `json:"results"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// Result returns the forecast for a scenario that succeeded.
func (c *Comparison) Result(id string) (*ForecastResult, bool) {
	for i := range c.Results {
		if c.Results[i].ScenarioID == id {
			return &c.Results[i], true
		}
	}
	return nil, false
}

// Failed reports whether a scenario is listed in Failures.
func (c *Comparison) Failed(id string) bool {
	for _, f := range c.Failures {
		if f.ScenarioID == id {
			return true
		}
	}
	return false
}
