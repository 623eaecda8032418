package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MortalityKey identifies one mortality series.
type MortalityKey struct {
	AgeBand       string        `yaml:"age_band" json:"ageBand"`
	Gender        Gender        `yaml:"gender" json:"gender"`
	SmokingStatus SmokingStatus `yaml:"smoking_status" json:"smokingStatus"`
	Country       string        `yaml:"country" json:"country"`
}

func (k MortalityKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Country, k.AgeBand, k.Gender, k.SmokingStatus)
}

// MortalityPoint is one year of a mortality series. RatePer1000 is deaths per
// 1000 lives; LifeExpectancy is in years.
type MortalityPoint struct {
	Year           int             `yaml:"year" json:"year"`
	RatePer1000    decimal.Decimal `yaml:"rate_per_1000" json:"ratePer1000"`
	LifeExpectancy decimal.Decimal `yaml:"life_expectancy" json:"lifeExpectancy"`
}

// MortalityRecord is a MortalityPoint tagged with its key, the shape loaders produce.
type MortalityRecord struct {
	Key   MortalityKey
	Point MortalityPoint
}

// MortalityTable holds one ascending series per MortalityKey.
type MortalityTable struct {
	series map[MortalityKey][]MortalityPoint
}

// NewMortalityTable groups records by key and sorts each series by year.
// Two records for the same key and year are rejected.
func NewMortalityTable(records []MortalityRecord) (*MortalityTable, error) {
	mt := &MortalityTable{series: make(map[MortalityKey][]MortalityPoint)}
	seen := make(map[MortalityKey]map[int]bool)
	for _, rec := range records {
		if seen[rec.Key] == nil {
			seen[rec.Key] = make(map[int]bool)
		}
		if seen[rec.Key][rec.Point.Year] {
			return nil, fmt.Errorf("mortality series %s has two observations for %d", rec.Key, rec.Point.Year)
		}
		if rec.Point.RatePer1000.IsNegative() {
			return nil, fmt.Errorf("mortality series %s year %d: negative rate %s", rec.Key, rec.Point.Year, rec.Point.RatePer1000)
		}
		seen[rec.Key][rec.Point.Year] = true
		mt.series[rec.Key] = append(mt.series[rec.Key], rec.Point)
	}
	for key := range mt.series {
		s := mt.series[key]
		sort.Slice(s, func(i, j int) bool { return s[i].Year < s[j].Year })
	}
	return mt, nil
}

// Series returns the ascending series for key, or nil. Callers must not modify it.
func (mt *MortalityTable) Series(key MortalityKey) []MortalityPoint {
	if mt == nil {
		return nil
	}
	return mt.series[key]
}

// Keys returns every key in a stable order.
func (mt *MortalityTable) Keys() []MortalityKey {
	if mt == nil {
		return nil
	}
	keys := make([]MortalityKey, 0, len(mt.series))
	for k := range mt.series {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Len returns the number of series.
func (mt *MortalityTable) Len() int {
	if mt == nil {
		return 0
	}
	return len(mt.series)
}

// EconomicPoint is one year of macro indicators, all expressed as fractions.
type EconomicPoint struct {
	Year      int             `yaml:"year" json:"year"`
	Inflation decimal.Decimal `yaml:"inflation" json:"inflation"`
	Interest  decimal.Decimal `yaml:"interest" json:"interest"`
	GDPGrowth decimal.Decimal `yaml:"gdp_growth" json:"gdpGrowth"`
}

// EconomicRecord is an EconomicPoint tagged with its country.
type EconomicRecord struct {
	Country string
	Point   EconomicPoint
}

// EconomicTable holds one ascending series per country.
type EconomicTable struct {
	series map[string][]EconomicPoint
}

// NewEconomicTable groups records by country and sorts each series by year.
func NewEconomicTable(records []EconomicRecord) (*EconomicTable, error) {
	et := &EconomicTable{series: make(map[string][]EconomicPoint)}
	seen := make(map[string]map[int]bool)
	for _, rec := range records {
		if seen[rec.Country] == nil {
			seen[rec.Country] = make(map[int]bool)
		}
		if seen[rec.Country][rec.Point.Year] {
			return nil, fmt.Errorf("economic series %s has two observations for %d", rec.Country, rec.Point.Year)
		}
		seen[rec.Country][rec.Point.Year] = true
		et.series[rec.Country] = append(et.series[rec.Country], rec.Point)
	}
	for c := range et.series {
		s := et.series[c]
		sort.Slice(s, func(i, j int) bool { return s[i].Year < s[j].Year })
	}
	return et, nil
}

// Series returns the ascending series for a country, or nil.
func (et *EconomicTable) Series(country string) []EconomicPoint {
	if et == nil {
		return nil
	}
	return et.series[country]
}

// LatestYear returns the last observed year for a country.
func (et *EconomicTable) LatestYear(country string) (int, bool) {
	s := et.Series(country)
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1].Year, true
}

// Countries returns every country with a series, sorted.
func (et *EconomicTable) Countries() []string {
	if et == nil {
		return nil
	}
	out := make([]string, 0, len(et.series))
	for c := range et.series {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Dataset bundles the read-only tables one forecast call works over.
// AltEconomics holds named alternative economic baselines that scenarios may
// select through Scenario.EconomicBaseline.
type Dataset struct {
	Rates        *RateTable
	Population   []PopulationCell
	Mortality    *MortalityTable
	Economics    *EconomicTable
	AltEconomics map[string]*EconomicTable
}

// EconomicsFor returns the economic table a baseline name refers to. The empty
// name is the default table.
func (d *Dataset) EconomicsFor(baseline string) (*EconomicTable, bool) {
	if baseline == "" {
		return d.Economics, d.Economics != nil
	}
	t, ok := d.AltEconomics[baseline]
	return t, ok
}
