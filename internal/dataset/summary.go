package dataset

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// YearRange is an inclusive span of observed years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r YearRange) String() string {
	if r.From == 0 && r.To == 0 {
		return "none"
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

func (r YearRange) extend(year int) YearRange {
	if r.From == 0 || year < r.From {
		r.From = year
	}
	if year > r.To {
		r.To = year
	}
	return r
}

// BaselineSummary describes one economic baseline.
type BaselineSummary struct {
	Name      string               `json:"name"`
	Countries map[string]YearRange `json:"countries"`
}

// Summary describes what a dataset covers and what looks wrong with it.
type Summary struct {
	Countries        []string          `json:"countries"`
	MortalitySeries  int               `json:"mortalitySeries"`
	MortalityYears   YearRange         `json:"mortalityYears"`
	Baselines        []BaselineSummary `json:"baselines"`
	RatedSegments    int               `json:"ratedSegments"`
	PopulationCells  int               `json:"populationCells"`
	TotalWeight      decimal.Decimal   `json:"totalWeight"`
	QualityIssues    []string          `json:"qualityIssues,omitempty"`
	UnratedCells     int               `json:"unratedCells"`
	UnmatchedSeries  int               `json:"unmatchedSeries"`
	EconomicGapCount int               `json:"economicGapCount"`
}

// Summarize inspects a loaded dataset. It never fails; problems are reported
// as QualityIssues so a partially usable dataset can still be described.
func Summarize(ds *domain.Dataset) Summary {
	var s Summary
	if ds == nil {
		s.QualityIssues = append(s.QualityIssues, "dataset is empty")
		return s
	}

	countries := make(map[string]bool)
	for _, key := range ds.Mortality.Keys() {
		s.MortalitySeries++
		countries[key.Country] = true
		for _, p := range ds.Mortality.Series(key) {
			s.MortalityYears = s.MortalityYears.extend(p.Year)
		}
		if gap, ok := firstMortalityGap(ds.Mortality.Series(key)); ok {
			s.QualityIssues = append(s.QualityIssues, fmt.Sprintf("mortality series %s has no data for %d", key, gap))
		}
	}

	s.Baselines = append(s.Baselines, summarizeBaseline("default", ds.Economics, &s))
	alt := make([]string, 0, len(ds.AltEconomics))
	for name := range ds.AltEconomics {
		alt = append(alt, name)
	}
	sort.Strings(alt)
	for _, name := range alt {
		s.Baselines = append(s.Baselines, summarizeBaseline(name, ds.AltEconomics[name], &s))
	}

	s.RatedSegments = ds.Rates.Len()
	s.PopulationCells = len(ds.Population)
	s.TotalWeight = decimal.Zero
	missingSeries := make(map[domain.MortalityKey]bool)
	missingEconomics := make(map[string]bool)
	for _, cell := range ds.Population {
		countries[cell.Segment.Country] = true
		s.TotalWeight = s.TotalWeight.Add(cell.Weight)
		if _, ok := ds.Rates.Lookup(cell.Segment); !ok {
			s.UnratedCells++
		}
		key := cell.Segment.MortalityKey()
		if len(ds.Mortality.Series(key)) == 0 && !missingSeries[key] {
			missingSeries[key] = true
			s.UnmatchedSeries++
		}
		if _, ok := ds.Economics.LatestYear(cell.Segment.Country); !ok && !missingEconomics[cell.Segment.Country] {
			missingEconomics[cell.Segment.Country] = true
			s.QualityIssues = append(s.QualityIssues, fmt.Sprintf("no default economic data for %s", cell.Segment.Country))
		}
	}
	if s.UnratedCells > 0 {
		s.QualityIssues = append(s.QualityIssues, fmt.Sprintf("%d population cells have no base rate", s.UnratedCells))
	}
	if s.UnmatchedSeries > 0 {
		s.QualityIssues = append(s.QualityIssues, fmt.Sprintf("%d population segments have no mortality series", s.UnmatchedSeries))
	}
	if s.PopulationCells > 0 && !s.TotalWeight.IsPositive() {
		s.QualityIssues = append(s.QualityIssues, "population weights sum to zero")
	}

	for c := range countries {
		s.Countries = append(s.Countries, c)
	}
	sort.Strings(s.Countries)
	return s
}

func summarizeBaseline(name string, et *domain.EconomicTable, s *Summary) BaselineSummary {
	b := BaselineSummary{Name: name, Countries: make(map[string]YearRange)}
	for _, c := range et.Countries() {
		var r YearRange
		series := et.Series(c)
		for i, p := range series {
			r = r.extend(p.Year)
			if i > 0 && p.Year != series[i-1].Year+1 {
				s.EconomicGapCount++
				s.QualityIssues = append(s.QualityIssues,
					fmt.Sprintf("economic baseline %s has no data for %s in %d", name, c, series[i-1].Year+1))
			}
		}
		b.Countries[c] = r
	}
	return b
}

func firstMortalityGap(series []domain.MortalityPoint) (int, bool) {
	for i := 1; i < len(series); i++ {
		if series[i].Year != series[i-1].Year+1 {
			return series[i-1].Year + 1, true
		}
	}
	return 0, false
}
