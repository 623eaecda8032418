// Package dataset loads the historical tables a forecast works over from CSV
// files or a Postgres database.
package dataset

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/premcast/internal/domain"
)

// Source produces a complete, validated dataset.
type Source interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// records is a header-addressed view over string rows. CSV files and
// text-cast query results both arrive in this shape.
type records struct {
	name     string
	baseline string
	index    map[string]int
	rows     [][]string
}

func newRecords(name string, header []string, rows [][]string) *records {
	r := &records{name: name, index: make(map[string]int, len(header)), rows: rows}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		r.index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return r
}

func (r *records) has(col string) bool {
	_, ok := r.index[col]
	return ok
}

func (r *records) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !r.has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing column(s) %s", r.name, strings.Join(missing, ", "))
	}
	return nil
}

// get returns the trimmed cell for col, or "" when the column is absent or the
// row is short.
func (r *records) get(row []string, col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// first returns the value of the first present column among cols.
func (r *records) first(row []string, cols ...string) string {
	for _, c := range cols {
		if r.has(c) {
			return r.get(row, c)
		}
	}
	return ""
}

func (r *records) rowError(i int, err error) error {
	return fmt.Errorf("%s row %d: %w", r.name, i+1, err)
}

// tables is the raw material of one dataset before validation.
type tables struct {
	mortality  *records
	economics  []*records
	rates      *records
	population *records
}

// assemble parses and validates every table and bundles them into a dataset.
func assemble(t tables) (*domain.Dataset, error) {
	mortality, err := parseMortality(t.mortality)
	if err != nil {
		return nil, err
	}
	mt, err := domain.NewMortalityTable(mortality)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.mortality.name, err)
	}

	byBaseline := make(map[string][]domain.EconomicRecord)
	for _, econ := range t.economics {
		parsed, err := parseEconomics(econ)
		if err != nil {
			return nil, err
		}
		for baseline, recs := range parsed {
			byBaseline[baseline] = append(byBaseline[baseline], recs...)
		}
	}
	ds := &domain.Dataset{Mortality: mt}
	baselines := make([]string, 0, len(byBaseline))
	for b := range byBaseline {
		baselines = append(baselines, b)
	}
	sort.Strings(baselines)
	for _, b := range baselines {
		et, err := domain.NewEconomicTable(byBaseline[b])
		if err != nil {
			return nil, fmt.Errorf("economic baseline %q: %w", b, err)
		}
		if b == "" {
			ds.Economics = et
			continue
		}
		if ds.AltEconomics == nil {
			ds.AltEconomics = make(map[string]*domain.EconomicTable)
		}
		ds.AltEconomics[b] = et
	}
	if ds.Economics == nil {
		return nil, fmt.Errorf("no default economic data: %w", domain.ErrDataUnavailable)
	}

	rates, err := parseRates(t.rates)
	if err != nil {
		return nil, err
	}
	if ds.Rates, err = domain.NewRateTable(rates); err != nil {
		return nil, fmt.Errorf("%s: %w", t.rates.name, err)
	}

	if ds.Population, err = parsePopulation(t.population); err != nil {
		return nil, err
	}
	return ds, nil
}
