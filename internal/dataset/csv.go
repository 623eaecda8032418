package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rgehrsitz/premcast/internal/domain"
)

// File names inside a CSV data directory.
const (
	MortalityFile  = "mortality_data.csv"
	EconomicFile   = "economic_data.csv"
	RatesFile      = "base_premiums.csv"
	PopulationFile = "demographic_distribution.csv"

	// alternative baselines live next to EconomicFile as economic_data_<name>.csv
	economicAltPrefix = "economic_data_"
)

// CSVSource reads a dataset from a directory of CSV files.
type CSVSource struct {
	Dir string
}

// NewCSVSource creates a source over dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{Dir: dir}
}

// Load reads and validates every file in the directory.
func (s *CSVSource) Load(ctx context.Context) (*domain.Dataset, error) {
	var t tables
	var err error

	if t.mortality, err = s.read(ctx, MortalityFile); err != nil {
		return nil, err
	}
	econ, err := s.read(ctx, EconomicFile)
	if err != nil {
		return nil, err
	}
	t.economics = append(t.economics, econ)

	alts, err := s.alternativeBaselines()
	if err != nil {
		return nil, err
	}
	for _, name := range alts {
		r, err := s.read(ctx, economicAltPrefix+name+".csv")
		if err != nil {
			return nil, err
		}
		r.baseline = name
		t.economics = append(t.economics, r)
	}

	if t.rates, err = s.read(ctx, RatesFile); err != nil {
		return nil, err
	}
	if t.population, err = s.read(ctx, PopulationFile); err != nil {
		return nil, err
	}
	return assemble(t)
}

// alternativeBaselines lists the baseline names found in the directory, sorted.
func (s *CSVSource) alternativeBaselines() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, economicAltPrefix+"*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list economic baselines: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), economicAltPrefix), ".csv")
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *CSVSource) read(ctx context.Context, name string) (*records, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", path, domain.ErrDataUnavailable)
	}
	return newRecords(name, rows[0], rows[1:]), nil
}
