package dataset

import (
	"fmt"
	"strconv"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	ten     = decimal.NewFromInt(10)

	// DefaultSumInsured applies to population rows without a sum_insured column.
	DefaultSumInsured = decimal.NewFromInt(1000000)
)

func parseInt(field, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", field, s)
	}
	return v, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a number", field, s)
	}
	return v, nil
}

// segmentLabels parses the categorical columns shared by the rate and
// population tables. A missing smoking_status column means non-smoker.
func segmentLabels(r *records, row []string) (domain.Segment, error) {
	var seg domain.Segment
	var err error

	if seg.Age, err = parseInt("age", r.get(row, "age")); err != nil {
		return seg, err
	}
	if seg.Gender, err = domain.ParseGender(r.get(row, "gender")); err != nil {
		return seg, err
	}
	if seg.GroupType, err = domain.ParseGroupType(r.first(row, "group", "group_type")); err != nil {
		return seg, err
	}
	if seg.PolicyType, err = domain.ParsePolicyType(r.get(row, "policy_type")); err != nil {
		return seg, err
	}
	seg.SmokingStatus = domain.NonSmoker
	if r.has("smoking_status") {
		if seg.SmokingStatus, err = domain.ParseSmokingStatus(r.get(row, "smoking_status")); err != nil {
			return seg, err
		}
	}
	seg.Country = r.get(row, "country")
	if seg.Country == "" {
		return seg, fmt.Errorf("country is empty")
	}
	return seg.Normalize(), nil
}

type mortalityCell struct {
	key  domain.MortalityKey
	year int
}

type mortalitySum struct {
	rate, lifeExpectancy decimal.Decimal
	n                    int64
}

// parseMortality reads per-age mortality rows and averages the ages that fall
// in the same band and year.
func parseMortality(r *records) ([]domain.MortalityRecord, error) {
	if err := r.require("year", "country", "gender", "smoking_status", "mortality_rate", "life_expectancy"); err != nil {
		return nil, err
	}
	if !r.has("age") && !r.has("age_band") {
		return nil, fmt.Errorf("%s: missing column(s) age", r.name)
	}

	sums := make(map[mortalityCell]*mortalitySum)
	var order []mortalityCell
	for i, row := range r.rows {
		cell, rate, le, err := mortalityRow(r, row)
		if err != nil {
			return nil, r.rowError(i, err)
		}
		acc, ok := sums[cell]
		if !ok {
			acc = &mortalitySum{}
			sums[cell] = acc
			order = append(order, cell)
		}
		acc.rate = acc.rate.Add(rate)
		acc.lifeExpectancy = acc.lifeExpectancy.Add(le)
		acc.n++
	}

	out := make([]domain.MortalityRecord, 0, len(order))
	for _, cell := range order {
		acc := sums[cell]
		n := decimal.NewFromInt(acc.n)
		out = append(out, domain.MortalityRecord{
			Key: cell.key,
			Point: domain.MortalityPoint{
				Year:           cell.year,
				RatePer1000:    acc.rate.Div(n),
				LifeExpectancy: acc.lifeExpectancy.Div(n),
			},
		})
	}
	return out, nil
}

func mortalityRow(r *records, row []string) (mortalityCell, decimal.Decimal, decimal.Decimal, error) {
	var cell mortalityCell
	year, err := parseInt("year", r.get(row, "year"))
	if err != nil {
		return cell, decimal.Zero, decimal.Zero, err
	}
	band := r.get(row, "age_band")
	if r.has("age") {
		age, err := parseInt("age", r.get(row, "age"))
		if err != nil {
			return cell, decimal.Zero, decimal.Zero, err
		}
		band = domain.AgeBandFor(age)
	} else if !domain.IsValidAgeBand(band) {
		return cell, decimal.Zero, decimal.Zero, fmt.Errorf("age_band: unknown band %q", band)
	}
	gender, err := domain.ParseGender(r.get(row, "gender"))
	if err != nil {
		return cell, decimal.Zero, decimal.Zero, err
	}
	smoking, err := domain.ParseSmokingStatus(r.get(row, "smoking_status"))
	if err != nil {
		return cell, decimal.Zero, decimal.Zero, err
	}
	rate, err := parseDecimal("mortality_rate", r.get(row, "mortality_rate"))
	if err != nil {
		return cell, decimal.Zero, decimal.Zero, err
	}
	le, err := parseDecimal("life_expectancy", r.get(row, "life_expectancy"))
	if err != nil {
		return cell, decimal.Zero, decimal.Zero, err
	}
	country := r.get(row, "country")
	if country == "" {
		return cell, decimal.Zero, decimal.Zero, fmt.Errorf("country is empty")
	}
	cell.year = year
	cell.key = domain.MortalityKey{AgeBand: band, Gender: gender, SmokingStatus: smoking, Country: country}
	return cell, rate, le, nil
}

// parseEconomics reads percent-valued indicator rows and converts them to
// fractions. Rows are grouped by the baseline column when present, otherwise
// by the table's own baseline name.
func parseEconomics(r *records) (map[string][]domain.EconomicRecord, error) {
	if err := r.require("year", "country", "inflation_rate", "interest_rate", "gdp_growth"); err != nil {
		return nil, err
	}
	out := make(map[string][]domain.EconomicRecord)
	for i, row := range r.rows {
		rec, err := economicRow(r, row)
		if err != nil {
			return nil, r.rowError(i, err)
		}
		b := r.baseline
		if v := r.get(row, "baseline"); v != "" {
			b = v
		}
		out[b] = append(out[b], rec)
	}
	return out, nil
}

func economicRow(r *records, row []string) (domain.EconomicRecord, error) {
	var rec domain.EconomicRecord
	var err error
	if rec.Point.Year, err = parseInt("year", r.get(row, "year")); err != nil {
		return rec, err
	}
	if rec.Country = r.get(row, "country"); rec.Country == "" {
		return rec, fmt.Errorf("country is empty")
	}
	percents := []struct {
		col string
		dst *decimal.Decimal
	}{
		{"inflation_rate", &rec.Point.Inflation},
		{"interest_rate", &rec.Point.Interest},
		{"gdp_growth", &rec.Point.GDPGrowth},
	}
	for _, p := range percents {
		v, err := parseDecimal(p.col, r.get(row, p.col))
		if err != nil {
			return rec, err
		}
		*p.dst = v.Div(hundred)
	}
	return rec, nil
}

// parseRates reads base premiums per coverage unit. The legacy base_premium
// column quotes ten units and is converted.
func parseRates(r *records) ([]domain.BaseRate, error) {
	if err := r.require("country", "gender", "age", "policy_type"); err != nil {
		return nil, err
	}
	if !r.has("group") && !r.has("group_type") {
		return nil, fmt.Errorf("%s: missing column(s) group", r.name)
	}
	legacy := !r.has("premium_per_unit")
	if legacy && !r.has("base_premium") {
		return nil, fmt.Errorf("%s: missing column(s) premium_per_unit", r.name)
	}

	out := make([]domain.BaseRate, 0, len(r.rows))
	for i, row := range r.rows {
		seg, err := segmentLabels(r, row)
		if err != nil {
			return nil, r.rowError(i, err)
		}
		var rate decimal.Decimal
		if legacy {
			rate, err = parseDecimal("base_premium", r.get(row, "base_premium"))
			rate = rate.Div(ten)
		} else {
			rate, err = parseDecimal("premium_per_unit", r.get(row, "premium_per_unit"))
		}
		if err != nil {
			return nil, r.rowError(i, err)
		}
		out = append(out, domain.BaseRate{Segment: seg, PremiumPerUnit: rate})
	}
	return out, nil
}

// parsePopulation reads the policy distribution. policy_count (or weight)
// becomes the cell weight.
func parsePopulation(r *records) ([]domain.PopulationCell, error) {
	if err := r.require("country", "gender", "age", "policy_type"); err != nil {
		return nil, err
	}
	if !r.has("group") && !r.has("group_type") {
		return nil, fmt.Errorf("%s: missing column(s) group", r.name)
	}
	if !r.has("policy_count") && !r.has("weight") {
		return nil, fmt.Errorf("%s: missing column(s) policy_count", r.name)
	}

	out := make([]domain.PopulationCell, 0, len(r.rows))
	for i, row := range r.rows {
		seg, err := segmentLabels(r, row)
		if err != nil {
			return nil, r.rowError(i, err)
		}
		weight, err := parseDecimal("policy_count", r.first(row, "policy_count", "weight"))
		if err != nil {
			return nil, r.rowError(i, err)
		}
		if weight.IsNegative() {
			return nil, r.rowError(i, fmt.Errorf("policy_count cannot be negative"))
		}
		sumInsured := DefaultSumInsured
		if r.has("sum_insured") {
			if sumInsured, err = parseDecimal("sum_insured", r.get(row, "sum_insured")); err != nil {
				return nil, r.rowError(i, err)
			}
		}
		out = append(out, domain.PopulationCell{Segment: seg, SumInsured: sumInsured, Weight: weight})
	}
	return out, nil
}
