package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Gender of the insured life
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// GroupType is the distribution channel a policy was sold through
type GroupType string

const (
	GroupIndividual GroupType = "Individual"
	GroupFamily     GroupType = "Family"
	GroupCorporate  GroupType = "Corporate"
)

// PolicyType distinguishes term from whole-life cover
type PolicyType string

const (
	PolicyTerm  PolicyType = "Term"
	PolicyWhole PolicyType = "Whole"
)

// SmokingStatus of the insured life
type SmokingStatus string

const (
	Smoker    SmokingStatus = "Smoker"
	NonSmoker SmokingStatus = "NonSmoker"
)

// Age bands used to key mortality series and to filter segments.
const (
	AgeBandUpTo30 = "18-30"
	AgeBand31To40 = "31-40"
	AgeBand41To50 = "41-50"
	AgeBand51To60 = "51-60"
	AgeBand61To70 = "61-70"
	AgeBand71Plus = "71+"
)

// AgeBands lists every age band in ascending order.
var AgeBands = []string{AgeBandUpTo30, AgeBand31To40, AgeBand41To50, AgeBand51To60, AgeBand61To70, AgeBand71Plus}

// AgeBandFor returns the band an age falls into.
func AgeBandFor(age int) string {
	switch {
	case age <= 30:
		return AgeBandUpTo30
	case age <= 40:
		return AgeBand31To40
	case age <= 50:
		return AgeBand41To50
	case age <= 60:
		return AgeBand51To60
	case age <= 70:
		return AgeBand61To70
	default:
		return AgeBand71Plus
	}
}

// IsValidAgeBand reports whether band is one of AgeBands.
func IsValidAgeBand(band string) bool {
	for _, b := range AgeBands {
		if b == band {
			return true
		}
	}
	return false
}

// normalizeLabel lowercases and strips separators so "Non-Smoker", "non_smoker"
// and "NonSmoker" compare equal.
func normalizeLabel(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// ParseGender accepts "Male"/"Female" in any case, plus "M"/"F".
func ParseGender(s string) (Gender, error) {
	switch normalizeLabel(s) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// ParseGroupType accepts Individual, Family or Corporate in any case.
func ParseGroupType(s string) (GroupType, error) {
	switch normalizeLabel(s) {
	case "individual":
		return GroupIndividual, nil
	case "family":
		return GroupFamily, nil
	case "corporate":
		return GroupCorporate, nil
	}
	return "", fmt.Errorf("unknown group type %q", s)
}

// ParsePolicyType accepts "Term", "Term Life", "Whole" and "Whole Life".
func ParsePolicyType(s string) (PolicyType, error) {
	switch normalizeLabel(s) {
	case "term", "termlife":
		return PolicyTerm, nil
	case "whole", "wholelife":
		return PolicyWhole, nil
	}
	return "", fmt.Errorf("unknown policy type %q", s)
}

// ParseSmokingStatus accepts "Smoker", "NonSmoker" and "Non-Smoker".
func ParseSmokingStatus(s string) (SmokingStatus, error) {
	switch normalizeLabel(s) {
	case "smoker":
		return Smoker, nil
	case "nonsmoker":
		return NonSmoker, nil
	}
	return "", fmt.Errorf("unknown smoking status %q", s)
}

// Segment is a unique demographic/policy attribute combination. The full tuple
// is its identity, so Segment is usable as a map key.
type Segment struct {
	Age           int           `yaml:"age" json:"age"`
	AgeBand       string        `yaml:"age_band" json:"ageBand"`
	Gender        Gender        `yaml:"gender" json:"gender"`
	GroupType     GroupType     `yaml:"group_type" json:"groupType"`
	PolicyType    PolicyType    `yaml:"policy_type" json:"policyType"`
	SmokingStatus SmokingStatus `yaml:"smoking_status" json:"smokingStatus"`
	Country       string        `yaml:"country" json:"country"`
}

// Normalize fills AgeBand from Age when it is empty.
func (s Segment) Normalize() Segment {
	if s.AgeBand == "" {
		s.AgeBand = AgeBandFor(s.Age)
	}
	return s
}

// MortalityKey returns the subset of the segment used to look up mortality.
func (s Segment) MortalityKey() MortalityKey {
	n := s.Normalize()
	return MortalityKey{
		AgeBand:       n.AgeBand,
		Gender:        n.Gender,
		SmokingStatus: n.SmokingStatus,
		Country:       n.Country,
	}
}

func (s Segment) String() string {
	return fmt.Sprintf("%s/%d/%s/%s/%s/%s", s.Country, s.Age, s.Gender, s.GroupType, s.PolicyType, s.SmokingStatus)
}

// BaseRate is the year-zero premium for one coverage unit of a segment.
type BaseRate struct {
	Segment        Segment         `yaml:"segment" json:"segment"`
	PremiumPerUnit decimal.Decimal `yaml:"premium_per_unit" json:"premiumPerUnit"`
}

// RateTable maps segments to their base rate. It is built once and never mutated.
type RateTable struct {
	rates map[Segment]decimal.Decimal
}

// NewRateTable indexes rows by segment, rejecting duplicate tuples and
// non-positive rates.
func NewRateTable(rows []BaseRate) (*RateTable, error) {
	rt := &RateTable{rates: make(map[Segment]decimal.Decimal, len(rows))}
	for i, row := range rows {
		seg := row.Segment.Normalize()
		if !row.PremiumPerUnit.IsPositive() {
			return nil, fmt.Errorf("base rate row %d (%s): premium per unit must be positive, got %s", i, seg, row.PremiumPerUnit)
		}
		if _, exists := rt.rates[seg]; exists {
			return nil, fmt.Errorf("base rate row %d (%s): %w", i, seg, ErrDuplicateSegment)
		}
		rt.rates[seg] = row.PremiumPerUnit
	}
	return rt, nil
}

// Lookup returns the base rate for a segment.
func (rt *RateTable) Lookup(seg Segment) (decimal.Decimal, bool) {
	if rt == nil {
		return decimal.Zero, false
	}
	rate, ok := rt.rates[seg.Normalize()]
	return rate, ok
}

// Len returns the number of segments with a base rate.
func (rt *RateTable) Len() int {
	if rt == nil {
		return 0
	}
	return len(rt.rates)
}

// Segments returns all rated segments in a stable order.
func (rt *RateTable) Segments() []Segment {
	if rt == nil {
		return nil
	}
	out := make([]Segment, 0, len(rt.rates))
	for seg := range rt.rates {
		out = append(out, seg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// PopulationCell is one segment at one sum insured with its population weight.
// Weights are relative; the aggregator renormalizes them over any filtered subset.
type PopulationCell struct {
	Segment    Segment         `yaml:"segment" json:"segment"`
	SumInsured decimal.Decimal `yaml:"sum_insured" json:"sumInsured"`
	Weight     decimal.Decimal `yaml:"weight" json:"weight"`
}
