package output

import (
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/premcast/internal/compare"
	"github.com/rgehrsitz/premcast/internal/dataset"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// ReportKind names what a Report carries.
type ReportKind string

const (
	KindForecast    ReportKind = "forecast"
	KindComparison  ReportKind = "comparison"
	KindSensitivity ReportKind = "sensitivity"
	KindSummary     ReportKind = "summary"
)

// Report is the unit every formatter renders. Exactly one of the payload
// fields is set, matching Kind.
type Report struct {
	ID          string     `json:"id"`
	Kind        ReportKind `json:"kind"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Filters     string     `json:"filters,omitempty"`

	Forecast    *domain.ForecastResult      `json:"forecast,omitempty"`
	Comparison  *compare.ComparisonSet      `json:"comparison,omitempty"`
	Sensitivity *domain.SensitivityAnalysis `json:"sensitivity,omitempty"`
	Summary     *dataset.Summary            `json:"summary,omitempty"`
}

func newReport(kind ReportKind) *Report {
	return &Report{
		ID:          uuid.NewString(),
		Kind:        kind,
		GeneratedAt: time.Now().UTC(),
	}
}

// NewForecastReport wraps a single-scenario forecast.
func NewForecastReport(res *domain.ForecastResult, filters domain.Filters) *Report {
	r := newReport(KindForecast)
	r.Forecast = res
	r.Filters = filters.Describe()
	return r
}

// NewComparisonReport wraps a scenario comparison. The comparison's run id
// becomes the report id.
func NewComparisonReport(cs *compare.ComparisonSet) *Report {
	r := newReport(KindComparison)
	if cs.RunID != "" {
		r.ID = cs.RunID
	}
	r.Comparison = cs
	r.Filters = cs.Filters
	return r
}

// NewSensitivityReport wraps a parameter sweep.
func NewSensitivityReport(a *domain.SensitivityAnalysis, filters domain.Filters) *Report {
	r := newReport(KindSensitivity)
	r.Sensitivity = a
	r.Filters = filters.Describe()
	return r
}

// NewSummaryReport wraps a dataset summary.
func NewSummaryReport(s *dataset.Summary) *Report {
	r := newReport(KindSummary)
	r.Summary = s
	return r
}

// FormatCurrency formats a premium amount
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatPercentage formats a value already expressed in percent
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRate formats a fraction such as 0.05 as "5.00%"
func FormatRate(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}
