package compare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/premcast/internal/calculation"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/rgehrsitz/premcast/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	Forecaster        *calculation.Forecaster
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(f *calculation.Forecaster) *CompareEngine {
	return &CompareEngine{
		Forecaster:        f,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioID string   // Scenario every alternative is measured against
	Scenarios      []string // Configured scenarios to compare
	Templates      []string // Templates applied to the base scenario
	// Request carries the horizon, filters, coverage and fallback. Its
	// ScenarioIDs are ignored.
	Request domain.CompareRequest
}

// Compare forecasts the base scenario, every listed alternative and one
// derived scenario per template, then measures each against the base.
// Scenarios that fail, the base included, are reported in Failures. When the
// base fails the first scenario that succeeded becomes the anchor for the
// differences. Only a comparison where every scenario fails is an error.
func (ce *CompareEngine) Compare(ctx context.Context, options CompareOptions) (*ComparisonSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, ok := ce.Forecaster.Scenario(options.BaseScenarioID)
	if !ok {
		return nil, &domain.ForecastError{Op: "compare", Scenario: options.BaseScenarioID, Err: domain.ErrUnknownScenario}
	}

	ids := []string{base.ID}
	seen := map[string]bool{base.ID: true}
	for _, id := range options.Scenarios {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	descriptions := make(map[string]string)
	var derived []domain.Scenario
	for _, name := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}

		modified, err := transform.ApplyTemplate(&base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", name, err)
		}
		if seen[modified.ID] {
			continue
		}
		seen[modified.ID] = true
		ids = append(ids, modified.ID)
		derived = append(derived, *modified)
		descriptions[modified.ID] = template.Description
	}

	req := options.Request
	req.ScenarioIDs = ids
	cmp, err := ce.Forecaster.WithScenarios(derived...).Compare(req)
	if err != nil {
		return nil, err
	}
	return ce.assemble(options, cmp, descriptions), nil
}

func (ce *CompareEngine) assemble(options CompareOptions, cmp *domain.Comparison, descriptions map[string]string) *ComparisonSet {
	anchor := options.BaseScenarioID
	if cmp.Failed(anchor) {
		// Compare never returns without at least one result.
		anchor = cmp.Results[0].ScenarioID
	}

	compSet := &ComparisonSet{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		BaseScenarioID: anchor,
		StartYear:      options.Request.StartYear,
		EndYear:        options.Request.EndYear,
		Filters:        options.Request.Filters.Describe(),
		Failures:       cmp.Failures,
		Points:         cmp.Points,
	}
	if anchor != options.BaseScenarioID {
		compSet.RequestedBaseID = options.BaseScenarioID
	}

	baseRes, _ := cmp.Result(anchor)
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseRes)
	if d, ok := descriptions[anchor]; ok {
		baseResult.Description = d
	} else if sc, ok := ce.Forecaster.Scenario(anchor); ok {
		baseResult.Description = sc.Description
	}
	compSet.BaseResult = &baseResult

	alternatives := []ComparisonResult{}
	for i := range cmp.Results {
		res := &cmp.Results[i]
		if res.ScenarioID == anchor {
			continue
		}
		altResult := ce.MetricsCalculator.CalculateMetrics(res)
		if d, ok := descriptions[res.ScenarioID]; ok {
			altResult.Description = d
		} else if sc, ok := ce.Forecaster.Scenario(res.ScenarioID); ok {
			altResult.Description = sc.Description
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}
	compSet.AlternativeResults = alternatives

	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}
