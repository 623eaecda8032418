package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	categoryInflation   = "Inflation"
	categoryInterest    = "Interest Rates"
	categoryMortality   = "Mortality"
	categoryCombination = "Combination Outlooks"
)

func pp(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// CreateBuiltInTemplates creates a template registry with common economic and
// mortality outlooks
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "high_inflation",
		Category:    categoryInflation,
		Description: "Inflation runs 2 points above the scenario target",
		Transforms:  []ScenarioTransform{&ShiftRate{Indicator: IndicatorInflation, Delta: pp(0.02)}},
	})
	registry.Register(Template{
		Name:        "low_inflation",
		Category:    categoryInflation,
		Description: "Inflation runs 1.5 points below the scenario target",
		Transforms:  []ScenarioTransform{&ShiftRate{Indicator: IndicatorInflation, Delta: pp(-0.015)}},
	})

	registry.Register(Template{
		Name:        "rate_hike",
		Category:    categoryInterest,
		Description: "Interest rates 1.5 points higher",
		Transforms:  []ScenarioTransform{&ShiftRate{Indicator: IndicatorInterest, Delta: pp(0.015)}},
	})
	registry.Register(Template{
		Name:        "rate_cut",
		Category:    categoryInterest,
		Description: "Interest rates 1.5 points lower",
		Transforms:  []ScenarioTransform{&ShiftRate{Indicator: IndicatorInterest, Delta: pp(-0.015)}},
	})

	registry.Register(Template{
		Name:        "fast_mortality_improvement",
		Category:    categoryMortality,
		Description: "Mortality improves 50% faster, life expectancy gains 0.2 years a year",
		Transforms: []ScenarioTransform{
			&ScaleMortalityImprovement{Factor: pp(1.5)},
			&SetLongevityGain{Years: pp(0.2)},
		},
	})
	registry.Register(Template{
		Name:        "slow_mortality_improvement",
		Category:    categoryMortality,
		Description: "Mortality improves at half the pace, life expectancy gains 0.1 years a year",
		Transforms: []ScenarioTransform{
			&ScaleMortalityImprovement{Factor: pp(0.5)},
			&SetLongevityGain{Years: pp(0.1)},
		},
	})

	registry.Register(Template{
		Name:        "stagflation",
		Category:    categoryCombination,
		Description: "Inflation +3 points, rates +1 point, GDP growth 2%",
		Transforms: []ScenarioTransform{
			&ShiftRate{Indicator: IndicatorInflation, Delta: pp(0.03)},
			&ShiftRate{Indicator: IndicatorInterest, Delta: pp(0.01)},
			&SetRate{Indicator: IndicatorGDP, Rate: pp(0.02)},
		},
	})
	registry.Register(Template{
		Name:        "goldilocks",
		Category:    categoryCombination,
		Description: "Inflation -1 point, GDP growth +1 point, mortality improves 25% faster",
		Transforms: []ScenarioTransform{
			&ShiftRate{Indicator: IndicatorInflation, Delta: pp(-0.01)},
			&ShiftRate{Indicator: IndicatorGDP, Delta: pp(0.01)},
			&ScaleMortalityImprovement{Factor: pp(1.25)},
		},
	})

	return registry
}

// TemplateScenarioID is the id of the scenario a template derives from base.
func TemplateScenarioID(baseID, templateName string) string {
	return baseID + "+" + strings.ToLower(templateName)
}

// ApplyTemplate applies a template to a base scenario. The result carries a
// derived id and name so it can run alongside the base.
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	out, err := ApplyTransforms(base, template.Transforms)
	if err != nil {
		return nil, err
	}
	out.ID = TemplateScenarioID(base.ID, template.Name)
	out.Name = fmt.Sprintf("%s + %s", base.DisplayName(), template.Name)
	if template.Description != "" {
		out.Description = template.Description
	}
	return out, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := t.Category
		if category == "" {
			category = "Other"
		}
		categories[category] = append(categories[category], t)
	}

	for _, category := range []string{categoryInflation, categoryInterest, categoryMortality, categoryCombination, "Other"} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-30s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  premcast compare --base base --with high_inflation,rate_cut\n")
	sb.WriteString("  premcast compare --base base --with stagflation --scenarios optimistic\n")

	return sb.String()
}
