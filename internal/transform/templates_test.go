package transform

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
		Transforms:  []ScenarioTransform{},
	}

	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	if _, ok = registry.Get("TEST_TEMPLATE"); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestTemplateRegistry_List(t *testing.T) {
	registry := NewTemplateRegistry()

	registry.Register(Template{Name: "template2", Description: "Second"})
	registry.Register(Template{Name: "template1", Description: "First"})

	names := registry.List()
	if len(names) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(names))
	}
	if names[0] != "template1" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestScenario()

	expectedTemplates := []string{
		"high_inflation",
		"low_inflation",
		"rate_hike",
		"rate_cut",
		"fast_mortality_improvement",
		"slow_mortality_improvement",
		"stagflation",
		"goldilocks",
	}

	for _, name := range expectedTemplates {
		template, ok := registry.Get(name)
		if !ok {
			t.Errorf("Expected to find template: %s", name)
			continue
		}
		if len(template.Transforms) == 0 {
			t.Errorf("Template %s has no transforms", name)
		}
		if template.Description == "" {
			t.Errorf("Template %s has no description", name)
		}
		if _, err := ApplyTemplate(base, template); err != nil {
			t.Errorf("Template %s does not apply to the base scenario: %v", name, err)
		}
	}
}

func TestApplyTemplate(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestScenario()

	template, _ := registry.Get("stagflation")
	result, err := ApplyTemplate(base, template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.ID != "base+stagflation" {
		t.Errorf("Expected derived id base+stagflation, got %s", result.ID)
	}
	if !strings.Contains(result.Name, "Base Case") {
		t.Errorf("Expected derived name to mention the base, got %s", result.Name)
	}
	if !result.Inflation.Target.Equal(decimal.NewFromFloat(0.08)) {
		t.Errorf("Expected inflation 0.08, got %s", result.Inflation.Target)
	}
	if !result.Interest.Target.Equal(decimal.NewFromFloat(0.075)) {
		t.Errorf("Expected interest 0.075, got %s", result.Interest.Target)
	}
	if !result.GDPGrowth.Target.Equal(decimal.NewFromFloat(0.02)) {
		t.Errorf("Expected GDP growth 0.02, got %s", result.GDPGrowth.Target)
	}
	if base.ID != "base" || !base.Inflation.Target.Equal(decimal.NewFromFloat(0.05)) {
		t.Error("Base scenario was modified")
	}
}

func TestApplyTemplate_EmptyTransforms(t *testing.T) {
	base := createTestScenario()
	result, err := ApplyTemplate(base, Template{Name: "Noop"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.ID != "base+noop" {
		t.Errorf("Expected base+noop, got %s", result.ID)
	}
	if !result.MortalityImprovement.Equal(base.MortalityImprovement) {
		t.Error("Expected assumptions to be unchanged")
	}
}

func TestApplyTemplate_SlowMortality(t *testing.T) {
	template, _ := CreateBuiltInTemplates().Get("slow_mortality_improvement")
	result, err := ApplyTemplate(createTestScenario(), template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.MortalityImprovement.Equal(decimal.NewFromFloat(0.0075)) {
		t.Errorf("Expected 0.0075, got %s", result.MortalityImprovement)
	}
	if !result.LifeExpectancyGain.Equal(decimal.NewFromFloat(0.1)) {
		t.Errorf("Expected 0.1, got %s", result.LifeExpectancyGain)
	}
}

func TestParseTemplateList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"high_inflation", []string{"high_inflation"}},
		{"high_inflation,rate_cut", []string{"high_inflation", "rate_cut"}},
		{" high_inflation , rate_cut ,", []string{"high_inflation", "rate_cut"}},
	}

	for _, tt := range tests {
		result := ParseTemplateList(tt.input)
		if len(result) != len(tt.expected) {
			t.Errorf("ParseTemplateList(%q) = %v, expected %v", tt.input, result, tt.expected)
			continue
		}
		for i := range result {
			if result[i] != tt.expected[i] {
				t.Errorf("ParseTemplateList(%q)[%d] = %s, expected %s", tt.input, i, result[i], tt.expected[i])
			}
		}
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, want := range []string{"Available Templates:", "Inflation:", "Interest Rates:", "Mortality:", "Combination Outlooks:", "stagflation", "Usage:"} {
		if !strings.Contains(help, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}
	if strings.Index(help, "high_inflation") > strings.Index(help, "rate_cut") {
		t.Error("Expected inflation templates before interest rate templates")
	}
}

func TestGetTemplateHelp_EmptyRegistry(t *testing.T) {
	if help := GetTemplateHelp(NewTemplateRegistry()); help != "No templates registered" {
		t.Errorf("Unexpected help for empty registry: %s", help)
	}
}
