package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	// Economic path transforms
	registry.Register("shift_inflation", shiftFactory(IndicatorInflation))
	registry.Register("shift_interest", shiftFactory(IndicatorInterest))
	registry.Register("shift_gdp_growth", shiftFactory(IndicatorGDP))
	registry.Register("set_inflation", setFactory(IndicatorInflation))
	registry.Register("set_interest", setFactory(IndicatorInterest))
	registry.Register("set_gdp_growth", setFactory(IndicatorGDP))
	registry.Register("set_ramp", createSetRamp)
	registry.Register("set_baseline", createSetBaseline)

	// Mortality transforms
	registry.Register("set_mortality_improvement", createSetMortalityImprovement)
	registry.Register("scale_mortality_improvement", createScaleMortalityImprovement)
	registry.Register("set_longevity_gain", createSetLongevityGain)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "shift_inflation:delta=0.01"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// Factory functions for each transform

func requireDecimal(transform, key string, params map[string]string) (decimal.Decimal, error) {
	s, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func shiftFactory(ind Indicator) TransformFactory {
	return func(params map[string]string) (ScenarioTransform, error) {
		delta, err := requireDecimal("shift_"+string(ind), "delta", params)
		if err != nil {
			return nil, err
		}
		return &ShiftRate{Indicator: ind, Delta: delta}, nil
	}
}

func setFactory(ind Indicator) TransformFactory {
	return func(params map[string]string) (ScenarioTransform, error) {
		rate, err := requireDecimal("set_"+string(ind), "rate", params)
		if err != nil {
			return nil, err
		}
		return &SetRate{Indicator: ind, Rate: rate}, nil
	}
}

func createSetRamp(params map[string]string) (ScenarioTransform, error) {
	yearsStr, ok := params["years"]
	if !ok {
		return nil, fmt.Errorf("set_ramp requires 'years' parameter")
	}
	years, err := strconv.Atoi(yearsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid years value: %w", err)
	}
	ind, err := ParseIndicator(params["indicator"])
	if err != nil {
		return nil, err
	}
	return &SetRamp{Indicator: ind, Years: years}, nil
}

func createSetBaseline(params map[string]string) (ScenarioTransform, error) {
	name, ok := params["name"]
	if !ok {
		return nil, fmt.Errorf("set_baseline requires 'name' parameter")
	}
	return &SetBaseline{Baseline: name}, nil
}

func createSetMortalityImprovement(params map[string]string) (ScenarioTransform, error) {
	rate, err := requireDecimal("set_mortality_improvement", "rate", params)
	if err != nil {
		return nil, err
	}
	return &SetMortalityImprovement{Rate: rate}, nil
}

func createScaleMortalityImprovement(params map[string]string) (ScenarioTransform, error) {
	factor, err := requireDecimal("scale_mortality_improvement", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleMortalityImprovement{Factor: factor}, nil
}

func createSetLongevityGain(params map[string]string) (ScenarioTransform, error) {
	years, err := requireDecimal("set_longevity_gain", "years", params)
	if err != nil {
		return nil, err
	}
	return &SetLongevityGain{Years: years}, nil
}
