package main

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/calculation"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/rgehrsitz/premcast/internal/transform"
)

// customScenario applies "name:key=value,..." transform specs to a configured
// scenario. The result is registered as <id>_custom on a derived forecaster.
func customScenario(f *calculation.Forecaster, baseID string, specs []string) (*calculation.Forecaster, *domain.Scenario, error) {
	base, ok := f.Scenario(baseID)
	if !ok {
		return nil, nil, unknownScenario(baseID, f.ScenarioIDs())
	}

	registry := transform.NewTransformRegistry()
	transforms := make([]transform.ScenarioTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: --transform %q: %v (available: %v)", domain.ErrInvalidRequest, spec, err, registry.List())
		}
		transforms = append(transforms, t)
	}

	custom, err := transform.ApplyTransforms(&base, transforms)
	if err != nil {
		return nil, nil, err
	}
	custom.ID = base.ID + "_custom"
	custom.Name = base.DisplayName() + " (custom)"
	custom.Description = describeTransforms(transforms)
	return f.WithScenarios(*custom), custom, nil
}

func describeTransforms(transforms []transform.ScenarioTransform) string {
	desc := ""
	for i, t := range transforms {
		if i > 0 {
			desc += "; "
		}
		desc += t.Description()
	}
	return desc
}
