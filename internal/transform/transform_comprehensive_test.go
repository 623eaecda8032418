package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransformRegistry(t *testing.T) {
	registry := NewTransformRegistry()

	assert.NotNil(t, registry, "Should create registry")
	assert.NotNil(t, registry.factories, "Should initialize factories map")
	assert.Greater(t, len(registry.factories), 0, "Should have built-in transforms registered")
}

func TestTransformRegistry_Register(t *testing.T) {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	factory := func(params map[string]string) (ScenarioTransform, error) {
		return &SetRamp{Indicator: IndicatorAll, Years: 2}, nil
	}

	registry.Register("test_transform", factory)

	assert.Contains(t, registry.factories, "test_transform", "Should register transform")
	assert.NotNil(t, registry.factories["test_transform"], "Should store factory function")
}

func TestTransformRegistry_Create_UnknownTransform(t *testing.T) {
	registry := NewTransformRegistry()

	transform, err := registry.Create("unknown_transform", map[string]string{})

	assert.Error(t, err, "Should error for unknown transform")
	assert.Nil(t, transform, "Should return nil transform")
	assert.Contains(t, err.Error(), "unknown transform", "Should have specific error message")
}

func TestTransformRegistry_List(t *testing.T) {
	transforms := NewTransformRegistry().List()

	for _, name := range []string{
		"shift_inflation", "set_inflation", "shift_interest", "set_mortality_improvement",
		"scale_mortality_improvement", "set_gdp_growth", "set_ramp", "set_longevity_gain",
	} {
		assert.Contains(t, transforms, name)
	}
	assert.IsIncreasing(t, transforms, "List is sorted")
}

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()
	base := createTestScenario()

	tests := []struct {
		spec  string
		name  string
		check func(t *testing.T, tr ScenarioTransform)
	}{
		{"shift_inflation:delta=0.01", "shift_inflation", func(t *testing.T, tr ScenarioTransform) {
			out, err := tr.Apply(base)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromFloat(0.06).Equal(out.Inflation.Target))
		}},
		{"set_interest: rate = 0.08", "set_interest", func(t *testing.T, tr ScenarioTransform) {
			out, err := tr.Apply(base)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromFloat(0.08).Equal(out.Interest.Target))
		}},
		{"set_ramp:years=5,indicator=gdp", "set_ramp", func(t *testing.T, tr ScenarioTransform) {
			out, err := tr.Apply(base)
			require.NoError(t, err)
			assert.Equal(t, 5, out.GDPGrowth.RampYears)
			assert.Equal(t, 0, out.Inflation.RampYears)
		}},
		{"set_ramp:years=4", "set_ramp", func(t *testing.T, tr ScenarioTransform) {
			out, err := tr.Apply(base)
			require.NoError(t, err)
			assert.Equal(t, 4, out.Inflation.RampYears)
			assert.Equal(t, 4, out.Interest.RampYears)
			assert.Equal(t, 4, out.GDPGrowth.RampYears)
		}},
		{"scale_mortality_improvement:factor=2", "scale_mortality_improvement", func(t *testing.T, tr ScenarioTransform) {
			out, err := tr.Apply(base)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromFloat(0.03).Equal(out.MortalityImprovement))
		}},
		{"set_longevity_gain:years=0.25", "set_longevity_gain", func(t *testing.T, tr ScenarioTransform) {
			out, err := tr.Apply(base)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromFloat(0.25).Equal(out.LifeExpectancyGain))
		}},
		{"set_baseline:name=imf", "set_baseline", func(t *testing.T, tr ScenarioTransform) {
			out, err := tr.Apply(base)
			require.NoError(t, err)
			assert.Equal(t, "imf", out.EconomicBaseline)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.name, tr.Name())
			assert.NotEmpty(t, tr.Description())
			require.NoError(t, tr.Validate(base))
			tt.check(t, tr)
		})
	}
}

func TestTransformRegistry_ParseTransformSpec_Errors(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		contains string
	}{
		{"shift_inflation", "invalid transform spec format"},
		{"shift_inflation:0.01", "invalid parameter format"},
		{"shift_inflation:amount=0.01", "requires 'delta' parameter"},
		{"shift_inflation:delta=lots", "invalid delta value"},
		{"set_ramp:years=two", "invalid years value"},
		{"set_ramp:years=2,indicator=wages", "unknown indicator"},
		{"set_baseline:", "requires 'name' parameter"},
		{"nope:x=1", "unknown transform"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := registry.ParseTransformSpec(tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestShiftRate_Validate(t *testing.T) {
	base := createTestScenario()

	assert.NoError(t, (&ShiftRate{Indicator: IndicatorInflation, Delta: decimal.NewFromFloat(0.02)}).Validate(base))
	assert.Error(t, (&ShiftRate{Indicator: IndicatorInflation, Delta: decimal.NewFromFloat(0.6)}).Validate(base))
	assert.Error(t, (&ShiftRate{Indicator: "wages", Delta: decimal.NewFromFloat(0.01)}).Validate(base))
	assert.Error(t, (&ShiftRate{Indicator: IndicatorInterest, Delta: decimal.NewFromFloat(0.01)}).Validate(nil))
}

func TestShiftRate_Description(t *testing.T) {
	up := &ShiftRate{Indicator: IndicatorInflation, Delta: decimal.NewFromFloat(0.01)}
	assert.Equal(t, "Shift inflation by +1.00 percentage points", up.Description())
	down := &ShiftRate{Indicator: IndicatorInterest, Delta: decimal.NewFromFloat(-0.015)}
	assert.Equal(t, "Shift interest by -1.50 percentage points", down.Description())
}

func TestSetRate_ClearsPinnedValues(t *testing.T) {
	out, err := (&SetRate{Indicator: IndicatorInflation, Rate: decimal.NewFromFloat(0.07)}).Apply(createTestScenario())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(0.07).Equal(out.Inflation.Target))
	assert.Nil(t, out.Inflation.Values)
}

func TestMortalityTransforms_Validate(t *testing.T) {
	base := createTestScenario()

	assert.Error(t, (&SetMortalityImprovement{Rate: decimal.NewFromFloat(-0.01)}).Validate(base))
	assert.Error(t, (&SetMortalityImprovement{Rate: decimal.NewFromFloat(0.2)}).Validate(base))
	assert.NoError(t, (&SetMortalityImprovement{Rate: decimal.Zero}).Validate(base))

	assert.Error(t, (&ScaleMortalityImprovement{Factor: decimal.NewFromInt(-1)}).Validate(base))
	assert.Error(t, (&ScaleMortalityImprovement{Factor: decimal.NewFromInt(20)}).Validate(base), "0.015 x 20 reaches the cap")

	assert.Error(t, (&SetLongevityGain{Years: decimal.NewFromInt(2)}).Validate(base))
	assert.NoError(t, (&SetLongevityGain{Years: decimal.Zero}).Validate(base))
}

func TestSetRamp_Validate(t *testing.T) {
	base := createTestScenario()
	assert.NoError(t, (&SetRamp{Indicator: IndicatorAll, Years: 0}).Validate(base))
	assert.Error(t, (&SetRamp{Indicator: IndicatorAll, Years: -1}).Validate(base))
	assert.Error(t, (&SetRamp{Indicator: "wages", Years: 3}).Validate(base))
}
