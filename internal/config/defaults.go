package config

import (
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCountry is the market the bundled data describes.
const DefaultCountry = "India"

// BuiltInScenarios returns the base, optimistic and pessimistic outlooks.
func BuiltInScenarios() []domain.Scenario {
	gain := decimal.NewFromFloat(0.15)
	return []domain.Scenario{
		{
			ID:                   "base",
			Name:                 "Base Case",
			Description:          "Steady inflation and rates with moderate mortality improvement",
			MortalityImprovement: decimal.NewFromFloat(0.015),
			LifeExpectancyGain:   gain,
			Inflation:            domain.EconomicPath{Target: decimal.NewFromFloat(0.05)},
			Interest:             domain.EconomicPath{Target: decimal.NewFromFloat(0.065)},
			GDPGrowth:            domain.EconomicPath{Target: decimal.NewFromFloat(0.06)},
		},
		{
			ID:                   "optimistic",
			Name:                 "Optimistic",
			Description:          "Lower inflation, higher rates and faster mortality improvement",
			MortalityImprovement: decimal.NewFromFloat(0.02),
			LifeExpectancyGain:   gain,
			Inflation:            domain.EconomicPath{Target: decimal.NewFromFloat(0.04)},
			Interest:             domain.EconomicPath{Target: decimal.NewFromFloat(0.075)},
			GDPGrowth:            domain.EconomicPath{Target: decimal.NewFromFloat(0.07)},
		},
		{
			ID:                   "pessimistic",
			Name:                 "Pessimistic",
			Description:          "Higher inflation, lower rates and slower mortality improvement",
			MortalityImprovement: decimal.NewFromFloat(0.01),
			LifeExpectancyGain:   gain,
			Inflation:            domain.EconomicPath{Target: decimal.NewFromFloat(0.06)},
			Interest:             domain.EconomicPath{Target: decimal.NewFromFloat(0.055)},
			GDPGrowth:            domain.EconomicPath{Target: decimal.NewFromFloat(0.045)},
		},
	}
}

// DefaultConfiguration returns the built-in scenarios with the standard rating
// and sensitivity coefficients.
func DefaultConfiguration() *domain.Configuration {
	engine := domain.DefaultEngineSettings()
	engine.DefaultCountry = DefaultCountry
	return &domain.Configuration{
		Scenarios:     BuiltInScenarios(),
		Rating:        domain.DefaultRatingConfig(),
		Sensitivities: domain.DefaultSensitivities(),
		Engine:        engine,
	}
}
