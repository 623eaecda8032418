package calculation

import (
	"fmt"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
)

// Projector extends historical series over a forecast horizon.
type Projector struct {
	// RampYears is used by economic paths that leave RampYears unset.
	RampYears int
}

// NewProjector creates a projector with the given default ramp length.
func NewProjector(rampYears int) *Projector {
	if rampYears <= 0 {
		rampYears = 3
	}
	return &Projector{RampYears: rampYears}
}

// ProjectMortality returns one point per year in [startYear, endYear]. Years
// covered by history are returned unchanged; later years compound the
// scenario's improvement rate from the last observation and add its life
// expectancy gain each year.
func (p *Projector) ProjectMortality(history []domain.MortalityPoint, scenario *domain.Scenario, startYear, endYear int) ([]domain.MortalityPoint, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("mortality series is empty: %w", domain.ErrDataUnavailable)
	}
	if startYear < history[0].Year {
		return nil, fmt.Errorf("mortality series starts in %d, after %d: %w", history[0].Year, startYear, domain.ErrDataUnavailable)
	}

	byYear := make(map[int]domain.MortalityPoint, len(history))
	for _, pt := range history {
		byYear[pt.Year] = pt
	}
	last := history[len(history)-1]
	decay := decimal.NewFromInt(1).Sub(scenario.MortalityImprovement)

	out := make([]domain.MortalityPoint, 0, endYear-startYear+1)
	for y := startYear; y <= endYear && y <= last.Year; y++ {
		pt, ok := byYear[y]
		if !ok {
			return nil, fmt.Errorf("mortality series has no observation for %d: %w", y, domain.ErrDataUnavailable)
		}
		out = append(out, pt)
	}

	rate := last.RatePer1000
	le := last.LifeExpectancy
	for y := last.Year + 1; y <= endYear; y++ {
		rate = rate.Mul(decay)
		le = le.Add(scenario.LifeExpectancyGain)
		if y >= startYear {
			out = append(out, domain.MortalityPoint{Year: y, RatePer1000: rate, LifeExpectancy: le})
		}
	}
	return out, nil
}

// ProjectEconomics returns one point per year in [startYear, endYear]. Years
// covered by history are returned unchanged; each indicator of a later year
// follows its scenario path seeded with the last observation.
func (p *Projector) ProjectEconomics(history []domain.EconomicPoint, scenario *domain.Scenario, startYear, endYear int) ([]domain.EconomicPoint, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("economic series is empty: %w", domain.ErrDataUnavailable)
	}
	if startYear < history[0].Year {
		return nil, fmt.Errorf("economic series starts in %d, after %d: %w", history[0].Year, startYear, domain.ErrDataUnavailable)
	}

	byYear := make(map[int]domain.EconomicPoint, len(history))
	for _, pt := range history {
		byYear[pt.Year] = pt
	}
	last := history[len(history)-1]

	out := make([]domain.EconomicPoint, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		if y <= last.Year {
			pt, ok := byYear[y]
			if !ok {
				return nil, fmt.Errorf("economic series has no observation for %d: %w", y, domain.ErrDataUnavailable)
			}
			out = append(out, pt)
			continue
		}
		ahead := y - last.Year
		out = append(out, domain.EconomicPoint{
			Year:      y,
			Inflation: p.pathValue(scenario.Inflation, last.Inflation, y, ahead),
			Interest:  p.pathValue(scenario.Interest, last.Interest, y, ahead),
			GDPGrowth: p.pathValue(scenario.GDPGrowth, last.GDPGrowth, y, ahead),
		})
	}
	return out, nil
}

// pathValue resolves one indicator for a projected year. Explicit values win,
// then the path function, then a linear ramp from seed to target.
func (p *Projector) pathValue(path domain.EconomicPath, seed decimal.Decimal, year, ahead int) decimal.Decimal {
	if v, ok := path.Values[year]; ok {
		return v
	}
	if path.Fn != nil {
		return path.Fn(seed, ahead)
	}
	ramp := path.RampYears
	if ramp <= 0 {
		ramp = p.RampYears
	}
	if ramp <= 0 || ahead >= ramp {
		return path.Target
	}
	step := path.Target.Sub(seed).Mul(decimal.NewFromInt(int64(ahead))).Div(decimal.NewFromInt(int64(ramp)))
	return seed.Add(step)
}
