package breakeven

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/premcast/internal/domain"
)

// SolveAll solves req for every listed parameter, or every sweepable parameter
// when none are listed. Parameters that cannot reach the target are reported
// in Unreachable; any other failure aborts.
func (s *Solver) SolveAll(ctx context.Context, req SolveRequest, parameters []string) (*MultiResult, error) {
	if len(parameters) == 0 {
		parameters = Parameters()
	}

	out := &MultiResult{Goal: req.Goal, Target: req.Target}
	for _, name := range parameters {
		r := req
		r.Parameter = name
		res, err := s.Solve(ctx, r)
		if errors.Is(err, ErrUnreachable) {
			if out.Unreachable == nil {
				out.Unreachable = make(map[string]string)
			}
			out.Unreachable[name] = err.Error()
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, *res)
	}

	if len(out.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_all",
			Message:   fmt.Sprintf("no parameter reaches %s %s", req.Goal, req.Target),
			Cause:     ErrUnreachable,
		}
	}
	out.Recommendations = generateRecommendations(out)
	return out, nil
}

// Parameters lists the solvable parameter names in a stable order.
func Parameters() []string {
	names := make([]string, 0, len(domain.SensitivityParameters))
	for name := range domain.SensitivityParameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func generateRecommendations(m *MultiResult) []string {
	var recs []string
	for _, r := range m.Results {
		move := FormatValue(r.Unit, r.Value.Sub(r.BaseValue).Abs())
		switch {
		case r.Value.Equal(r.BaseValue):
			recs = append(recs, fmt.Sprintf("%s: the current assumption already meets the target", r.Parameter))
		case r.Value.GreaterThan(r.BaseValue):
			recs = append(recs, fmt.Sprintf("%s: the target is met if it rises by %s to %s", r.Parameter, move, FormatValue(r.Unit, r.Value)))
		default:
			recs = append(recs, fmt.Sprintf("%s: the target is met if it falls by %s to %s", r.Parameter, move, FormatValue(r.Unit, r.Value)))
		}
	}
	if n := len(m.Unreachable); n > 0 {
		recs = append(recs, fmt.Sprintf("%d parameter(s) cannot reach the target within their range on their own", n))
	}
	return recs
}
