package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/premcast/internal/breakeven"
	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/sahilm/fuzzy"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// hints turns engine sentinels into a sentence the user can act on. The first
// match wins, so more specific errors come first.
var hints = []struct {
	err  error
	hint string
}{
	{domain.ErrUnknownScenario, "run 'premcast scenarios' to list the configured scenarios"},
	{domain.ErrNoMatchingSegments, "no population cells match the filters; loosen --gender, --age-min and the other segment flags"},
	{domain.ErrNoForecastData, "every scenario in the comparison failed"},
	{domain.ErrInvalidHorizon, "check --start, --end and --base-year"},
	{domain.ErrInvalidCoverage, "--coverage must be a positive sum insured"},
	{domain.ErrDataUnavailable, "the dataset does not cover this request; try --allow-fallback or 'premcast data summary'"},
	{domain.ErrUnknownSegment, "a selected segment has no base rate in base_premiums"},
	{breakeven.ErrUnreachable, "widen the search with --min and --max, or pick a closer target"},
	{domain.ErrInvalidRequest, "run the command with --help for valid values"},
}

// describeError appends a hint to err's message when it wraps a known sentinel.
func describeError(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.err) {
			return fmt.Sprintf("%s\nHint: %s", err, h.hint)
		}
	}
	return err.Error()
}

// suggest returns the closest candidate to input, if any is close enough.
func suggest(input string, candidates []string) (string, bool) {
	if input == "" {
		return "", false
	}
	matches := fuzzy.Find(strings.ToLower(input), candidates)
	if len(matches) > 0 {
		return matches[0].Str, true
	}
	// fuzzy needs every input rune in order; retry the other way round for
	// inputs longer than the intended name.
	for _, c := range candidates {
		if len(fuzzy.Find(c, []string{strings.ToLower(input)})) > 0 {
			return c, true
		}
	}
	return "", false
}

func unknownChoice(kind, input string, candidates []string) error {
	msg := fmt.Sprintf("unknown %s %q", kind, input)
	if s, ok := suggest(input, candidates); ok {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return fmt.Errorf("%w: %s; valid: %s", domain.ErrInvalidRequest, msg, strings.Join(candidates, ", "))
}

func unknownScenario(id string, ids []string) error {
	err := &domain.ForecastError{Op: "lookup", Scenario: id, Err: domain.ErrUnknownScenario}
	if s, ok := suggest(id, ids); ok {
		err.Reason = fmt.Sprintf("did you mean %q?", s)
	}
	return err
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
