package compare

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/premcast/internal/domain"
)

// JSONFormatter renders a ComparisonSet, indented when Pretty is set.
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	if compSet == nil {
		return "", fmt.Errorf("format comparison: %w", domain.ErrNoForecastData)
	}
	marshal := json.Marshal
	if jf.Pretty {
		marshal = func(v interface{}) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	}
	data, err := marshal(compSet)
	if err != nil {
		return "", fmt.Errorf("format comparison %s: %w", compSet.RunID, err)
	}
	return string(data), nil
}
