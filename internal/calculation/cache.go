package calculation

import (
	"fmt"

	json "github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru"
	"github.com/rgehrsitz/premcast/internal/domain"
)

// DefaultCacheSize bounds the number of cached forecasts and comparisons.
const DefaultCacheSize = 256

// CachedForecaster memoizes Forecast and Compare results by request. Cached
// values are copied on the way in and out so callers can never alter them.
// Errors are not cached.
type CachedForecaster struct {
	inner *Forecaster
	cache *lru.Cache
}

// NewCachedForecaster wraps a forecaster with an LRU cache of the given size.
func NewCachedForecaster(inner *Forecaster, size int) (*CachedForecaster, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast cache: %w", err)
	}
	return &CachedForecaster{inner: inner, cache: cache}, nil
}

// Forecaster returns the wrapped forecaster.
func (c *CachedForecaster) Forecaster() *Forecaster {
	return c.inner
}

// Len returns the number of cached entries.
func (c *CachedForecaster) Len() int {
	return c.cache.Len()
}

// Forecast returns a cached result for an identical request or computes one.
func (c *CachedForecaster) Forecast(req domain.ForecastRequest) (*domain.ForecastResult, error) {
	key, err := cacheKey("forecast", req)
	if err != nil {
		return c.inner.Forecast(req)
	}
	if v, ok := c.cache.Get(key); ok {
		return cloneResult(v.(*domain.ForecastResult)), nil
	}

	res, err := c.inner.Forecast(req)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cloneResult(res))
	return res, nil
}

// Compare returns a cached comparison for an identical request or computes one.
func (c *CachedForecaster) Compare(req domain.CompareRequest) (*domain.Comparison, error) {
	key, err := cacheKey("compare", req)
	if err != nil {
		return c.inner.Compare(req)
	}
	if v, ok := c.cache.Get(key); ok {
		return cloneComparison(v.(*domain.Comparison)), nil
	}

	cmp, err := c.inner.Compare(req)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cloneComparison(cmp))
	return cmp, nil
}

func cacheKey(kind string, req interface{}) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return kind + ":" + string(b), nil
}

func cloneResult(r *domain.ForecastResult) *domain.ForecastResult {
	out := *r
	out.Points = append([]domain.ForecastPoint(nil), r.Points...)
	out.Issues = append([]domain.SegmentIssue(nil), r.Issues...)
	return &out
}

func cloneComparison(c *domain.Comparison) *domain.Comparison {
	out := &domain.Comparison{
		Points:   append([]domain.ForecastPoint(nil), c.Points...),
		Failures: append([]domain.ScenarioFailure(nil), c.Failures...),
	}
	out.Results = make([]domain.ForecastResult, len(c.Results))
	for i := range c.Results {
		out.Results[i] = *cloneResult(&c.Results[i])
	}
	return out
}
