package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/premcast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	config, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	require.NoError(t, err)

	parser := NewInputParser()
	config, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "valid.yaml")

	validYAML := `
scenarios:
  - id: stagflation
    name: Stagflation
    mortality_improvement: 0.005
    life_expectancy_gain: 0.1
    inflation:
      target: 0.09
      ramp_years: 2
    interest:
      target: 0.045
      values:
        2026: 0.05
    gdp_growth:
      target: 0.01
    economic_baseline: imf

sensitivities:
  interest: -0.1
  mortality: 0.25
  term_longevity: -0.004
  whole_longevity: 0.002
  gdp_growth: -0.04

engine:
  coverage_unit: 50000
  default_country: Nepal
  fallback:
    allow_fallback: true
    economics:
      inflation: 0.05
      interest: 0.06
      gdp_growth: 0.04
`
	require.NoError(t, os.WriteFile(validFile, []byte(validYAML), 0644))

	parser := NewInputParser()
	config, err := parser.LoadFromFile(validFile)
	require.NoError(t, err)
	require.NotNil(t, config)

	require.Len(t, config.Scenarios, 1, "File scenarios replace the built-in set")
	sc := config.Scenarios[0]
	assert.Equal(t, "stagflation", sc.ID)
	assert.Equal(t, "imf", sc.EconomicBaseline)
	assert.True(t, decimal.NewFromFloat(0.09).Equal(sc.Inflation.Target))
	assert.Equal(t, 2, sc.Inflation.RampYears)
	assert.True(t, decimal.NewFromFloat(0.05).Equal(sc.Interest.Values[2026]))

	assert.True(t, decimal.NewFromFloat(-0.1).Equal(config.Sensitivities.Interest))
	assert.True(t, decimal.NewFromInt(50000).Equal(config.Engine.CoverageUnit))
	assert.Equal(t, "Nepal", config.Engine.DefaultCountry)
	require.NotNil(t, config.Engine.Fallback.Economics)
	assert.True(t, config.Engine.Fallback.AllowFallback)

	// sections the file leaves out keep their defaults
	assert.True(t, domain.DefaultRatingConfig().AgeBase.Equal(config.Rating.AgeBase))
	assert.Equal(t, 25, config.Rating.ReferenceAge)
}

func TestInputParser_LoadFromBytes_Empty(t *testing.T) {
	config, err := NewInputParser().LoadFromBytes(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "optimistic", "pessimistic"}, config.ScenarioIDs())
	assert.Equal(t, DefaultCountry, config.Engine.DefaultCountry)
}

func TestInputParser_LoadFromBytes_ValidationFailure(t *testing.T) {
	yamlData := `
scenarios:
  - id: Bad ID
    mortality_improvement: 0.01
`
	config, err := NewInputParser().LoadFromBytes([]byte(yamlData))
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "Bad ID")
}

func TestInputParser_ValidateRating(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name        string
		modify      func(*domain.RatingConfig)
		expectError bool
		errorMsg    string
	}{
		{"defaults", func(r *domain.RatingConfig) {}, false, ""},
		{"zero age base", func(r *domain.RatingConfig) { r.AgeBase = decimal.Zero }, true, "age_base"},
		{"zero age step", func(r *domain.RatingConfig) { r.AgeStep = 0 }, true, "age_step"},
		{"negative male factor", func(r *domain.RatingConfig) { r.MaleFactor = decimal.NewFromInt(-1) }, true, "male_factor"},
		{"inverted smoker clamp", func(r *domain.RatingConfig) {
			r.SmokerMin = decimal.NewFromInt(4)
			r.SmokerMax = decimal.NewFromInt(3)
		}, true, "smoker_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.DefaultRatingConfig()
			tt.modify(&r)
			err := parser.validateRating(&r)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInputParser_ValidateSensitivities(t *testing.T) {
	parser := NewInputParser()

	s := domain.DefaultSensitivities()
	assert.NoError(t, parser.validateSensitivities(&s))

	s = domain.DefaultSensitivities()
	s.WholeLongevity = decimal.NewFromFloat(-0.001)
	assert.Error(t, parser.validateSensitivities(&s))

	s = domain.DefaultSensitivities()
	s.Mortality = decimal.NewFromFloat(1.5)
	err := parser.validateSensitivities(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mortality")
}

func TestInputParser_ValidatePath(t *testing.T) {
	parser := NewInputParser()
	lo, hi := decimal.NewFromFloat(-0.1), decimal.NewFromFloat(0.5)

	ok := domain.EconomicPath{Target: decimal.NewFromFloat(0.05), Values: map[int]decimal.Decimal{2027: decimal.NewFromFloat(0.07)}}
	assert.NoError(t, parser.validatePath("inflation", ok, lo, hi))

	badValue := ok.Copy()
	badValue.Values[2028] = decimal.NewFromInt(2)
	err := parser.validatePath("inflation", badValue, lo, hi)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2028")

	negativeRamp := domain.EconomicPath{Target: decimal.NewFromFloat(0.05), RampYears: -1}
	assert.Error(t, parser.validatePath("inflation", negativeRamp, lo, hi))
}

func TestInputParser_ValidateEngine(t *testing.T) {
	parser := NewInputParser()

	e := domain.DefaultEngineSettings()
	assert.NoError(t, parser.validateEngine(&e))

	e.Fallback.Economics = &domain.EconomicPoint{Inflation: decimal.NewFromFloat(0.05)}
	assert.Error(t, parser.validateEngine(&e), "fallback economics without allow_fallback")

	e.Fallback.AllowFallback = true
	assert.NoError(t, parser.validateEngine(&e))

	e.RampYears = -2
	assert.Error(t, parser.validateEngine(&e))
}

func TestBuiltInScenarios(t *testing.T) {
	scenarios := BuiltInScenarios()
	require.Len(t, scenarios, 3)

	byID := map[string]domain.Scenario{}
	for _, s := range scenarios {
		byID[s.ID] = s
	}
	assert.True(t, byID["optimistic"].Inflation.Target.LessThan(byID["base"].Inflation.Target))
	assert.True(t, byID["pessimistic"].Inflation.Target.GreaterThan(byID["base"].Inflation.Target))
	assert.True(t, byID["optimistic"].MortalityImprovement.GreaterThan(byID["pessimistic"].MortalityImprovement))

	// callers get independent copies
	scenarios[0].ID = "changed"
	assert.Equal(t, "base", BuiltInScenarios()[0].ID)
}

func TestLoadSettings_Defaults(t *testing.T) {
	chdirForTest(t, t.TempDir())

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "data", s.DataDir)
	assert.Equal(t, SourceCSV, s.Source)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, 256, s.CacheSize)
}

func TestLoadSettings_EnvAndFile(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	settingsFile := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settingsFile, []byte("data_dir: /srv/premcast\ncache_size: 32\n"), 0644))
	t.Setenv("PREMCAST_CACHE_SIZE", "64")
	t.Setenv("PREMCAST_LOG_LEVEL", "debug")

	s, err := LoadSettings(settingsFile)
	require.NoError(t, err)
	assert.Equal(t, "/srv/premcast", s.DataDir)
	assert.Equal(t, 64, s.CacheSize, "environment wins over the settings file")
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettings_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PREMCAST_DATA_DIR=from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("PREMCAST_DATA_DIR") })

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", s.DataDir)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"csv ok", Settings{Source: SourceCSV, DataDir: "data", LogFormat: "console"}, false},
		{"csv without dir", Settings{Source: SourceCSV, LogFormat: "console"}, true},
		{"postgres without dsn", Settings{Source: SourcePostgres, LogFormat: "json"}, true},
		{"postgres ok", Settings{Source: SourcePostgres, DSN: "postgres://localhost/premcast", LogFormat: "json"}, false},
		{"unknown source", Settings{Source: "s3", LogFormat: "console"}, true},
		{"unknown format", Settings{Source: SourceCSV, DataDir: "data", LogFormat: "xml"}, true},
		{"negative cache", Settings{Source: SourceCSV, DataDir: "data", LogFormat: "console", CacheSize: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdirForTest changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
