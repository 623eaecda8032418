package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rgehrsitz/premcast/internal/domain"
)

// Querier is the subset of *pgxpool.Pool the Postgres source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Every column is cast to text so the CSV parsers can be shared.
var postgresQueries = []struct {
	table string
	sql   string
}{
	{"mortality_data", `
		SELECT year::text, country, gender, age::text, smoking_status,
		       mortality_rate::text, life_expectancy::text
		FROM mortality_data
		ORDER BY country, year, age`},
	{"economic_data", `
		SELECT COALESCE(baseline, ''), year::text, country,
		       inflation_rate::text, interest_rate::text, gdp_growth::text
		FROM economic_data
		ORDER BY baseline, country, year`},
	{"base_premiums", `
		SELECT country, "group", gender, age::text, policy_type, smoking_status,
		       premium_per_unit::text
		FROM base_premiums`},
	{"demographic_distribution", `
		SELECT country, "group", gender, age::text, policy_type, smoking_status,
		       sum_insured::text, policy_count::text
		FROM demographic_distribution`},
}

var postgresColumns = map[string][]string{
	"mortality_data":           {"year", "country", "gender", "age", "smoking_status", "mortality_rate", "life_expectancy"},
	"economic_data":            {"baseline", "year", "country", "inflation_rate", "interest_rate", "gdp_growth"},
	"base_premiums":            {"country", "group", "gender", "age", "policy_type", "smoking_status", "premium_per_unit"},
	"demographic_distribution": {"country", "group", "gender", "age", "policy_type", "smoking_status", "sum_insured", "policy_count"},
}

// PostgresSource reads the dataset from the four tables of a Postgres schema.
// economic_data carries a baseline column; the empty baseline is the default.
type PostgresSource struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewPostgresSource wraps an existing connection.
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgres connects to dsn with a pgx pool.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSource, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &PostgresSource{db: pool, pool: pool}, nil
}

// Close releases the pool opened by OpenPostgres.
func (s *PostgresSource) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Load queries every table and validates the result.
func (s *PostgresSource) Load(ctx context.Context) (*domain.Dataset, error) {
	loaded := make(map[string]*records, len(postgresQueries))
	for _, q := range postgresQueries {
		r, err := s.query(ctx, q.table, q.sql)
		if err != nil {
			return nil, err
		}
		loaded[q.table] = r
	}
	return assemble(tables{
		mortality:  loaded["mortality_data"],
		economics:  []*records{loaded["economic_data"]},
		rates:      loaded["base_premiums"],
		population: loaded["demographic_distribution"],
	})
}

func (s *PostgresSource) query(ctx context.Context, table, sql string) (*records, error) {
	cols := postgresColumns[table]
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		row := make([]string, len(cols))
		dest := make([]any, len(cols))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return newRecords(table, cols, out), nil
}
