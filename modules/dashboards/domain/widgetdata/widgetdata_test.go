package widgetdata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableProvider() Provider {
	return Provider{
		Key:   "findings.overdue",
		Shape: ShapeRows,
		Fetch: func(ctx context.Context, cfg Config) (Data, error) {
			return Data{
				Columns: []string{"title", "severity", "days_overdue"},
				Rows: []map[string]any{
					{"title": "Weak TLS", "severity": "critical", "days_overdue": 12},
					{"title": "Stale accounts", "severity": "high", "days_overdue": 3},
					{"title": "No MFA", "severity": "critical", "days_overdue": 40},
					{"title": "Missing owner", "severity": "low"},
				},
			}, nil
		},
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"limit":5,"days":90,"filter":"severity == 'critical'","currency":"USD"}`))
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Limit)
	require.Equal(t, 90, cfg.DaysOr(30))
	require.Equal(t, 12, cfg.MonthsOr(12))
	require.Equal(t, "severity == 'critical'", cfg.Filter)
	require.Equal(t, "USD", cfg.Get("currency").String())

	cfg, err = ParseConfig([]byte(`{"limit":100000}`))
	require.NoError(t, err)
	require.Equal(t, MaxLimit, cfg.Limit)

	cfg, err = ParseConfig(nil)
	require.NoError(t, err)
	require.Zero(t, cfg.Limit)
	require.False(t, cfg.Get("currency").Exists())

	_, err = ParseConfig([]byte(`[1]`))
	require.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ParseConfig([]byte(`{"limit":`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRegistry_ResolveFiltersAndLimits(t *testing.T) {
	reg := NewRegistry()
	reg.Register(tableProvider())

	cfg, err := ParseConfig([]byte(`{"filter":"severity == 'critical' && days_overdue > 10"}`))
	require.NoError(t, err)
	data, err := reg.Resolve(context.Background(), "findings.overdue", cfg)
	require.NoError(t, err)
	require.Len(t, data.Rows, 2)

	cfg, _ = ParseConfig([]byte(`{"filter":"row.severity != 'low'","limit":1}`))
	data, err = reg.Resolve(context.Background(), "findings.overdue", cfg)
	require.NoError(t, err)
	require.Len(t, data.Rows, 1)
	require.Equal(t, "Weak TLS", data.Rows[0]["title"])
}

func TestRegistry_ResolveErrors(t *testing.T) {
	reg := NewRegistry()
	reg.Register(tableProvider(), Provider{
		Key: "broken",
		Fetch: func(context.Context, Config) (Data, error) {
			return Data{}, errors.New("database down")
		},
	})

	_, err := reg.Resolve(context.Background(), "missing", Config{})
	require.ErrorIs(t, err, ErrUnknownProvider)

	_, err = reg.Resolve(context.Background(), "broken", Config{})
	require.ErrorContains(t, err, "database down")

	_, err = reg.Resolve(context.Background(), "findings.overdue", Config{Filter: "severity"})
	require.ErrorContains(t, err, "boolean")

	_, err = reg.Resolve(context.Background(), "findings.overdue", Config{Filter: "unknown_column == 1"})
	require.Error(t, err)

	require.Equal(t, []string{"broken", "findings.overdue"}, []string{reg.List()[0].Key, reg.List()[1].Key})
}

func TestCheckSyntax(t *testing.T) {
	require.NoError(t, CheckSyntax("severity == 'critical'"))
	require.Error(t, CheckSyntax("severity == "))
}
