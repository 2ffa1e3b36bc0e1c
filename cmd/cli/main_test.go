package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"currency-converter-live/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runWithFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var cfg *config.Config
	var cfgErr error
	app := &cli.App{
		Name: "converter",
		Commands: []*cli.Command{{
			Name: "watch",
			Flags: append(commonFlags(),
				&cli.DurationFlag{Name: flagInterval, Value: config.DefaultRefreshInterval},
				&cli.BoolFlag{Name: flagLatestOnly},
				&cli.BoolFlag{Name: flagNoAuto},
			),
			Action: func(cCtx *cli.Context) error {
				cfg, cfgErr = configFromFlags(cCtx)
				return nil
			},
		}},
	}
	require.NoError(t, app.Run(append([]string{"converter", "watch"}, args...)))
	return cfg, cfgErr
}

func TestConfigFromFlags_Defaults(t *testing.T) {
	cfg, err := runWithFlags(t)

	require.NoError(t, err)
	assert.Equal(t, "1", cfg.Converter.DefaultAmount.String())
	assert.Equal(t, "EUR", cfg.Converter.DefaultFrom)
	assert.Equal(t, "USD", cfg.Converter.DefaultTo)
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Converter.RefreshInterval)
	assert.Equal(t, config.DefaultAPITimeout, cfg.API.Timeout)
	assert.True(t, cfg.Converter.AutoUpdate)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestConfigFromFlags_Overrides(t *testing.T) {
	cfg, err := runWithFlags(t, "--amount", "250.75", "--from", "gbp", "--to", "jpy", "--interval", "3s", "--latest-only", "--no-auto-update", "-v")

	require.NoError(t, err)
	assert.Equal(t, "250.75", cfg.Converter.DefaultAmount.String())
	assert.Equal(t, "GBP", cfg.Converter.DefaultFrom)
	assert.Equal(t, "JPY", cfg.Converter.DefaultTo)
	assert.Equal(t, 3*time.Second, cfg.Converter.RefreshInterval)
	assert.True(t, cfg.Converter.LatestOnly)
	assert.False(t, cfg.Converter.AutoUpdate)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfigFromFlags_Invalid(t *testing.T) {
	_, err := runWithFlags(t, "--amount", "ten")
	assert.EqualError(t, err, `invalid amount "ten"`)

	_, err = runWithFlags(t, "--to", "CHF")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported currency")
}

func TestConvert_PrintsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/exchange/5-USD/CAD/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"amount":"6.85","currency":"CAD"}`))
	}))
	defer server.Close()

	var out bytes.Buffer
	app := &cli.App{
		Name:   "converter",
		Writer: &out,
		Commands: []*cli.Command{{
			Name:   "convert",
			Flags:  commonFlags(),
			Action: convert,
		}},
	}

	err := app.Run([]string{"converter", "convert", "--amount", "5", "--from", "USD", "--to", "CAD", "--base-url", server.URL + "/exchange"})

	require.NoError(t, err)
	assert.Equal(t, "Result: 6.85 CAD\n", out.String())
}
