package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"currency-converter-live/internal/app"
	"currency-converter-live/internal/config"
	"currency-converter-live/internal/console"
	"currency-converter-live/internal/converter"
	"currency-converter-live/internal/presenter"

	"github.com/shopspring/decimal"
	"github.com/tebeka/atexit"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Updated via external tools
const cliAppVersion = "0.3.0"

const (
	flagAmount     = "amount"
	flagFrom       = "from"
	flagTo         = "to"
	flagInterval   = "interval"
	flagBaseURL    = "base-url"
	flagTimeout    = "timeout"
	flagLatestOnly = "latest-only"
	flagNoAuto     = "no-auto-update"
	flagVerbose    = "verbose"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagAmount, Aliases: []string{"a"}, Value: "1", Usage: "amount to convert", EnvVars: []string{"DEFAULT_AMOUNT"}},
		&cli.StringFlag{Name: flagFrom, Aliases: []string{"f"}, Value: "EUR", Usage: "source currency", EnvVars: []string{"DEFAULT_FROM"}},
		&cli.StringFlag{Name: flagTo, Aliases: []string{"t"}, Value: "USD", Usage: "target currency", EnvVars: []string{"DEFAULT_TO"}},
		&cli.StringFlag{Name: flagBaseURL, Value: config.DefaultBaseURL, Usage: "exchange API root", EnvVars: []string{"EXCHANGE_API_URL"}},
		&cli.DurationFlag{Name: flagTimeout, Value: config.DefaultAPITimeout, Usage: "HTTP timeout", EnvVars: []string{"API_TIMEOUT"}},
		&cli.BoolFlag{Name: flagVerbose, Aliases: []string{"v"}, Usage: "debug logging", EnvVars: []string{"CLI_VERBOSE"}},
	}
}

func main() {
	if err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cliApp := &cli.App{
		Name:    "converter",
		Usage:   "live currency converter",
		Version: cliAppVersion,
		Commands: []*cli.Command{
			{
				Name:  "watch",
				Usage: "interactive converter with auto update",
				Flags: append(commonFlags(),
					&cli.DurationFlag{Name: flagInterval, Aliases: []string{"i"}, Value: config.DefaultRefreshInterval, Usage: "auto update interval", EnvVars: []string{"REFRESH_INTERVAL"}},
					&cli.BoolFlag{Name: flagLatestOnly, Usage: "ignore responses superseded by a newer request", EnvVars: []string{"LATEST_ONLY"}},
					&cli.BoolFlag{Name: flagNoAuto, Usage: "do not start auto update"},
				),
				Action: watch,
			},
			{
				Name:   "convert",
				Usage:  "fetch one conversion and exit",
				Flags:  commonFlags(),
				Action: convert,
			},
		},
	}

	// cli.Exit должен проходить через atexit, иначе Close не вызовется
	cli.OsExiter = atexit.Exit

	if err := cliApp.Run(os.Args); err != nil {
		atexit.Fatal(err)
	}
	atexit.Exit(0)
}

// configFromFlags собирает конфигурацию только из флагов и окружения
func configFromFlags(cCtx *cli.Context) (*config.Config, error) {
	amount, err := decimal.NewFromString(cCtx.String(flagAmount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", cCtx.String(flagAmount))
	}
	from, err := console.ParseCurrency(cCtx.String(flagFrom))
	if err != nil {
		return nil, err
	}
	to, err := console.ParseCurrency(cCtx.String(flagTo))
	if err != nil {
		return nil, err
	}

	cfg := config.FromEnv()
	cfg.API.BaseURL = cCtx.String(flagBaseURL)
	cfg.API.Timeout = cCtx.Duration(flagTimeout)
	cfg.Converter.DefaultAmount = amount
	cfg.Converter.DefaultFrom = from.String()
	cfg.Converter.DefaultTo = to.String()
	if interval := cCtx.Duration(flagInterval); interval > 0 {
		cfg.Converter.RefreshInterval = interval
	}
	cfg.Converter.LatestOnly = cCtx.Bool(flagLatestOnly)
	cfg.Converter.AutoUpdate = !cCtx.Bool(flagNoAuto)
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "warn"
	if cCtx.Bool(flagVerbose) {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := app.NewLogger(&cfg.Logging)
	if err != nil {
		atexit.Fatal(err)
	}
	atexit.Register(func() { _ = logger.Sync() })
	return logger
}

func watch(cCtx *cli.Context) error {
	cfg, err := configFromFlags(cCtx)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	logger := newLogger(cfg)

	term := presenter.NewTerminal(os.Stdout)
	loop := converter.NewLoop(64)
	client := app.NewClient(cfg, logger, term.Observers(), converter.WithDispatcher(loop))
	atexit.Register(client.Close)
	defer client.Close()

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	term.Info("Converting %s %s -> %s, type help for commands", cfg.Converter.DefaultAmount, cfg.Converter.DefaultFrom, cfg.Converter.DefaultTo)

	con := console.New(client, term)
	go func() {
		if err := con.Run(ctx, os.Stdin, loop); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Input closed", zap.Error(err))
		}
		loop.Stop()
	}()

	loop.Dispatch(func() {
		client.Refresh()
		if cfg.Converter.AutoUpdate {
			client.StartAutoUpdate()
		}
	})

	// Главный цикл: все вызовы клиента и колбэки выполняются здесь
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func convert(cCtx *cli.Context) error {
	cfg, err := configFromFlags(cCtx)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	logger := newLogger(cfg)

	results := make(chan string, 1)
	failures := make(chan string, 1)
	client := app.NewClient(cfg, logger, converter.Observers{
		OnResultUpdated: func(text string) { results <- text },
		OnErrorOccurred: func(message string) { failures <- message },
	})
	defer client.Close()

	client.Refresh()

	select {
	case text := <-results:
		fmt.Fprintln(cCtx.App.Writer, text)
		return nil
	case message := <-failures:
		return cli.Exit(message, 1)
	case <-cCtx.Context.Done():
		return cCtx.Context.Err()
	}
}
