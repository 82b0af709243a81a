package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/port"
	"github.com/bibbank/bib/services/amortization-service/internal/domain/service"
	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/config"
	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/metrics"
	pgRepo "github.com/bibbank/bib/services/amortization-service/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/bib/services/amortization-service/pkg/observability"
	pkgpostgres "github.com/bibbank/bib/services/amortization-service/pkg/postgres"
)

var (
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "amortctl",
	Short: "Loan amortization calculator",
	Long: `amortctl calculates repayment schedules and annual percentage rates
from request files, without a running amortization-service.

Requests are read from YAML, TOML or JSON files. Calculation limits and
the optional benchmark rate database are taken from the same environment
variables the service uses (CALC_*, DB_*).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "table", "output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
}

func newLogger() *slog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return observability.InitLogger(observability.LogConfig{
		Level:   level,
		Format:  "text",
		Output:  os.Stderr,
		Service: "amortctl",
	})
}

// deps is what every calculation command needs.
type deps struct {
	calculator *service.ScheduleCalculator
	benchmarks port.BenchmarkRateRepository
	metrics    port.CalculationMetrics
	logger     *slog.Logger
	close      func()
}

// newDeps builds the calculator from the environment. The benchmark store is
// only opened when DB_HOST is set.
func newDeps(ctx context.Context) (*deps, error) {
	cfg := config.Load()
	logger := newLogger()

	recorder, err := metrics.NewRecorder(noop.NewMeterProvider())
	if err != nil {
		return nil, fmt.Errorf("create metric instruments: %w", err)
	}

	d := &deps{
		calculator: service.NewScheduleCalculator(cfg.Calculation),
		metrics:    recorder,
		logger:     logger,
		close:      func() {},
	}

	if cfg.DB.Enabled() {
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := pkgpostgres.NewPool(dbCtx, dbConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		d.benchmarks = pgRepo.NewBenchmarkRateRepo(pool)
		d.close = pool.Close
		logger.Debug("benchmark rate store connected", "host", cfg.DB.Host)
	}
	return d, nil
}

func dbConfig(cfg config.Config) pkgpostgres.Config {
	return pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
}
