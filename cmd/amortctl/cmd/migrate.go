package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/config"
	pkgpostgres "github.com/bibbank/bib/services/amortization-service/pkg/postgres"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or revert the benchmark rate schema",
	Long:      `Apply or revert the benchmark rate schema on the database named by DB_* variables. DB_MIGRATIONS_PATH selects the migration source.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if !cfg.DB.Enabled() {
		return errors.New("DB_HOST is not set")
	}

	dir := pkgpostgres.Up
	if args[0] == "down" {
		dir = pkgpostgres.Down
	}
	if err := pkgpostgres.RunMigrations(dbConfig(cfg).DSN(), cfg.DB.MigrationsPath, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", args[0], err)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", args[0])
	return err
}
