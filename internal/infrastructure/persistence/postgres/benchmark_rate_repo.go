package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/amortization-service/internal/domain/model"
	pkgpostgres "github.com/bibbank/bib/services/amortization-service/pkg/postgres"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pkgpostgres.Querier
	pkgpostgres.TxBeginner
}

// BenchmarkRateRepo implements port.BenchmarkRateRepository.
type BenchmarkRateRepo struct {
	db DB
}

// NewBenchmarkRateRepo creates a new PostgreSQL-backed benchmark repository.
func NewBenchmarkRateRepo(db DB) *BenchmarkRateRepo {
	return &BenchmarkRateRepo{db: db}
}

// Save replaces the benchmark header and all of its periods in one transaction.
func (r *BenchmarkRateRepo) Save(ctx context.Context, rates model.BenchmarkRates) error {
	return pkgpostgres.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		headerQuery := `
			INSERT INTO benchmark_rates (tenant_id, name, updated_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (tenant_id, name) DO UPDATE SET
				updated_at = EXCLUDED.updated_at
		`
		if _, err := tx.Exec(ctx, headerQuery, rates.TenantID, rates.Name, rates.UpdatedAt); err != nil {
			return fmt.Errorf("save benchmark: %w", err)
		}

		deleteQuery := `DELETE FROM benchmark_rate_periods WHERE tenant_id = $1 AND name = $2`
		if _, err := tx.Exec(ctx, deleteQuery, rates.TenantID, rates.Name); err != nil {
			return fmt.Errorf("clear benchmark periods: %w", err)
		}

		periodQuery := `
			INSERT INTO benchmark_rate_periods (tenant_id, name, date_from, date_to, base_rate)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, p := range rates.Periods {
			if _, err := tx.Exec(ctx, periodQuery,
				rates.TenantID, rates.Name, p.DateFrom, p.DateTo, p.BaseRate,
			); err != nil {
				return fmt.Errorf("save benchmark period %s: %w", model.FormatDate(p.DateFrom), err)
			}
		}
		return nil
	})
}

// FindByName loads a benchmark and its periods ordered by start date.
func (r *BenchmarkRateRepo) FindByName(ctx context.Context, tenantID, name string) (model.BenchmarkRates, error) {
	headerQuery := `
		SELECT updated_at
		FROM benchmark_rates
		WHERE tenant_id = $1 AND name = $2
	`
	var updatedAt time.Time
	if err := r.db.QueryRow(ctx, headerQuery, tenantID, name).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BenchmarkRates{}, fmt.Errorf("benchmark %q: %w", name, model.ErrBenchmarkNotFound)
		}
		return model.BenchmarkRates{}, fmt.Errorf("query benchmark: %w", err)
	}

	periodQuery := `
		SELECT date_from, date_to, base_rate
		FROM benchmark_rate_periods
		WHERE tenant_id = $1 AND name = $2
		ORDER BY date_from
	`
	rows, err := r.db.Query(ctx, periodQuery, tenantID, name)
	if err != nil {
		return model.BenchmarkRates{}, fmt.Errorf("query benchmark periods: %w", err)
	}
	defer rows.Close()

	var periods []model.RatePeriod
	for rows.Next() {
		var (
			from, to time.Time
			rate     decimal.Decimal
		)
		if err := rows.Scan(&from, &to, &rate); err != nil {
			return model.BenchmarkRates{}, fmt.Errorf("scan benchmark period: %w", err)
		}
		periods = append(periods, model.RatePeriod{DateFrom: model.Date(from), DateTo: model.Date(to), BaseRate: rate})
	}
	if err := rows.Err(); err != nil {
		return model.BenchmarkRates{}, fmt.Errorf("iterate benchmark periods: %w", err)
	}

	return model.BenchmarkRates{
		TenantID:  tenantID,
		Name:      name,
		Periods:   periods,
		UpdatedAt: updatedAt.UTC(),
	}, nil
}
