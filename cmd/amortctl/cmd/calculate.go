package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/application/usecase"
	"github.com/bibbank/bib/services/amortization-service/internal/infrastructure/kafka"
)

var (
	calculateFile string
	calculateLog  bool
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate a repayment schedule",
	Long: `Calculate a repayment schedule from a request file.

The file holds the credit terms and either inline rate_periods or the
name of a stored benchmark:

  credit:
    principal: 10000
    margin_rate: 1.5
    frequency: MONTHLY
    payment_day: FIRST
    start_date: 2024-01-01
    end_date: 2025-01-01
    day_count: ACT_365
    rounding_mode: HALF_EVEN
    rounding_decimals: 4
    repayment_type: EQUAL_INSTALLMENTS
    interest_mode: SIMPLE_DAILY
  rate_periods:
    - {date_from: 2024-01-01, date_to: 2025-01-01, base_rate: 3.5}`,
	Example: `  amortctl calculate -f loan.yaml
  amortctl calculate -f loan.toml --log -o json`,
	RunE: runCalculate,
}

func init() {
	calculateCmd.Flags().StringVarP(&calculateFile, "file", "f", "", "request file (.yaml, .toml or .json)")
	calculateCmd.Flags().BoolVar(&calculateLog, "log", false, "include the narrative calculation log")
	_ = calculateCmd.MarkFlagRequired("file") //nolint:errcheck // flag is defined above
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, _ []string) error {
	var req dto.CalculateScheduleRequest
	if err := decodeFile(calculateFile, &req); err != nil {
		return err
	}
	if calculateLog {
		req.IncludeLog = true
	}

	d, err := newDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	uc := usecase.NewCalculateScheduleUseCase(d.calculator, d.benchmarks,
		kafka.NewLogEventPublisher(d.logger), d.metrics, d.logger)
	resp, err := uc.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	return renderSchedule(cmd.OutOrStdout(), resp)
}
