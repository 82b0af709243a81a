package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
	"github.com/bibbank/bib/services/amortization-service/internal/application/usecase"
)

var aprFile string

var aprCmd = &cobra.Command{
	Use:   "apr",
	Short: "Compute the annual percentage rate of a credit",
	Long: `Compute the annual percentage rate of a credit.

When the request file lists payments, the rate is solved for those cash
flows. Otherwise the schedule is calculated first from rate_periods or the
named benchmark.`,
	Example: `  amortctl apr -f loan.yaml`,
	RunE:    runAPR,
}

func init() {
	aprCmd.Flags().StringVarP(&aprFile, "file", "f", "", "request file (.yaml, .toml or .json)")
	_ = aprCmd.MarkFlagRequired("file") //nolint:errcheck // flag is defined above
	rootCmd.AddCommand(aprCmd)
}

func runAPR(cmd *cobra.Command, _ []string) error {
	var req dto.ComputeAPRRequest
	if err := decodeFile(aprFile, &req); err != nil {
		return err
	}

	d, err := newDeps(cmd.Context())
	if err != nil {
		return err
	}
	defer d.close()

	resp, err := usecase.NewComputeAPRUseCase(d.calculator, d.benchmarks, d.metrics).Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "APR:          %s %%\nDisbursement: %s\nPayments:     %d\n",
		resp.APR.StringFixed(2), resp.Disbursement.String(), resp.PaymentCount)
	return err
}
