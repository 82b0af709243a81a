package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bibbank/bib/services/amortization-service/internal/application/dto"
)

var (
	colorMuted = lipgloss.Color("#6B7280")
	colorWarn  = lipgloss.Color("#F59E0B")

	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarn)
)

var scheduleHeaders = []string{"#", "Date", "Days", "Rate %", "Interest", "Principal", "Payment", "Remaining"}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// scheduleRows flattens the items into table cells. An adjusted final
// payment is marked with an asterisk.
func scheduleRows(resp dto.ScheduleResponse) [][]string {
	rows := make([][]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		payment := it.TotalPayment.String()
		if it.FinalPaymentAdjusted {
			payment += "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(it.Number),
			it.PaymentDate,
			strconv.Itoa(it.Days),
			it.EffectiveRate.String(),
			it.Interest.String(),
			it.Principal.String(),
			payment,
			it.RemainingPrincipal.String(),
		})
	}
	return rows
}

func renderSchedule(w io.Writer, resp dto.ScheduleResponse) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(scheduleHeaders...).
		Rows(scheduleRows(resp)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Payments        %d\n", resp.PaymentCount)
	fmt.Fprintf(&b, "  Total interest  %s\n", resp.TotalInterest)
	fmt.Fprintf(&b, "  Total principal %s\n", resp.TotalPrincipal)
	fmt.Fprintf(&b, "  Total payments  %s\n", resp.TotalPayments)
	if resp.TargetPayment.Valid {
		fmt.Fprintf(&b, "  Level payment   %s\n", resp.TargetPayment.Decimal)
	}
	if resp.ActualFinalPayment.Valid {
		fmt.Fprintf(&b, "  Final payment   %s\n", resp.ActualFinalPayment.Decimal)
	}
	fmt.Fprintf(&b, "  APR             %s %%\n", resp.APR.StringFixed(2))

	for _, warning := range resp.Warnings {
		b.WriteString(warningStyle.Render("warning: " + warning))
		b.WriteString("\n")
	}
	for _, it := range resp.Items {
		for _, warning := range it.Warnings {
			b.WriteString(warningStyle.Render(fmt.Sprintf("warning: payment %d: %s", it.Number, warning)))
			b.WriteString("\n")
		}
	}

	if len(resp.Log) > 0 {
		b.WriteString(titleStyle.Render("Calculation log"))
		b.WriteString("\n")
		for _, e := range resp.Log {
			b.WriteString("  " + e.Description + "\n")
			if e.Formula != "" {
				b.WriteString(mutedStyle.Render("    "+e.Formula) + "\n")
			}
			if e.Substituted != "" {
				b.WriteString(mutedStyle.Render("    "+e.Substituted) + "\n")
			}
			if e.Result != "" {
				b.WriteString("    = " + e.Result + "\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
