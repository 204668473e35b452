package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	sim "github.com/inference-sim/bankqueue/sim"
	"github.com/inference-sim/bankqueue/sim/report"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgWhite)
	valueColor  = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

// printRunSummary writes the console summary of one run.
func printRunSummary(w io.Writer, info report.RunInfo, m *sim.Metrics, dir string, wall time.Duration) {
	headerColor.Fprintln(w, "=== Simulation Metrics ===")
	printKV(w, "Run ID", info.RunID)
	printKV(w, "Seed", fmt.Sprintf("%d", info.Seed))
	printKV(w, "Customers served", fmt.Sprintf("%d", m.CustomersServed))
	printKV(w, "Average waiting time", fmt.Sprintf("%.2f minutes", m.AverageWaitingTime))
	printKV(w, "Average system time", fmt.Sprintf("%.2f minutes", m.AverageSystemTime))
	printKV(w, "Server utilization", fmt.Sprintf("%.2f%%", m.ServerUtilization*100))
	printKV(w, "Maximum queue length", fmt.Sprintf("%d customers", m.MaxQueueLength))
	printKV(w, "Simulation ended at", fmt.Sprintf("%.2f minutes", m.SimEndedTime))
	printKV(w, "Wall time", wall.Round(time.Millisecond).String())
	if m.CustomersServed == 0 {
		warnColor.Fprintln(w, "No customers were served; averages are undefined.")
	}
	fmt.Fprintf(w, "\nResults saved to: %s\n", dir)
}

func printKV(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "%-22s ", label+":")
	valueColor.Fprintln(w, value)
}
