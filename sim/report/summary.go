package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/inference-sim/bankqueue/sim"
)

// WriteSummary writes the human-readable summary.txt.
func WriteSummary(w io.Writer, info RunInfo, m *sim.Metrics, charts []Chart) error {
	s := m.Summarize()
	var sb strings.Builder

	sb.WriteString("Bank Queue Simulation Results\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&sb, "Run ID: %s\n", info.RunID)
	fmt.Fprintf(&sb, "Number of customers: %d\n", info.CustomerCount)
	fmt.Fprintf(&sb, "Random seed: %d\n", info.Seed)
	fmt.Fprintf(&sb, "Inter-arrival time: uniform [%g, %g] minutes\n", info.InterArrival.Min, info.InterArrival.Max)
	fmt.Fprintf(&sb, "Service time: uniform [%g, %g] minutes\n", info.Service.Min, info.Service.Max)
	fmt.Fprintf(&sb, "Simulation time: %s\n\n", info.StartedAt.Format("2006-01-02 15:04:05"))

	sb.WriteString("Key Metrics:\n")
	sb.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&sb, "Average Waiting Time: %.2f minutes\n", m.AverageWaitingTime)
	fmt.Fprintf(&sb, "Average System Time: %.2f minutes\n", m.AverageSystemTime)
	fmt.Fprintf(&sb, "Server Utilization: %.2f%%\n", m.ServerUtilization*100)
	fmt.Fprintf(&sb, "Maximum Queue Length: %d customers\n", m.MaxQueueLength)

	sb.WriteString("\nWaiting Time Distribution:\n")
	sb.WriteString(strings.Repeat("-", 26) + "\n")
	fmt.Fprintf(&sb, "P50: %.2f  P90: %.2f  P99: %.2f  Max: %.2f minutes\n",
		s.WaitingTime.P50, s.WaitingTime.P90, s.WaitingTime.P99, s.WaitingTime.Max)
	fmt.Fprintf(&sb, "Customers delayed: %.2f%%\n", s.DelayedFraction*100)

	if len(charts) > 0 {
		sb.WriteString("\nVisualizations Generated:\n")
		sb.WriteString(strings.Repeat("-", 25) + "\n")
		for _, c := range charts {
			fmt.Fprintf(&sb, "- %s: %s\n", c.Name, filepath.Base(c.Path))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
