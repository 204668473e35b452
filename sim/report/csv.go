package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/inference-sim/bankqueue/sim"
)

// recordsHeader is the column layout of customer_data.csv.
var recordsHeader = []string{
	"id", "arrival_time", "service_start", "service_time", "waiting_time", "departure_time", "time_in_system",
}

// WriteRecordsCSV writes one row per customer, in ID order.
func WriteRecordsCSV(w io.Writer, records []sim.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordsHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			formatFloat(r.ArrivalTime),
			formatFloat(r.ServiceStart),
			formatFloat(r.ServiceDuration),
			formatFloat(r.WaitingTime),
			formatFloat(r.DepartureTime),
			formatFloat(r.SystemTime),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat uses the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
