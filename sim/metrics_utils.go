// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes one per-customer quantity across a run.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Summary holds distributions of the per-customer record fields.
type Summary struct {
	WaitingTime     Distribution `json:"waiting_time"`
	SystemTime      Distribution `json:"system_time"`
	ServiceDuration Distribution `json:"service_time"`
	InterArrival    Distribution `json:"inter_arrival_time"`
	// DelayedFraction is the share of customers who waited a positive time.
	DelayedFraction float64 `json:"delayed_fraction"`
}

// CalculatePercentile returns the p-th percentile (0–100) of data using the
// empirical CDF. data need not be sorted; it is not modified.
// Empty data yields NaN.
func CalculatePercentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil)
}

// CalculateMean returns the arithmetic mean, or NaN for empty data.
func CalculateMean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// Describe builds a Distribution over data. Empty data yields NaN fields.
func Describe(data []float64) Distribution {
	if len(data) == 0 {
		nan := math.NaN()
		return Distribution{Mean: nan, StdDev: nan, Min: nan, Max: nan, P50: nan, P90: nan, P99: nan}
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P99:  stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}

// Summarize computes distributions over the run's records.
func (m *Metrics) Summarize() Summary {
	n := len(m.Records)
	waits := make([]float64, 0, n)
	systems := make([]float64, 0, n)
	services := make([]float64, 0, n)
	gaps := make([]float64, 0, n)
	delayed := 0
	for i, r := range m.Records {
		waits = append(waits, r.WaitingTime)
		systems = append(systems, r.SystemTime)
		services = append(services, r.ServiceDuration)
		if i > 0 {
			gaps = append(gaps, r.ArrivalTime-m.Records[i-1].ArrivalTime)
		}
		if r.WaitingTime > 0 {
			delayed++
		}
	}
	s := Summary{
		WaitingTime:     Describe(waits),
		SystemTime:      Describe(systems),
		ServiceDuration: Describe(services),
		InterArrival:    Describe(gaps),
		DelayedFraction: math.NaN(),
	}
	if n > 0 {
		s.DelayedFraction = float64(delayed) / float64(n)
	}
	return s
}

// QueuePoint is the waiting-line length from Time until the next point.
type QueuePoint struct {
	Time   float64
	Length int
}

// QueueLengthTimeline replays records (ordered by ID) and returns the number of
// customers waiting (not in service) after every change, in time order.
//
// A customer joined the line iff the previous customer had not yet departed
// when it arrived; equal times count as not departed, matching the
// arrival-before-departure event order. Joins at a shared instant are applied
// before service starts, so the maximum agrees with Metrics.MaxQueueLength.
func QueueLengthTimeline(records []Record) []QueuePoint {
	type change struct {
		time  float64
		delta int
	}
	changes := make([]change, 0, 2*len(records))
	for i, r := range records {
		if i == 0 || records[i-1].DepartureTime < r.ArrivalTime {
			continue
		}
		changes = append(changes, change{r.ArrivalTime, +1}, change{r.ServiceStart, -1})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].time != changes[j].time {
			return changes[i].time < changes[j].time
		}
		return changes[i].delta > changes[j].delta
	})

	points := []QueuePoint{{Time: 0, Length: 0}}
	length := 0
	for _, c := range changes {
		length += c.delta
		points = append(points, QueuePoint{Time: c.time, Length: length})
	}
	return points
}

// MaxQueueLength returns the largest Length in a timeline.
func MaxQueueLength(points []QueuePoint) int {
	max := 0
	for _, p := range points {
		if p.Length > max {
			max = p.Length
		}
	}
	return max
}
