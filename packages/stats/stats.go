// Package stats summarizes the latency of repeated transactions.
package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder collects transaction latencies. It is not safe for concurrent use.
type Recorder struct {
	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram
	total     int
	errors    int
	statuses  map[int]int
}

// Summary is a snapshot of a Recorder.
type Summary struct {
	Total    int           `json:"total"`
	Errors   int           `json:"errors"`
	Statuses map[int]int   `json:"statuses,omitempty"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
	Mean     time.Duration `json:"mean"`
	P50      time.Duration `json:"p50"`
	P95      time.Duration `json:"p95"`
	P99      time.Duration `json:"p99"`
}

func NewRecorder() *Recorder {
	return &Recorder{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(1, 60_000_000, 3),
		statuses:  make(map[int]int),
	}
}

// Record adds one transaction. Failed transactions count as errors and
// are left out of the latency figures.
func (r *Recorder) Record(status int, d time.Duration, err error) {
	r.total++
	if err != nil {
		r.errors++
		return
	}
	r.statuses[status]++

	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	_ = r.histogram.RecordValue(us)
}

func (r *Recorder) Summary() Summary {
	s := Summary{
		Total:    r.total,
		Errors:   r.errors,
		Statuses: make(map[int]int, len(r.statuses)),
	}
	for code, n := range r.statuses {
		s.Statuses[code] = n
	}
	if r.histogram.TotalCount() == 0 {
		return s
	}

	s.Min = micros(r.histogram.Min())
	s.Max = micros(r.histogram.Max())
	s.Mean = time.Duration(r.histogram.Mean() * float64(time.Microsecond))
	s.P50 = micros(r.histogram.ValueAtQuantile(50))
	s.P95 = micros(r.histogram.ValueAtQuantile(95))
	s.P99 = micros(r.histogram.ValueAtQuantile(99))
	return s
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
