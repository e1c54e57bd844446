package eval

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ayusman/hasta/internal/corpus"
	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/history"
)

// Report is the aggregated outcome of one evaluation run.
type Report struct {
	Timestamp  time.Time
	Revision   string
	Total      int
	Correct    int
	Results    []CaseResult
	PerGesture map[gesture.Label]GestureAccuracy
	Confusion  map[ConfusionKey]int
	Malformed  []corpus.CaseError
}

// OverallAccuracy returns hits over total, or 0 for an empty corpus.
func (r *Report) OverallAccuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// HistoryRecord converts the report into its persisted history form.
func (r *Report) HistoryRecord() history.Record {
	perGesture := make(map[string]float64, len(r.PerGesture))
	for label, acc := range r.PerGesture {
		perGesture[string(label)] = acc.Accuracy()
	}

	return history.Record{
		Timestamp:       r.Timestamp,
		Revision:        r.Revision,
		OverallAccuracy: r.OverallAccuracy(),
		PerGesture:      perGesture,
	}
}

// Print writes the human-readable report. With verbose set it lists
// every case result, otherwise only the failures. Table ordering is
// fixed regardless of how the run was executed.
func (r *Report) Print(w io.Writer, verbose bool) {
	line := strings.Repeat("=", 50)
	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintln(w, "Hand Gesture Evaluation Results")
	fmt.Fprintf(w, "%s\n\n", line)

	if r.Revision != "" {
		fmt.Fprintf(w, "Revision: %s\n", r.Revision)
	}
	fmt.Fprintf(w, "Test cases: %d", r.Total)
	if len(r.Malformed) > 0 {
		fmt.Fprintf(w, " (%d malformed, excluded)", len(r.Malformed))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Accuracy: %.1f%% (%d/%d)\n\n", r.OverallAccuracy()*100, r.Correct, r.Total)

	fmt.Fprintln(w, "Per-gesture accuracy:")
	for _, label := range gesture.Labels() {
		acc, ok := r.PerGesture[label]
		if !ok {
			continue
		}
		status := "PARTIAL"
		switch {
		case acc.Correct == acc.Total:
			status = "OK"
		case acc.Correct == 0:
			status = "FAIL"
		}
		fmt.Fprintf(w, "  %-12s %2d/%-2d (%5.1f%%) %s\n",
			label, acc.Correct, acc.Total, acc.Accuracy()*100, status)
	}
	fmt.Fprintln(w)

	r.printConfusion(w)

	failures := make([]CaseResult, 0)
	for _, res := range r.Results {
		if !res.Correct {
			failures = append(failures, res)
		}
	}

	switch {
	case verbose:
		fmt.Fprintln(w, "All results:")
		for _, res := range r.Results {
			status := "PASS"
			if !res.Correct {
				status = "FAIL"
			}
			fmt.Fprintf(w, "  [%s] %s: expected %s, got %s (confidence %.2f)\n",
				status, res.ID, res.Expected, res.Predicted, res.Confidence)
		}
	case len(failures) > 0:
		fmt.Fprintf(w, "Failures (%d):\n", len(failures))
		for _, res := range failures {
			fmt.Fprintf(w, "  %s: expected %s, got %s (confidence %.2f)\n",
				res.ID, res.Expected, res.Predicted, res.Confidence)
		}
	default:
		fmt.Fprintln(w, "All tests passed!")
	}

	if len(r.Malformed) > 0 {
		fmt.Fprintf(w, "\nMalformed cases (%d):\n", len(r.Malformed))
		for _, ce := range r.Malformed {
			fmt.Fprintf(w, "  %v\n", ce)
		}
	}
	fmt.Fprintln(w)
}

// printConfusion lists off-diagonal confusion counts in fixed label
// order.
func (r *Report) printConfusion(w io.Writer) {
	labels := gesture.Labels()
	printed := false
	for _, expected := range labels {
		for _, predicted := range labels {
			if expected == predicted {
				continue
			}
			count := r.Confusion[ConfusionKey{Expected: expected, Predicted: predicted}]
			if count == 0 {
				continue
			}
			if !printed {
				fmt.Fprintln(w, "Confusion (expected -> predicted):")
				printed = true
			}
			fmt.Fprintf(w, "  %s -> %s: %d\n", expected, predicted, count)
		}
	}
	if printed {
		fmt.Fprintln(w)
	}
}
