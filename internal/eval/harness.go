// Package eval runs the gesture classifier over the labeled corpus and
// measures its accuracy.
package eval

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/hasta/internal/corpus"
	"github.com/ayusman/hasta/internal/gesture"
)

// CaseResult is the outcome of classifying one test case.
type CaseResult struct {
	ID         string
	Expected   gesture.Label
	Predicted  gesture.Label
	Confidence float64
	Correct    bool
}

// ConfusionKey indexes the confusion tally by (true label, predicted
// label).
type ConfusionKey struct {
	Expected  gesture.Label
	Predicted gesture.Label
}

// GestureAccuracy is the hit count for one ground-truth label.
type GestureAccuracy struct {
	Correct int
	Total   int
}

// Accuracy returns the hit ratio, or 0 for a label with no cases.
func (g GestureAccuracy) Accuracy() float64 {
	if g.Total == 0 {
		return 0
	}
	return float64(g.Correct) / float64(g.Total)
}

// Harness evaluates a classifier against a corpus. Execution may be
// parallelized across workers; aggregation is order-independent and the
// final report ordering is fixed, so results are reproducible either way.
type Harness struct {
	classifier *gesture.Classifier
	workers    int
}

// NewHarness creates a Harness around the given classifier.
func NewHarness(c *gesture.Classifier) *Harness {
	return &Harness{classifier: c, workers: 1}
}

// SetWorkers sets how many test cases are classified concurrently.
// Values below 2 keep the run sequential.
func (h *Harness) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	h.workers = n
}

// Run classifies every test case and aggregates accuracy, per-gesture
// accuracy, and the confusion tally into a Report. Malformed cases are
// carried into the report for visibility but excluded from every
// accuracy denominator. Run never fails: classification itself has no
// error path.
func (h *Harness) Run(cases []corpus.TestCase, malformed []corpus.CaseError, revision string) *Report {
	results := make([]CaseResult, len(cases))

	if h.workers > 1 {
		g := new(errgroup.Group)
		g.SetLimit(h.workers)
		for i, tc := range cases {
			g.Go(func() error {
				results[i] = h.evaluate(tc)
				return nil
			})
		}
		// Workers only write their own slot and never return errors.
		g.Wait()
	} else {
		for i, tc := range cases {
			results[i] = h.evaluate(tc)
		}
	}

	report := &Report{
		Timestamp:  time.Now().UTC(),
		Revision:   revision,
		Results:    results,
		Malformed:  malformed,
		PerGesture: make(map[gesture.Label]GestureAccuracy),
		Confusion:  make(map[ConfusionKey]int),
	}

	for _, r := range results {
		report.Total++
		if r.Correct {
			report.Correct++
		}

		acc := report.PerGesture[r.Expected]
		acc.Total++
		if r.Correct {
			acc.Correct++
		}
		report.PerGesture[r.Expected] = acc

		report.Confusion[ConfusionKey{Expected: r.Expected, Predicted: r.Predicted}]++
	}

	return report
}

func (h *Harness) evaluate(tc corpus.TestCase) CaseResult {
	result := h.classifier.Classify(tc.Hand)
	return CaseResult{
		ID:         tc.ID,
		Expected:   tc.Label,
		Predicted:  result.Label,
		Confidence: result.Confidence,
		Correct:    result.Label == tc.Label,
	}
}
