package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/hasta/internal/corpus"
	"github.com/ayusman/hasta/internal/eval"
	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/history"
)

// Default file locations, relative to the working directory.
const (
	DefaultCorpusDir   = "testdata/gestures"
	DefaultHistoryFile = "eval_history.json"
)

func newEvalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the classifier against the test-case corpus",
	}

	cmd.AddCommand(newEvalRunCommand())
	cmd.AddCommand(newEvalHistoryCommand())

	return cmd
}

func newEvalRunCommand() *cobra.Command {
	var (
		corpusDir   string
		historyFile string
		revision    string
		noSave      bool
		verbose     bool
		workers     int
		configFile  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the classifier over the corpus and report accuracy",
		Long: `Run the classifier over every test case in the corpus.

Prints overall and per-gesture accuracy plus a confusion summary, and
appends the result to the evaluation history unless --no-save is set.
Malformed corpus records are reported and excluded from the accuracy
denominator; they never abort the run.

The exit status is 0 whenever the run completes, regardless of
accuracy. Only a corpus or history I/O failure exits non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := gesture.DefaultConfig()
			if configFile != "" {
				loaded, err := gesture.LoadConfig(configFile)
				if err != nil {
					return fmt.Errorf("load classifier config: %w", err)
				}
				cfg = loaded
			}

			cases, malformed, err := corpus.NewStore(corpusDir).Load()
			if err != nil {
				return err
			}

			if revision == "" {
				revision = time.Now().UTC().Format("20060102-150405")
			}

			harness := eval.NewHarness(gesture.New(cfg))
			harness.SetWorkers(workers)

			report := harness.Run(cases, malformed, revision)
			report.Print(os.Stdout, verbose)

			if noSave {
				return nil
			}
			if err := history.NewStore(historyFile).Append(report.HistoryRecord()); err != nil {
				return fmt.Errorf("save eval record: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusDir, "corpus", DefaultCorpusDir, "Corpus directory of labeled test cases")
	cmd.Flags().StringVar(&historyFile, "history", DefaultHistoryFile, "Evaluation history file")
	cmd.Flags().StringVar(&revision, "revision", "", "Revision id for this run (default: UTC timestamp)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Compute and print the report without saving it")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every case result, not only failures")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of parallel evaluation workers")
	cmd.Flags().StringVar(&configFile, "config", "", "Classifier threshold config file (YAML)")

	return cmd
}

func newEvalHistoryCommand() *cobra.Command {
	var (
		historyFile string
		n           int
		revision    string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved evaluation records",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := history.NewStore(historyFile)

			var (
				records []history.Record
				err     error
			)
			switch {
			case revision != "":
				records, err = store.ByRevision(revision)
				if err == nil && len(records) == 0 {
					return fmt.Errorf("no eval record for revision %q", revision)
				}
			case n > 0:
				records, err = store.Recent(n)
			default:
				records, err = store.Load()
			}
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No evaluation records yet.")
				return nil
			}

			for _, rec := range records {
				printRecord(rec)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&historyFile, "history", DefaultHistoryFile, "Evaluation history file")
	cmd.Flags().IntVarP(&n, "limit", "n", 0, "Show only the N most recent records")
	cmd.Flags().StringVar(&revision, "revision", "", "Show only records for this revision")

	return cmd
}

func printRecord(rec history.Record) {
	fmt.Printf("%s  %-20s %5.1f%%\n",
		rec.Timestamp.Format(time.RFC3339), rec.Revision, rec.OverallAccuracy*100)

	gestures := make([]string, 0, len(rec.PerGesture))
	for g := range rec.PerGesture {
		gestures = append(gestures, g)
	}
	sort.Strings(gestures)
	for _, g := range gestures {
		fmt.Printf("    %-12s %5.1f%%\n", g, rec.PerGesture[g]*100)
	}
}
