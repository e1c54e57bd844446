package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ayusman/hasta/internal/corpus"
	"github.com/ayusman/hasta/internal/store"
)

func newPromoteCommand() *cobra.Command {
	var (
		dbPath    string
		corpusDir string
	)

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote staged samples into the evaluation corpus",
		Long: `Promote pending samples from the staging database into the corpus.

Each sample becomes its own case directory holding case.json and the
captured screenshot. Promoted samples stay in the database, marked so
they are not promoted twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("open staging store: %w", err)
			}
			defer st.Close()

			pending, err := st.Samples().List(true)
			if err != nil {
				return fmt.Errorf("list pending samples: %w", err)
			}
			if len(pending) == 0 {
				fmt.Println("No pending samples.")
				return nil
			}

			corpusStore := corpus.NewStore(corpusDir)
			promoted := 0

			for _, sample := range pending {
				tc := corpus.TestCase{
					ID:         sample.ID,
					Label:      sample.Gesture,
					Hand:       sample.Hand,
					CapturedAt: sample.CreatedAt,
				}
				if sample.ImagePath != "" {
					tc.ImagePath = "screenshot.jpg"
				}

				if err := corpusStore.Append(tc); err != nil {
					return fmt.Errorf("promote sample %s: %w", sample.ID, err)
				}

				if sample.ImagePath != "" {
					dst := filepath.Join(corpusDir, tc.ID, "screenshot.jpg")
					if err := copyFile(sample.ImagePath, dst); err != nil {
						return fmt.Errorf("copy screenshot for %s: %w", sample.ID, err)
					}
				}

				if err := st.Samples().MarkPromoted(sample.ID); err != nil {
					return fmt.Errorf("mark sample %s promoted: %w", sample.ID, err)
				}

				fmt.Printf("Promoted %s as %s\n", sample.ID, sample.Gesture)
				promoted++
			}

			fmt.Printf("Promoted %d sample(s) into %s\n", promoted, corpusDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "hasta.db", "Staging database file")
	cmd.Flags().StringVar(&corpusDir, "corpus", DefaultCorpusDir, "Corpus directory of labeled test cases")

	return cmd
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
