package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/hasta/internal/app"
	"github.com/ayusman/hasta/internal/gesture"
	"github.com/ayusman/hasta/internal/history"
	"github.com/ayusman/hasta/internal/server"
	"github.com/ayusman/hasta/internal/store"
)

func newServeCommand() *cobra.Command {
	var (
		addr        string
		dbPath      string
		cameraID    int
		imageDir    string
		historyFile string
		staticDir   string
		configFile  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live capture pipeline and HTTP API",
		Long: `Run the camera capture pipeline and serve the HTTP API.

Classified observations stream over a WebSocket at /api/observations,
and the most recent one can be staged as a labeled sample via
POST /api/samples. Staged samples wait in the database until promoted
into the evaluation corpus with "hasta promote".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := gesture.DefaultConfig()
			if configFile != "" {
				loaded, err := gesture.LoadConfig(configFile)
				if err != nil {
					return fmt.Errorf("load classifier config: %w", err)
				}
				cfg = loaded
			}

			st, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("open staging store: %w", err)
			}
			defer st.Close()

			application := app.New(app.Config{
				Store:      st,
				CameraID:   cameraID,
				ImageDir:   imageDir,
				Classifier: cfg,
			})

			if err := application.Start(); err != nil {
				// The API still works without a camera; only the
				// live endpoints go dark.
				log.Printf("Capture pipeline unavailable: %v", err)
			}
			defer application.Stop()

			srv := server.New(server.Config{
				StaticDir:  staticDir,
				Store:      st,
				History:    history.NewStore(historyFile),
				Classifier: application.Classifier(),
				App:        application,
			})

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Listening on %s", addr)
				errCh <- srv.ListenAndServe(addr)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.Printf("Received %v, shutting down", sig)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().StringVar(&dbPath, "db", "hasta.db", "Staging database file")
	cmd.Flags().IntVar(&cameraID, "camera", 0, "Camera device ID")
	cmd.Flags().StringVar(&imageDir, "images", "images", "Directory for staged sample screenshots")
	cmd.Flags().StringVar(&historyFile, "history", DefaultHistoryFile, "Evaluation history file")
	cmd.Flags().StringVar(&staticDir, "static", "", "Directory of static files to serve at /")
	cmd.Flags().StringVar(&configFile, "config", "", "Classifier threshold config file (YAML)")

	return cmd
}
