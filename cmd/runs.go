package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/firewatch-cli/internal/model"
	"github.com/sells-group/firewatch-cli/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List persisted correlation runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Store.Path == "" {
			return eris.New("runs: no store path configured")
		}

		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Migrate(ctx); err != nil {
			return err
		}

		runs, err := s.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// formatRunsList renders persisted runs one line each, newest first.
func formatRunsList(w io.Writer, runs []model.Run) {
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  region=%s incidents=%d detections=%d matches=%d\n",
			r.CreatedAt.Format(time.RFC3339), r.ID, r.Region,
			r.IncidentCount, r.DetectionCount, r.MatchCount)
	}
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
