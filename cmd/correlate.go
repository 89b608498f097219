package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/firewatch-cli/internal/correlate"
	"github.com/sells-group/firewatch-cli/internal/model"
	"github.com/sells-group/firewatch-cli/internal/report"
	"github.com/sells-group/firewatch-cli/internal/spatial"
	"github.com/sells-group/firewatch-cli/internal/stats"
	"github.com/sells-group/firewatch-cli/internal/store"
)

var (
	correlateBPoly     string
	correlateWFS       string
	correlateIncidents string
	correlateWorkers   int
	correlateNoStore   bool
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Run the full incident/detection correlation pipeline",
	Long:  "Loads the bounding polygon, fetches official incidents (or reads them from a file), parses the satellite detection feed, and reports which fires the satellite system detected first, alongside incident statistics.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		incidentData, err := loadOrFetchIncidents(ctx, correlateIncidents, correlateBPoly)
		if err != nil {
			return err
		}

		detectionData, err := os.ReadFile(correlateWFS)
		if err != nil {
			return eris.Wrapf(err, "read detection file %s", correlateWFS)
		}

		parser := newParser()
		points, _, err := parser.Incidents(incidentData)
		if err != nil {
			return err
		}
		detections, _, err := parser.Detections(detectionData)
		if err != nil {
			return err
		}

		workers := correlateWorkers
		if workers == 0 {
			workers = cfg.Correlate.Workers
		}

		index := spatial.NewIndex(detections)
		matches, err := correlate.CorrelateParallel(ctx, points, index, workers)
		if err != nil {
			return err
		}
		summary := stats.Compute(points, cfg.Stats.LargeFireAcres)
		writeIncidentReport(os.Stdout, points, summary, cfg.Stats.LargeFireAcres)
		report.NewWriter(os.Stdout).Matches(matches)

		if cfg.Store.Path != "" && !correlateNoStore {
			if err := saveRun(ctx, points, detections, matches, summary); err != nil {
				// Persistence is bookkeeping; the run itself succeeded.
				zap.L().Warn("failed to persist run", zap.Error(err))
			}
		}

		return nil
	},
}

func saveRun(ctx context.Context, points []model.PointIncident, detections []model.PolygonDetection, matches []model.CorrelationMatch, summary stats.Summary) error {
	s, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "encode summary")
	}

	run := &model.Run{
		Region:         correlateBPoly,
		IncidentCount:  len(points),
		DetectionCount: len(detections),
		MatchCount:     len(matches),
		Summary:        string(summaryJSON),
	}
	if err := s.SaveRun(ctx, run); err != nil {
		return err
	}

	zap.L().Info("run persisted", zap.String("id", run.ID))
	return nil
}

func init() {
	correlateCmd.Flags().StringVar(&correlateBPoly, "bpoly", "bounding_polygon.json", "bounding polygon file (.json Esri rings or .shp)")
	correlateCmd.Flags().StringVar(&correlateWFS, "wfs", "wfs.geojson", "satellite detection GeoJSON file")
	correlateCmd.Flags().StringVar(&correlateIncidents, "incidents", "", "local incident GeoJSON file (skips the remote fetch)")
	correlateCmd.Flags().IntVar(&correlateWorkers, "workers", 0, "correlation workers (default from config)")
	correlateCmd.Flags().BoolVar(&correlateNoStore, "no-store", false, "skip persisting the run")
	rootCmd.AddCommand(correlateCmd)
}
