package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/firewatch-cli/internal/model"
	"github.com/sells-group/firewatch-cli/internal/report"
	"github.com/sells-group/firewatch-cli/internal/stats"
)

var (
	statsBPoly     string
	statsIncidents string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize official incident statistics",
	Long:  "Computes the most common discovery hour, large-fire count, and hour/size correlation over the official incidents, without running the detection correlation.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		data, err := loadOrFetchIncidents(ctx, statsIncidents, statsBPoly)
		if err != nil {
			return err
		}

		points, _, err := newParser().Incidents(data)
		if err != nil {
			return err
		}

		summary := stats.Compute(points, cfg.Stats.LargeFireAcres)
		writeIncidentReport(os.Stdout, points, summary, cfg.Stats.LargeFireAcres)

		return nil
	},
}

// writeIncidentReport renders the summary block and both histograms.
func writeIncidentReport(w io.Writer, points []model.PointIncident, summary stats.Summary, largeAcres float64) {
	r := report.NewWriter(w)
	r.Summary(summary, largeAcres)
	r.HourHistogram(points)
	r.SizeHistogram(points)
}

func init() {
	statsCmd.Flags().StringVar(&statsBPoly, "bpoly", "bounding_polygon.json", "bounding polygon file (.json Esri rings or .shp)")
	statsCmd.Flags().StringVar(&statsIncidents, "incidents", "", "local incident GeoJSON file (skips the remote fetch)")
	rootCmd.AddCommand(statsCmd)
}
