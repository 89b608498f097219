package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/firewatch-cli/internal/feed"
)

var (
	fetchBPoly string
	fetchOut   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download official incidents for a region to a file",
	Long:  "Queries the incident feature service with the bounding polygon and configured window, writing the raw GeoJSON response for later offline runs.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		boundary, err := feed.LoadBoundary(fetchBPoly)
		if err != nil {
			return err
		}

		data, err := fetchIncidents(ctx, boundary)
		if err != nil {
			return err
		}

		if err := os.WriteFile(fetchOut, data, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", fetchOut)
		}

		zap.L().Info("incident feed saved",
			zap.String("path", fetchOut),
			zap.Int("bytes", len(data)),
		)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchBPoly, "bpoly", "bounding_polygon.json", "bounding polygon file (.json Esri rings or .shp)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "incidents.geojson", "output file")
	rootCmd.AddCommand(fetchCmd)
}
