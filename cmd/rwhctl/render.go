package main

import (
	"os"

	"github.com/couchcryptid/rwh-feasibility-service/internal/mapsvg"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	"github.com/couchcryptid/rwh-feasibility-service/internal/reference"
	"github.com/spf13/cobra"
)

func newRenderCmd(opts *options) *cobra.Command {
	var district, state string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the rainfall, groundwater and aquifer maps for a location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			index, err := reference.LoadDir(opts.dataDir)
			if err != nil {
				return err
			}
			tables, err := opts.tables()
			if err != nil {
				return err
			}
			metrics := observability.NewMetrics()
			renderer, err := mapsvg.NewRenderer(index, tables,
				mapsvg.NewGeometryStore(os.DirFS(opts.mapsDir), 0, metrics),
				mapsvg.NewArtifactStore(opts.outputDir),
				opts.logger(), metrics)
			if err != nil {
				return err
			}
			render, err := renderer.RenderLocation(cmd.Context(), district, state)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), render)
		},
	}
	cmd.Flags().StringVar(&district, "district", "", "district to highlight")
	cmd.Flags().StringVar(&state, "state", "", "state whose map is drawn")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}
