// Command rwhctl runs assessments, renders maps, and checks reference data
// from the command line, without the HTTP service.
//
// Usage:
//
//	rwhctl assess --district Bhopal --state "Madhya Pradesh" --roof-area 120 --roof-type concrete --dwellers 4
//	rwhctl render --district Bhopal --state "Madhya Pradesh"
//	rwhctl trends --district Bhopal
//	rwhctl validate --data-dir databases --maps-dir maps
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/mapsvg"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	"github.com/couchcryptid/rwh-feasibility-service/internal/reference"
	"github.com/couchcryptid/rwh-feasibility-service/internal/service"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

// options are the flags shared by every subcommand.
type options struct {
	dataDir    string
	mapsDir    string
	outputDir  string
	tablesFile string
	format     string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "rwhctl",
		Short:        "Rainwater harvesting feasibility tools",
		SilenceUsage: true,
	}
	f := root.PersistentFlags()
	f.StringVar(&opts.dataDir, "data-dir", "databases", "directory holding the reference CSVs")
	f.StringVar(&opts.mapsDir, "maps-dir", "maps", "directory holding the base SVG maps")
	f.StringVar(&opts.outputDir, "output-dir", "static", "directory rendered maps are written to")
	f.StringVar(&opts.tablesFile, "tables", "", "YAML file overriding the built-in state codes and palettes")
	f.StringVarP(&opts.format, "output", "o", "json", "output format: json or yaml")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(
		newAssessCmd(opts),
		newRenderCmd(opts),
		newTrendsCmd(opts),
		newValidateCmd(opts),
	)
	return root
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o *options) tables() (*reference.Tables, error) {
	if o.tablesFile == "" {
		return reference.DefaultTables()
	}
	data, err := os.ReadFile(o.tablesFile)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	return reference.ParseTables(data)
}

// service loads the reference data and builds the assessment service.
func (o *options) service() (*service.Service, error) {
	index, err := reference.LoadDir(o.dataDir)
	if err != nil {
		return nil, err
	}
	tables, err := o.tables()
	if err != nil {
		return nil, err
	}
	logger := o.logger()
	metrics := observability.NewMetrics()
	renderer, err := mapsvg.NewRenderer(index, tables,
		mapsvg.NewGeometryStore(os.DirFS(o.mapsDir), 0, metrics),
		mapsvg.NewArtifactStore(o.outputDir),
		logger, metrics)
	if err != nil {
		return nil, err
	}
	return service.New(domain.NewAssessor(index, 0), renderer, nil, logger, metrics), nil
}

func (o *options) print(w io.Writer, v any) error {
	switch o.format {
	case "yaml":
		data, err := yaml.MarshalWithOptions(v, yaml.UseJSONMarshaler())
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", o.format)
	}
}
