package mapsvg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	"github.com/couchcryptid/rwh-feasibility-service/internal/reference"
	"golang.org/x/sync/errgroup"
)

// MapName identifies one rendered map.
type MapName string

const (
	MapRainfall    MapName = "rainfall"
	MapPreMonsoon  MapName = "premonsoon"
	MapPostMonsoon MapName = "postmonsoon"
	MapAquifer     MapName = "aquifer"
)

// MapNames lists every map a render produces, in response order.
var MapNames = []MapName{MapRainfall, MapPreMonsoon, MapPostMonsoon, MapAquifer}

// Valid reports whether n is one of MapNames.
func (n MapName) Valid() bool {
	for _, m := range MapNames {
		if m == n {
			return true
		}
	}
	return false
}

// Artifact is one written map.
type Artifact struct {
	Name        MapName `json:"name"`
	Path        string  `json:"-"`
	Colored     int     `json:"colored"`
	Skipped     int     `json:"skipped"`
	Highlighted bool    `json:"highlighted"`
}

// Render is the result of one RenderLocation call.
type Render struct {
	ID        string     `json:"id"`
	StateCode string     `json:"state_code"`
	Maps      []Artifact `json:"maps"`
}

// layer is the static colouring for one map, computed once from the index.
type layer struct {
	name    MapName
	entries []Entry
	// byState replaces entries for layers keyed by normalized state.
	byState map[string][]Entry
	palette map[string]string
}

// entriesFor returns the entries to colour on the map of state.
func (l layer) entriesFor(state string) []Entry {
	if l.byState == nil {
		return l.entries
	}
	return l.byState[domain.Normalize(state)]
}

// Renderer produces the rainfall, groundwater and aquifer maps for a location.
// Layers are derived from the reference index at construction and shared
// read-only between renders.
type Renderer struct {
	geometry *GeometryStore
	store    *ArtifactStore
	tables   *reference.Tables
	layers   map[MapName]layer
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewRenderer builds the map layers from ix.
func NewRenderer(ix *domain.Index, tables *reference.Tables, geometry *GeometryStore, store *ArtifactStore, logger *slog.Logger, metrics *observability.Metrics) (*Renderer, error) {
	layers, err := buildLayers(ix, tables)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		geometry: geometry,
		store:    store,
		tables:   tables,
		layers:   layers,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

func buildLayers(ix *domain.Index, tables *reference.Tables) (map[MapName]layer, error) {
	rainfall, err := ix.Table(domain.DatasetRainfall)
	if err != nil {
		return nil, err
	}
	groundwater, err := ix.Table(domain.DatasetGroundwater)
	if err != nil {
		return nil, err
	}
	aquifer, err := ix.Table(domain.DatasetAquifer)
	if err != nil {
		return nil, err
	}

	rain := layer{name: MapRainfall, palette: tables.Palettes.Rainfall}
	rainfall.Each(func(_ int, row domain.Row) bool {
		mm := domain.ParseRainfall(row.Get(domain.ColRainfallNormal))
		rain.entries = append(rain.entries, Entry{
			Name:     row.Get(domain.ColRainfallName),
			Category: domain.ClassifyRainfall(mm).Code(),
		})
		return true
	})

	pre := layer{name: MapPreMonsoon, palette: tables.Palettes.PreMonsoon, byState: make(map[string][]Entry)}
	post := layer{name: MapPostMonsoon, palette: tables.Palettes.PostMonsoon, byState: make(map[string][]Entry)}
	for key, row := range domain.LatestGroundwater(groundwater) {
		pre.byState[key.State] = append(pre.byState[key.State], Entry{
			Name:     key.District,
			Category: domain.ClassifyGroundwaterDepth(row.Get(domain.ColGroundwaterPre)).String(),
		})
		post.byState[key.State] = append(post.byState[key.State], Entry{
			Name:     key.District,
			Category: domain.ClassifyGroundwaterDepth(row.Get(domain.ColGroundwaterPost)).String(),
		})
	}

	aq := layer{name: MapAquifer, palette: make(map[string]string, len(tables.AquiferClasses))}
	for _, c := range tables.AquiferClasses {
		aq.palette[c.Name] = c.Color
	}
	aquifer.Each(func(_ int, row domain.Row) bool {
		code, ok := tables.StateCode(row.Get(domain.ColAquiferState))
		if !ok {
			return true
		}
		aq.entries = append(aq.entries, Entry{
			Name:     code,
			Category: tables.AquiferClass(row.Get(domain.ColAquiferType)).Name,
		})
		return true
	})

	return map[MapName]layer{
		MapRainfall:    rain,
		MapPreMonsoon:  pre,
		MapPostMonsoon: post,
		MapAquifer:     aq,
	}, nil
}

// RenderLocation writes all four maps for district in state under a new
// render id. The three state maps highlight the district and the national
// aquifer map highlights the state.
func (r *Renderer) RenderLocation(ctx context.Context, district, state string) (Render, error) {
	code, listed := r.tables.StateCode(state)
	if !listed {
		r.logger.Warn("state has no map code, using prefix", "state", state, "code", code)
	}
	out := Render{
		ID:        r.store.NewRenderID(),
		StateCode: code,
		Maps:      make([]Artifact, len(MapNames)),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range MapNames {
		geometry, highlight := code, district
		if name == MapAquifer {
			geometry, highlight = NationalMap, code
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			art, err := r.renderOne(out.ID, r.layers[name], state, geometry, highlight)
			if err != nil {
				return fmt.Errorf("render %s map: %w", name, err)
			}
			out.Maps[i] = art
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Render{}, err
	}
	return out, nil
}

func (r *Renderer) renderOne(id string, l layer, state, geometry, highlight string) (Artifact, error) {
	start := time.Now()
	doc, err := r.geometry.Load(geometry)
	if err != nil {
		return Artifact{}, err
	}

	rep := doc.ColorRegions(l.entriesFor(state), l.palette)
	if len(rep.Skipped) > 0 {
		r.metrics.RegionsSkipped.WithLabelValues(string(l.name)).Add(float64(len(rep.Skipped)))
		r.logger.Debug("map regions not found", "map", l.name, "geometry", geometry, "skipped", len(rep.Skipped))
	}

	art := Artifact{Name: l.name, Colored: rep.Colored, Skipped: len(rep.Skipped), Highlighted: true}
	if err := doc.HighlightBorder(highlight); err != nil {
		if !errors.Is(err, ErrRegionNotFound) {
			return Artifact{}, err
		}
		art.Highlighted = false
		r.metrics.RegionsSkipped.WithLabelValues(string(l.name)).Inc()
		r.logger.Warn("highlight region not found", "map", l.name, "geometry", geometry, "region", highlight)
	}

	data, err := doc.Bytes()
	if err != nil {
		return Artifact{}, fmt.Errorf("serialize: %w", err)
	}
	art.Path, err = r.store.Save(id, l.name, data)
	if err != nil {
		return Artifact{}, err
	}
	r.metrics.RenderDuration.WithLabelValues(string(l.name)).Observe(time.Since(start).Seconds())
	return art, nil
}

// Artifact reads a previously rendered map.
func (r *Renderer) Artifact(id, name string) ([]byte, error) {
	return r.store.Open(id, name)
}
