package mapsvg

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/couchcryptid/rwh-feasibility-service/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

// NationalMap is the geometry name of the all-India state map.
const NationalMap = "INDIA"

// GeometryStore reads map geometry from MAPS_DIR and keeps recently used
// files in memory. Every Load returns a fresh Document.
type GeometryStore struct {
	fsys    fs.FS
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewGeometryStore creates a store over fsys whose entries expire after ttl.
func NewGeometryStore(fsys fs.FS, ttl time.Duration, metrics *observability.Metrics) *GeometryStore {
	return &GeometryStore{
		fsys:    fsys,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

// Load parses <name>.svg.
func (s *GeometryStore) Load(name string) (*Document, error) {
	file := name + ".svg"
	if v, found := s.cache.Get(file); found {
		s.metrics.CacheLookups.WithLabelValues("geometry", "hit").Inc()
		return Parse(v.([]byte))
	}
	s.metrics.CacheLookups.WithLabelValues("geometry", "miss").Inc()

	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", name, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", name, err)
	}
	s.cache.Set(file, data, gocache.DefaultExpiration)
	return doc, nil
}
