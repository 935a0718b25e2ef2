package mapsvg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrArtifactNotFound is returned for unknown render ids or map names.
var ErrArtifactNotFound = errors.New("map artifact not found")

// ArtifactStore writes rendered maps under root/<render id>/<map>.svg. Each
// render gets its own directory so concurrent requests never share a file.
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates a store rooted at dir.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{root: dir}
}

// NewRenderID returns a fresh id for one render.
func (s *ArtifactStore) NewRenderID() string {
	return uuid.NewString()
}

// Save writes data as map name of render id and returns the file path.
func (s *ArtifactStore) Save(id string, name MapName, data []byte) (string, error) {
	dir := filepath.Join(s.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(dir, string(name)+".svg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}
	return path, nil
}

// Open reads a saved map. Ids must be UUIDs and names one of the known maps.
func (s *ArtifactStore) Open(id, name string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: bad render id %q", ErrArtifactNotFound, id)
	}
	if !MapName(name).Valid() {
		return nil, fmt.Errorf("%w: unknown map %q", ErrArtifactNotFound, name)
	}
	data, err := os.ReadFile(filepath.Join(s.root, id, name+".svg"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", ErrArtifactNotFound, id, name)
	}
	return data, err
}
