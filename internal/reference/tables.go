package reference

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
	"github.com/goccy/go-yaml"
)

//go:embed tables.yaml
var tablesYAML []byte

// AquiferOther is the catch-all aquifer class.
const AquiferOther = "OTHER"

// Palette maps a category label to a fill colour.
type Palette map[string]string

// AquiferClass is a coarse aquifer family used on the national map.
type AquiferClass struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// Tables holds the static lookups needed to render maps.
type Tables struct {
	StateCodes map[string]string `yaml:"state_codes"`
	Palettes   struct {
		Rainfall    Palette `yaml:"rainfall"`
		PreMonsoon  Palette `yaml:"pre_monsoon"`
		PostMonsoon Palette `yaml:"post_monsoon"`
	} `yaml:"palettes"`
	AquiferClasses []AquiferClass `yaml:"aquifer_classes"`
}

// DefaultTables parses the embedded tables.
func DefaultTables() (*Tables, error) {
	return ParseTables(tablesYAML)
}

// ParseTables decodes and validates a tables document.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse reference tables: %w", err)
	}
	if len(t.StateCodes) == 0 {
		return nil, fmt.Errorf("parse reference tables: no state codes")
	}
	if n := len(t.AquiferClasses); n == 0 || t.AquiferClasses[n-1].Name != AquiferOther {
		return nil, fmt.Errorf("parse reference tables: aquifer classes must end with %s", AquiferOther)
	}
	codes := make(map[string]string, len(t.StateCodes))
	for name, code := range t.StateCodes {
		codes[domain.Normalize(name)] = strings.TrimSpace(code)
	}
	t.StateCodes = codes
	return &t, nil
}

// StateCode returns the map code for state. Unlisted states fall back to the
// first two letters of the normalized name.
func (t *Tables) StateCode(state string) (string, bool) {
	key := domain.Normalize(state)
	if code, ok := t.StateCodes[key]; ok {
		return code, true
	}
	r := []rune(key)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r), false
}

// AquiferClass picks the first class whose name appears in composition, or OTHER.
func (t *Tables) AquiferClass(composition string) AquiferClass {
	upper := strings.ToUpper(composition)
	last := t.AquiferClasses[len(t.AquiferClasses)-1]
	for _, c := range t.AquiferClasses[:len(t.AquiferClasses)-1] {
		if strings.Contains(upper, c.Name) {
			return c
		}
	}
	return last
}
