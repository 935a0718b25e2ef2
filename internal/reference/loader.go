// Package reference loads the rainfall, aquifer and groundwater datasets into
// a read-only domain.Index, and the embedded lookup tables used for maps.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/couchcryptid/rwh-feasibility-service/internal/domain"
)

// Dataset file names under DATA_DIR.
const (
	RainfallFile       = "rainfall_database.csv"
	AquiferFile        = "statewise_aquifier.csv"
	GroundwaterPattern = "groundwater*.csv"
)

var yearInName = regexp.MustCompile(`(19|20)\d{2}`)

// LoadDir reads the datasets from a directory on disk.
func LoadDir(dir string) (*domain.Index, error) {
	return Load(os.DirFS(dir))
}

// Load reads all three datasets from fsys and builds the index. Any missing
// file or column is an error.
func Load(fsys fs.FS) (*domain.Index, error) {
	rainfall, err := loadTable(fsys, domain.DatasetRainfall, RainfallFile)
	if err != nil {
		return nil, err
	}
	aquifer, err := loadTable(fsys, domain.DatasetAquifer, AquiferFile)
	if err != nil {
		return nil, err
	}
	groundwater, err := loadGroundwater(fsys)
	if err != nil {
		return nil, err
	}
	return domain.NewIndex(rainfall, aquifer, groundwater)
}

func loadTable(fsys fs.FS, dataset, name string) (*domain.Table, error) {
	recs, err := readCSV(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dataset, err)
	}
	rows := make([]domain.Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, domain.NewRow(rec))
	}
	table, err := domain.NewTable(dataset, domain.RequiredColumns[dataset], rows)
	if err != nil {
		return nil, fmt.Errorf("load %s from %s: %w", dataset, name, err)
	}
	return table, nil
}

// loadGroundwater concatenates every groundwater*.csv in name order. Files
// without a Year column take the year from their name, e.g. groundwater2023.csv.
// A pre-merged groundwater_combined.csv is ignored so rows are not counted twice.
func loadGroundwater(fsys fs.FS) (*domain.Table, error) {
	matches, err := fs.Glob(fsys, GroundwaterPattern)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", domain.DatasetGroundwater, err)
	}
	sort.Strings(matches)

	var rows []domain.Row
	var loaded int
	for _, name := range matches {
		if strings.Contains(strings.ToLower(path.Base(name)), "combined") {
			continue
		}
		recs, err := readCSV(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", domain.DatasetGroundwater, err)
		}
		year := yearInName.FindString(path.Base(name))
		for _, rec := range recs {
			if _, ok := rec[domain.ColGroundwaterYear]; !ok {
				rec[domain.ColGroundwaterYear] = year
			}
			rows = append(rows, domain.NewRow(rec))
		}
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("load %s: no files match %s: %w", domain.DatasetGroundwater, GroundwaterPattern, fs.ErrNotExist)
	}

	table, err := domain.NewTable(domain.DatasetGroundwater, domain.RequiredColumns[domain.DatasetGroundwater], rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", domain.DatasetGroundwater, err)
	}
	return table, nil
}

// readCSV returns the data rows of a CSV file keyed by header name. Short
// records are padded with empty values.
func readCSV(fsys fs.FS, name string) ([]map[string]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read %s: %w", name, errEmptyFile)
	}

	header := make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	recs := make([]map[string]string, 0, len(all)-1)
	for _, row := range all[1:] {
		if blankRecord(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if h == "" {
				continue
			}
			if j < len(row) {
				fields[h] = strings.TrimSpace(row[j])
			} else {
				fields[h] = ""
			}
		}
		recs = append(recs, fields)
	}
	return recs, nil
}

var errEmptyFile = errors.New("empty file")

func blankRecord(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
