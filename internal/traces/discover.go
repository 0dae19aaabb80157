package traces

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoCSV is returned when a directory holds no CSV export.
var ErrNoCSV = errors.New("no CSV file found")

// FindCSV picks the export to load from dir: the first CSV whose name
// mentions "trace", else the first CSV. Names are considered in lexical order.
func FindCSV(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir: %w", err)
	}

	var csvs []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		csvs = append(csvs, e.Name())
	}
	if len(csvs) == 0 {
		return "", ErrNoCSV
	}
	sort.Strings(csvs)

	for _, name := range csvs {
		if strings.Contains(strings.ToLower(name), "trace") {
			return filepath.Join(dir, name), nil
		}
	}
	return filepath.Join(dir, csvs[0]), nil
}
