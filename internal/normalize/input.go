// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/kg-reconciler/internal/dataset"
)

// LoadCuries reads input CURIEs from either a CSV with an input_curie
// column or a compendia JSONL file, selected by extension. limit caps the
// number of CURIEs (0 = all).
func LoadCuries(path string, limit int) ([]string, error) {
	switch filepath.Ext(path) {
	case ".jsonl":
		return loadCuriesJSONL(path, limit)
	case ".csv":
		return loadCuriesCSV(path, limit)
	}
	return nil, fmt.Errorf("unsupported input %s: use a .csv with an input_curie column or a compendia .jsonl", path)
}

func loadCuriesCSV(path string, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CURIE file %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	col := -1
	for i, h := range header {
		if h == "input_curie" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%s has no input_curie column", path)
	}

	var curies []string
	for {
		if limit > 0 && len(curies) >= limit {
			break
		}
		cols, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if col >= len(cols) {
			continue
		}
		if curie := strings.TrimSpace(cols[col]); curie != "" {
			curies = append(curies, curie)
		}
	}
	return curies, nil
}

func loadCuriesJSONL(path string, limit int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening compendia file %s: %w", path, err)
	}
	defer f.Close()

	var curies []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if limit > 0 && len(curies) >= limit {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec dataset.CompendiaRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parsing compendia line: %w", err)
		}
		if len(rec.Identifiers) > 0 && rec.Identifiers[0].I != "" {
			curies = append(curies, rec.Identifiers[0].I)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading compendia file %s: %w", path, err)
	}
	return curies, nil
}
