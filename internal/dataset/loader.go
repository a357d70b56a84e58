// Package dataset loads labeled claim/truth cases from tabular sources.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/kepler/internal/model"
)

const (
	claimColumn = "claim"
	truthColumn = "truth"
)

// LoadResult contains the accepted cases and how many rows were skipped
type LoadResult struct {
	Cases   []model.Case
	Skipped int // Rows missing claim or truth
}

// LoadFile reads cases from a CSV file. limit <= 0 loads every accepted row.
func LoadFile(path string, limit int) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrSourceUnavailable, path, err)
	}
	defer func() { _ = file.Close() }()

	result, err := Load(file, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// Load reads cases from CSV with a header row naming the claim and truth columns.
// Rows with an empty claim or truth are skipped and do not consume an id.
// Reading stops as soon as limit cases are accepted.
func Load(r io.Reader, limit int) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Ragged rows are tolerated; missing cells read as empty

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty source", model.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("%w: read header: %v", model.ErrSourceUnavailable, err)
	}

	claimIdx, truthIdx, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Cases: []model.Case{}}
	for limit <= 0 || len(result.Cases) < limit {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", model.ErrSourceUnavailable, err)
		}

		claim := field(row, claimIdx)
		truth := field(row, truthIdx)
		if claim == "" || truth == "" {
			result.Skipped++
			continue
		}

		result.Cases = append(result.Cases, model.Case{
			ID:    len(result.Cases),
			Claim: claim,
			Truth: truth,
		})
	}

	return result, nil
}

// locateColumns finds the claim and truth columns by header name
func locateColumns(header []string) (int, int, error) {
	claimIdx, truthIdx := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case claimColumn:
			if claimIdx < 0 {
				claimIdx = i
			}
		case truthColumn:
			if truthIdx < 0 {
				truthIdx = i
			}
		}
	}

	if claimIdx < 0 || truthIdx < 0 {
		return 0, 0, fmt.Errorf("%w: header must contain %q and %q columns, got %v",
			model.ErrSourceUnavailable, claimColumn, truthColumn, header)
	}
	return claimIdx, truthIdx, nil
}

// field returns the trimmed cell at idx, or "" when the row is short
func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
