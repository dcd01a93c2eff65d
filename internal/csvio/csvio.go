// Package csvio reads key batches from CSV and writes validation reports
// back out. Input is forgiving: one-column files are bare keys, two-column
// files are (provider, key), and a header row is skipped when recognized.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/janekbaraniewski/keycheck/internal/core"
)

// ErrNoEntries is returned when the input held no usable rows.
var ErrNoEntries = errors.New("csv: no key entries found")

// ReadEntries parses bulk-validation entries from r.
func ReadEntries(r io.Reader) ([]core.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be 1 or 2 columns
	reader.TrimLeadingSpace = true

	var entries []core.Entry
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: reading row: %w", err)
		}

		if first {
			first = false
			if isHeader(row) {
				continue
			}
		}

		entry, ok := entryFromRow(row)
		if ok {
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

// ReadEntriesFile parses a CSV file of keys.
func ReadEntriesFile(path string) ([]core.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadEntries(f)
}

func isHeader(row []string) bool {
	for _, cell := range row {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "key", "api_key", "apikey", "credential", "provider":
			return true
		}
	}
	return false
}

func entryFromRow(row []string) (core.Entry, bool) {
	switch len(row) {
	case 1:
		secret := strings.TrimSpace(row[0])
		if secret == "" {
			return core.Entry{}, false
		}
		return core.Entry{Secret: secret}, true
	case 0:
		return core.Entry{}, false
	default:
		provider := strings.TrimSpace(row[0])
		secret := strings.TrimSpace(row[1])
		if secret == "" {
			return core.Entry{}, false
		}
		return core.Entry{ProviderName: provider, Secret: secret}, true
	}
}

// WriteReports renders validation reports as CSV.
func WriteReports(w io.Writer, reports []core.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"provider", "key", "is_valid", "message", "error", "model_count", "plan"}); err != nil {
		return fmt.Errorf("csv: writing header: %w", err)
	}

	for _, rep := range reports {
		modelCount, _ := rep.Field("model_count")
		var plan string
		if rep.Summary != nil {
			plan = rep.Summary.Plan
		}
		row := []string{
			rep.Provider,
			rep.Hint,
			rep.Validity.String(),
			rep.Message,
			rep.Err,
			modelCount,
			plan,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("csv: writing row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteReportsFile renders reports to a CSV file.
func WriteReportsFile(path string, reports []core.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteReports(f, reports)
}
