package imports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet record keyed by cleaned column header. Blank
// rows stay in the stream: row position feeds synthetic identifier
// generation, so dropping them would shift every later row's identity.
type Row struct {
	// Index is the 0-based position within the file (header excluded).
	Index  int
	Values map[string]string
}

// Get returns the trimmed cell for the first header key that holds a
// non-empty value.
func (r Row) Get(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(r.Values[key]); value != "" {
			return value
		}
	}
	return ""
}

// ReadRows loads the uploaded file into a uniform header + row stream.
// The format is chosen by extension: xlsx via the spreadsheet library,
// everything else treated as CSV.
func ReadRows(path string) ([]string, []Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) ([]string, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Real exports have ragged rows; length is reconciled against the
	// header below.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	cleaned := cleanHeaderRow(header)

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row %d: %w", len(rows), err)
		}
		rows = append(rows, buildRow(len(rows), cleaned, record))
	}
	return cleaned, rows, nil
}

func readXLSX(path string) ([]string, []Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	cleaned := cleanHeaderRow(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, buildRow(len(rows), cleaned, record))
	}
	return cleaned, rows, nil
}

func cleanHeaderRow(raw []string) []string {
	cleaned := make([]string, len(raw))
	for i, h := range raw {
		cleaned[i] = CleanHeader(h)
	}
	return cleaned
}

// buildRow pads or truncates the record to the header width so ragged
// lines still key every known column.
func buildRow(index int, header []string, record []string) Row {
	values := make(map[string]string, len(header))
	for i, key := range header {
		if key == "" {
			continue
		}
		if i < len(record) {
			values[key] = record[i]
		} else {
			values[key] = ""
		}
	}
	return Row{Index: index, Values: values}
}
