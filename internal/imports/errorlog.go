package imports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

const errorLogSubdir = "imports"

// errorLogPath returns where a job's failed-row CSV lives, relative to
// the uploads directory so the static file server can expose it.
func errorLogPath(uploadsDir string, jobID int64) string {
	return filepath.Join(uploadsDir, errorLogSubdir, fmt.Sprintf("import_job_%d_errors.csv", jobID))
}

// writeErrorLog emits one CSV row per failed input row: the file's
// columns in their original order plus a trailing error column.
func writeErrorLog(path string, header []string, rowErrors []RowError) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create error log dir: %w", err)
	}

	var columns []string
	seen := map[string]bool{}
	for _, key := range header {
		if key != "" && !seen[key] {
			seen[key] = true
			columns = append(columns, key)
		}
	}
	columns = append(columns, "error")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create error log: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, rowErr := range rowErrors {
		for i, col := range columns[:len(columns)-1] {
			record[i] = rowErr.Row[col]
		}
		record[len(columns)-1] = rowErr.Err
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
