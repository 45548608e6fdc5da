package enums

import (
	"fmt"
	"strings"
)

// ImportJobStatus is the lifecycle state of a guest import job.
type ImportJobStatus string

const (
	ImportJobPending ImportJobStatus = "pending"
	ImportJobRunning ImportJobStatus = "running"
	ImportJobSuccess ImportJobStatus = "success"
	ImportJobPartial ImportJobStatus = "partial"
	ImportJobFailed  ImportJobStatus = "failed"
)

func (s ImportJobStatus) IsValid() bool {
	switch s {
	case ImportJobPending, ImportJobRunning, ImportJobSuccess, ImportJobPartial, ImportJobFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the job can no longer change state.
func (s ImportJobStatus) IsTerminal() bool {
	switch s {
	case ImportJobSuccess, ImportJobPartial, ImportJobFailed:
		return true
	}
	return false
}

// CanTransitionTo enforces pending -> running -> {success, partial, failed}.
// A pending job may also fail directly, e.g. when the uploaded file is empty.
func (s ImportJobStatus) CanTransitionTo(next ImportJobStatus) bool {
	switch s {
	case ImportJobPending:
		return next == ImportJobRunning || next == ImportJobFailed
	case ImportJobRunning:
		return next.IsTerminal()
	}
	return false
}

func ParseImportJobStatus(value string) (ImportJobStatus, error) {
	status := ImportJobStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid import job status %q", value)
	}
	return status, nil
}
