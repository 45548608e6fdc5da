package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirevents/eventdesk/pkg/enums"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"go.uber.org/multierr"
)

// Service maintains the global catalog of spreadsheet columns ever seen.
type Service interface {
	Columns(ctx context.Context) ([]ColumnSummary, error)
	// RecordHeader upserts every header cell of an import file into the
	// catalog, preserving file order. Failures are aggregated and returned
	// for logging; callers treat them as soft.
	RecordHeader(ctx context.Context, header []string) error
}

// ColumnSummary is the API shape of one catalog entry.
type ColumnSummary struct {
	ID           int64  `json:"id"`
	ColumnName   string `json:"column_name"`
	DisplayOrder int    `json:"display_order"`
	IsBaseField  bool   `json:"is_base_field"`
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Columns(ctx context.Context) ([]ColumnSummary, error) {
	cols, err := s.repo.ListOrdered(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog columns")
	}
	out := make([]ColumnSummary, 0, len(cols))
	for _, col := range cols {
		out = append(out, ColumnSummary{
			ID:           col.ID,
			ColumnName:   col.ColumnName,
			DisplayOrder: col.DisplayOrder,
			IsBaseField:  col.IsBaseField,
		})
	}
	return out, nil
}

func (s *service) RecordHeader(ctx context.Context, header []string) error {
	var errs error
	order := 0
	for _, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		isBase := enums.GuestAttr(name).IsValid()
		if _, err := s.repo.Upsert(ctx, name, order, isBase); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("upsert column %q: %w", name, err))
		}
		order++
	}
	return errs
}
