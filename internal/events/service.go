package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/mirevents/eventdesk/pkg/db/models"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes event lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateEventInput) (*EventSummary, error)
	Get(ctx context.Context, id int64) (*EventSummary, error)
	List(ctx context.Context) ([]EventSummary, error)
}

type service struct {
	repo Repository
}

// NewService builds an events service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateEventInput) (*EventSummary, error) {
	event := &models.Event{
		Name:     input.Name,
		Type:     input.Type,
		Date:     input.Date,
		Location: input.Location,
	}
	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return summarize(created), nil
}

func (s *service) Get(ctx context.Context, id int64) (*EventSummary, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return summarize(event), nil
}

func (s *service) List(ctx context.Context) ([]EventSummary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	out := make([]EventSummary, 0, len(all))
	for i := range all {
		out = append(out, *summarize(&all[i]))
	}
	return out, nil
}

func summarize(event *models.Event) *EventSummary {
	return &EventSummary{
		ID:       event.ID,
		Name:     event.Name,
		Type:     event.Type,
		Date:     event.Date,
		Location: event.Location,
	}
}
