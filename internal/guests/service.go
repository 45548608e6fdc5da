package guests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/enums"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"github.com/mirevents/eventdesk/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes guest read and update operations. Bulk creation goes
// through the import pipeline, not this service.
type Service interface {
	List(ctx context.Context, eventID int64, params ListParams) (*GuestList, error)
	Get(ctx context.Context, id int64) (*GuestDetail, error)
	Update(ctx context.Context, id int64, input UpdateGuestInput) (*GuestDetail, error)
	CheckIn(ctx context.Context, id int64) (*GuestSummary, error)
}

type service struct {
	repo Repository
}

// NewService builds a guests service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("guests repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, eventID int64, params ListParams) (*GuestList, error) {
	if eventID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id required")
	}
	page, err := s.repo.ListByEvent(ctx, eventID, pagination.Params{
		Limit:  params.Limit,
		Cursor: params.Cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list guests")
	}

	out := &GuestList{
		Guests:     make([]GuestSummary, 0, len(page.Guests)),
		NextCursor: page.NextCursor,
	}
	for i := range page.Guests {
		out.Guests = append(out.Guests, summarize(&page.Guests[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*GuestDetail, error) {
	guest, err := s.loadGuest(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, guest)
}

func (s *service) Update(ctx context.Context, id int64, input UpdateGuestInput) (*GuestDetail, error) {
	guest, err := s.loadGuest(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		updates["mobile_phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Gender != nil {
		gender := enums.Gender(*input.Gender)
		if !gender.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		updates["gender"] = gender
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) == 0 {
		return s.detail(ctx, guest)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update guest")
	}
	guest, err = s.loadGuest(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, guest)
}

func (s *service) CheckIn(ctx context.Context, id int64) (*GuestSummary, error) {
	guest, err := s.loadGuest(ctx, id)
	if err != nil {
		return nil, err
	}
	if guest.ConfirmedArrival {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "guest already checked in")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"confirmed_arrival": true,
		"check_in_time":     now,
		"last_scan_time":    now,
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check in guest")
	}

	guest.ConfirmedArrival = true
	guest.CheckInTime = &now
	guest.LastScanTime = &now
	summary := summarize(guest)
	return &summary, nil
}

func (s *service) loadGuest(ctx context.Context, id int64) (*models.Guest, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest id required")
	}
	guest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "guest not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest")
	}
	return guest, nil
}

func (s *service) detail(ctx context.Context, guest *models.Guest) (*GuestDetail, error) {
	detail := &GuestDetail{
		GuestSummary: summarize(guest),
		CustomFields: map[string]string{},
	}

	fields, err := s.repo.ListCustomFields(ctx, guest.EventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custom fields")
	}
	byID := make(map[int64]models.GuestCustomField, len(fields))
	for i, field := range fields {
		byID[field.ID] = field
		// Inline slots hold the first 15 field positions.
		slot := i + 1
		if ref := guest.InlineSlot(slot); ref != nil && *ref != nil {
			detail.CustomFields[field.Name] = **ref
		}
	}

	values, err := s.repo.ListFieldValues(ctx, guest.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list field values")
	}
	for _, value := range values {
		field, ok := byID[value.CustomFieldID]
		if !ok || value.Value == nil {
			continue
		}
		detail.CustomFields[field.Name] = *value.Value
	}
	return detail, nil
}

func summarize(guest *models.Guest) GuestSummary {
	return GuestSummary{
		ID:               guest.ID,
		EventID:          guest.EventID,
		FirstName:        guest.FirstName,
		LastName:         guest.LastName,
		IDNumber:         guest.IDNumber,
		Email:            guest.Email,
		MobilePhone:      guest.MobilePhone,
		Gender:           guest.Gender,
		ConfirmedArrival: guest.ConfirmedArrival,
		CheckInTime:      guest.CheckInTime,
	}
}
