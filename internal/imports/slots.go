package imports

import (
	"context"

	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/pkg/db/models"
)

// SlotResolution is where one custom field's values live for an event.
// Slot 0 means the overflow store.
type SlotResolution struct {
	FieldID int64
	Slot    int
}

// Inline reports whether the field occupies one of the guest record's
// inline columns.
func (r SlotResolution) Inline() bool {
	return r.Slot >= 1 && r.Slot <= models.GuestInlineSlots
}

// SlotRouter assigns custom field names to inline slots or the overflow
// store. Slot position is derived from the event's stored field
// definitions ordered by (sort_order, id), so a field keeps its slot
// across re-imports regardless of the current file's column order.
// Unknown names get a definition appended at the next order position.
type SlotRouter struct {
	guests  guests.Repository
	eventID int64

	order  []int64          // field ids in slot order
	byName map[string]int64 // field name -> id
}

// NewSlotRouter loads the event's existing field definitions.
func NewSlotRouter(ctx context.Context, repo guests.Repository, eventID int64) (*SlotRouter, error) {
	router := &SlotRouter{
		guests:  repo,
		eventID: eventID,
		byName:  map[string]int64{},
	}
	fields, err := repo.ListCustomFields(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, field := range fields {
		router.order = append(router.order, field.ID)
		router.byName[field.Name] = field.ID
	}
	return router, nil
}

// Resolve returns the field's slot, creating the definition when the
// name has never been seen for this event.
func (r *SlotRouter) Resolve(ctx context.Context, name string) (SlotResolution, error) {
	if id, ok := r.byName[name]; ok {
		return r.resolution(id), nil
	}

	field, err := r.guests.FindOrCreateCustomField(ctx, r.eventID, name)
	if err != nil {
		return SlotResolution{}, err
	}
	if _, ok := r.byName[field.Name]; !ok {
		r.order = append(r.order, field.ID)
		r.byName[field.Name] = field.ID
	}
	return r.resolution(field.ID), nil
}

func (r *SlotRouter) resolution(fieldID int64) SlotResolution {
	for i, id := range r.order {
		if id == fieldID {
			return SlotResolution{FieldID: fieldID, Slot: i + 1}
		}
	}
	return SlotResolution{FieldID: fieldID}
}

// Write stages a value in its resolved location on the guest and removes
// the stale representation on the other side, so a field's value never
// exists both inline and in overflow. Overflow writes need a persisted
// guest id and are returned to the caller to flush after the batch
// commit.
type overflowWrite struct {
	fieldID int64
	value   string
}

func (r *SlotRouter) Write(ctx context.Context, guest *models.Guest, res SlotResolution, value string) (*overflowWrite, error) {
	if res.Inline() {
		slot := guest.InlineSlot(res.Slot)
		*slot = &value
		// A previous import may have stored this field in overflow
		// before the definition settled into an inline slot. The reverse
		// move never happens: definitions are append-only, so a field
		// keeps its slot index and an inline field stays inline.
		if guest.ID != 0 {
			if err := r.guests.DeleteFieldValue(ctx, guest.ID, res.FieldID); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	return &overflowWrite{fieldID: res.FieldID, value: value}, nil
}
