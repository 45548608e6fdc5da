package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mirevents/eventdesk/api/responses"
	"github.com/mirevents/eventdesk/api/validators"
	"github.com/mirevents/eventdesk/internal/guests"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"github.com/mirevents/eventdesk/pkg/logger"
	"github.com/mirevents/eventdesk/pkg/pagination"
)

// GuestList pages through an event's guests by cursor.
func GuestList(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guests service unavailable"))
			return
		}

		eventID, err := validators.ParsePathID(chi.URLParam(r, "eventID"), "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), eventID, guests.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GuestGet returns a single guest with custom fields folded in.
func GuestGet(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guests service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "guestID"), "guestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		guest, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, guest)
	}
}

// GuestUpdate adjusts the mutable fields of a guest.
func GuestUpdate(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guests service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "guestID"), "guestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload guests.UpdateGuestInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// GuestCheckIn marks a guest as arrived. Checking in twice is a state
// conflict.
func GuestCheckIn(svc guests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guests service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "guestID"), "guestID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		guest, err := svc.CheckIn(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, guest)
	}
}
