package controllers

import (
	"net/http"

	"github.com/mirevents/eventdesk/api/responses"
	"github.com/mirevents/eventdesk/internal/catalog"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"github.com/mirevents/eventdesk/pkg/logger"
)

// CatalogColumns returns every spreadsheet column ever seen across imports,
// in last-seen file order.
func CatalogColumns(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		cols, err := svc.Columns(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cols)
	}
}
