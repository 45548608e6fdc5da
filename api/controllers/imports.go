package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirevents/eventdesk/api/responses"
	"github.com/mirevents/eventdesk/api/validators"
	"github.com/mirevents/eventdesk/internal/imports"
	pkgerrors "github.com/mirevents/eventdesk/pkg/errors"
	"github.com/mirevents/eventdesk/pkg/logger"
)

// ImportUpload accepts a multipart guest file under the "file" form field,
// records a pending job and hands it to the worker pool. The response is the
// job snapshot the client polls.
func ImportUpload(svc imports.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "imports service unavailable"))
			return
		}

		eventID, err := validators.ParsePathID(chi.URLParam(r, "eventID"), "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		maxBytes := int64(maxUploadMB) << 20
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "upload exceeds the size limit"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing file field"))
			return
		}
		defer file.Close()

		job, err := svc.StartJob(r.Context(), eventID, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, job)
	}
}

// ImportJobStatus returns the polling snapshot for one job.
func ImportJobStatus(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "imports service unavailable"))
			return
		}

		jobID, err := validators.ParsePathID(chi.URLParam(r, "jobID"), "jobID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.GetJob(r.Context(), jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, job)
	}
}

// ImportJobList returns an event's jobs, newest first.
func ImportJobList(svc imports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "imports service unavailable"))
			return
		}

		eventID, err := validators.ParsePathID(chi.URLParam(r, "eventID"), "eventID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jobs, err := svc.ListJobs(r.Context(), eventID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, jobs)
	}
}
