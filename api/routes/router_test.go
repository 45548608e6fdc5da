package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirevents/eventdesk/internal/catalog"
	"github.com/mirevents/eventdesk/internal/events"
	"github.com/mirevents/eventdesk/internal/guests"
	"github.com/mirevents/eventdesk/internal/imports"
	"github.com/mirevents/eventdesk/pkg/config"
	"github.com/mirevents/eventdesk/pkg/db"
	"github.com/mirevents/eventdesk/pkg/db/models"
	"github.com/mirevents/eventdesk/pkg/logger"
)

// newTestServer wires the whole stack over in-memory sqlite. Imports run
// synchronously so a poll right after upload sees a terminal job.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn}, true, nil)
	require.NoError(t, err)
	require.NoError(t, client.DB().AutoMigrate(
		&models.Event{},
		&models.Guest{},
		&models.GuestCustomField{},
		&models.GuestFieldValue{},
		&models.ImportJob{},
		&models.CatalogColumn{},
	))

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.MaxUploadMB = 5
	cfg.Imports.BatchSize = 500
	cfg.Imports.StaleAfter = 10 * time.Minute

	guestRepo := guests.NewRepository(client.DB())
	eventRepo := events.NewRepository(client.DB())

	eventSvc, err := events.NewService(eventRepo)
	require.NoError(t, err)
	guestSvc, err := guests.NewService(guestRepo)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	reconciler, err := imports.NewReconciler(client, guestRepo, logg)
	require.NoError(t, err)

	var importSvc imports.Service
	enqueue := func(jobID int64) {
		importSvc.Run(context.Background(), jobID)
	}
	importSvc, err = imports.NewService(
		imports.NewRepository(client.DB()), eventRepo, catalogSvc, reconciler, enqueue, nil, *cfg, logg,
	)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(cfg, logg, client, nil, eventSvc, guestSvc, catalogSvc, importSvc))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func uploadCSV(t *testing.T, url, fileName, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestRouter_HealthLive(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health/live")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "dev", resp.Header.Get("X-EventDesk-Env"))
}

func TestRouter_ImportRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	// Create an event.
	resp := postJSON(t, srv.URL+"/api/v1/events",
		`{"name":"דינר שנתי","type":"dinner","date":"2026-11-03T19:00:00Z","location":"בנייני האומה"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var event struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &event)
	require.NotZero(t, event.ID)

	// Upload a guest file.
	csvData := "שם פרטי,שם משפחה,תז,טלפון,הסעה\n" +
		"דוד,כהן,203458762,0521111111,אשדוד\n" +
		"שרה,לוי,,0522222222,\n"
	resp = uploadCSV(t, fmt.Sprintf("%s/api/v1/events/%d/imports", srv.URL, event.ID), "guests.csv", csvData)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var job struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &job)

	// Poll the job; the test harness runs it synchronously.
	pollResp, err := http.Get(fmt.Sprintf("%s/api/v1/imports/%d", srv.URL, job.ID))
	require.NoError(t, err)
	var polled struct {
		Status       string `json:"status"`
		TotalRows    int    `json:"total_rows"`
		SuccessCount int    `json:"success_count"`
		ErrorCount   int    `json:"error_count"`
		Stalled      bool   `json:"stalled"`
	}
	decodeData(t, pollResp, &polled)
	assert.Equal(t, "success", polled.Status)
	assert.Equal(t, 2, polled.TotalRows)
	assert.Equal(t, 2, polled.SuccessCount)
	assert.Equal(t, 0, polled.ErrorCount)
	assert.False(t, polled.Stalled)

	// Jobs are listed for the event.
	listResp, err := http.Get(fmt.Sprintf("%s/api/v1/events/%d/imports", srv.URL, event.ID))
	require.NoError(t, err)
	var jobList []struct {
		ID int64 `json:"id"`
	}
	decodeData(t, listResp, &jobList)
	require.Len(t, jobList, 1)

	// List the imported guests.
	guestsResp, err := http.Get(fmt.Sprintf("%s/api/v1/events/%d/guests", srv.URL, event.ID))
	require.NoError(t, err)
	var guestList struct {
		Guests []struct {
			ID        int64   `json:"id"`
			FirstName string  `json:"first_name"`
			IDNumber  *string `json:"id_number"`
		} `json:"guests"`
	}
	decodeData(t, guestsResp, &guestList)
	require.Len(t, guestList.Guests, 2)

	var guestID int64
	for _, g := range guestList.Guests {
		if g.FirstName == "דוד" {
			guestID = g.ID
		}
	}
	require.NotZero(t, guestID)

	// Guest detail folds custom columns in.
	detailResp, err := http.Get(fmt.Sprintf("%s/api/v1/guests/%d", srv.URL, guestID))
	require.NoError(t, err)
	var detail struct {
		FirstName    string            `json:"first_name"`
		CustomFields map[string]string `json:"custom_fields"`
	}
	decodeData(t, detailResp, &detail)
	assert.Equal(t, "דוד", detail.FirstName)
	assert.Equal(t, "אשדוד", detail.CustomFields["הסעה"])

	// Check-in works once, conflicts the second time.
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/guests/%d/check-in", srv.URL, guestID), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, fmt.Sprintf("%s/api/v1/guests/%d/check-in", srv.URL, guestID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	// The header landed in the column catalog.
	colsResp, err := http.Get(srv.URL + "/api/v1/catalog/columns")
	require.NoError(t, err)
	var cols []struct {
		ColumnName string `json:"column_name"`
	}
	decodeData(t, colsResp, &cols)
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.ColumnName)
	}
	assert.Contains(t, names, "הסעה")
	assert.Contains(t, names, "שם פרטי")
}

func TestRouter_ImportValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/events",
		`{"name":"כנס","type":"conference","date":"2026-05-01T10:00:00Z","location":"תל אביב"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var event struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &event)

	// Unsupported extension.
	resp = uploadCSV(t, fmt.Sprintf("%s/api/v1/events/%d/imports", srv.URL, event.ID), "guests.pdf", "x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown event.
	resp = uploadCSV(t, srv.URL+"/api/v1/events/999/imports", "guests.csv", "שם פרטי\nדוד\n")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Unknown job.
	getResp, err := http.Get(srv.URL + "/api/v1/imports/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}

func TestRouter_ErrorLogServedFromUploads(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/events",
		`{"name":"גאלה","type":"gala","date":"2026-07-01T18:00:00Z","location":"חיפה"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var event struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &event)

	uploadURL := fmt.Sprintf("%s/api/v1/events/%d/imports", srv.URL, event.ID)
	resp = uploadCSV(t, uploadURL, "seed.csv", "שם פרטי,שם משפחה,תז\nדוד,כהן,203458762\n")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	// Same identifier under a different name triggers a row error.
	resp = uploadCSV(t, uploadURL, "bad.csv", "שם פרטי,שם משפחה,תז\nיוסי,מזרחי,203458762\n")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var job struct {
		ID int64 `json:"id"`
	}
	decodeData(t, resp, &job)

	pollResp, err := http.Get(fmt.Sprintf("%s/api/v1/imports/%d", srv.URL, job.ID))
	require.NoError(t, err)
	var polled struct {
		Status      string  `json:"status"`
		ErrorLogURL *string `json:"error_log_url"`
	}
	decodeData(t, pollResp, &polled)
	// Rows were processed, so the job finishes partial with a usable
	// error log even though every row errored.
	assert.Equal(t, "partial", polled.Status)
	require.NotNil(t, polled.ErrorLogURL)

	logResp, err := http.Get(srv.URL + *polled.ErrorLogURL)
	require.NoError(t, err)
	defer logResp.Body.Close()
	require.Equal(t, http.StatusOK, logResp.StatusCode)
	body, err := io.ReadAll(logResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "duplicate identifier")
}
