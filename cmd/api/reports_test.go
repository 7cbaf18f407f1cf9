package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"jiwasa/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	app, ms := newTestApp(t)
	user := testUser()
	header := authHeader(t, app, ms, user)

	ms.Places.On("GetByID", mock.Anything, int64(10)).Return(&store.Place{ID: 10}, nil)
	ms.Reports.On("Create", mock.Anything, mock.AnythingOfType("*store.Report")).
		Run(func(args mock.Arguments) {
			report := args.Get(1).(*store.Report)
			report.ID = 5
			report.Status = "pending"
		}).
		Return(nil)

	body, _ := json.Marshal(CreateReportPayload{
		TargetType: "place", TargetID: 10, Reason: "Ya no existe el puesto",
	})
	req, _ := http.NewRequest(http.MethodPost, "/v1/reportes", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	ms.Reports.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(rep *store.Report) bool {
		return rep.ReporterID == user.ID && rep.TargetType == "place" && rep.TargetID == 10
	}))
}

func TestCreateReportUnknownTarget(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testUser())

	ms.Reviews.On("GetByID", mock.Anything, int64(404)).Return(nil, store.ErrNotFound)

	body, _ := json.Marshal(CreateReportPayload{
		TargetType: "review", TargetID: 404, Reason: "Contenido ofensivo",
	})
	req, _ := http.NewRequest(http.MethodPost, "/v1/reportes", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	ms.Reports.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListReportsRequiresAdmin(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testUser())

	req, _ := http.NewRequest(http.MethodGet, "/v1/reportes", nil)
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	ms.Reports.AssertNotCalled(t, "List", mock.Anything)
}

func TestSettleReport(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	settled := &store.Report{ID: 5, Status: "resolved"}
	ms.Reports.On("UpdateStatus", mock.Anything, int64(5), "resolved").Return(settled, nil)

	body, _ := json.Marshal(UpdateReportPayload{Status: "resolved"})
	req, _ := http.NewRequest(http.MethodPut, "/v1/reportes/5", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data store.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, "resolved", envelope.Data.Status)
}

func TestSettleReportAlreadySettled(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	ms.Reports.On("UpdateStatus", mock.Anything, int64(5), "discarded").
		Return(nil, store.ErrConflict)

	body, _ := json.Marshal(UpdateReportPayload{Status: "discarded"})
	req, _ := http.NewRequest(http.MethodPut, "/v1/reportes/5", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSettleReportInvalidStatus(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	body, _ := json.Marshal(UpdateReportPayload{Status: "pending"})
	req, _ := http.NewRequest(http.MethodPut, "/v1/reportes/5", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ms.Reports.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
