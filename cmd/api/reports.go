package main

import (
	"errors"
	"net/http"
	"strconv"

	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateReportPayload struct {
	TargetType string  `json:"target_type" validate:"required,oneof=place review"`
	TargetID   int64   `json:"target_id" validate:"required,gt=0"`
	Reason     string  `json:"reason" validate:"required,min=3,max=200"`
	Details    *string `json:"details" validate:"omitempty,max=2000"`
}

//	@Summary		Report a place or review
//	@Description	The report starts pending and waits for a moderator
//	@Tags			reports
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateReportPayload	true	"Report data"
//	@Success		201		{object}	store.Report
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/reportes [post]
func (app *application) createReportHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateReportPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	// The target has to exist before we accept the report.
	switch payload.TargetType {
	case "place":
		_, err := app.store.Places.GetByID(ctx, payload.TargetID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				app.notFoundResponse(w, r, err)
			default:
				app.internalServerError(w, r, err)
			}
			return
		}
	case "review":
		_, err := app.store.Reviews.GetByID(ctx, payload.TargetID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				app.notFoundResponse(w, r, err)
			default:
				app.internalServerError(w, r, err)
			}
			return
		}
	}

	user := getUserFromContext(r)

	report := &store.Report{
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		ReporterID: user.ID,
		Reason:     payload.Reason,
		Details:    payload.Details,
	}

	if err := app.store.Reports.Create(ctx, report); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, report); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		List reports
//	@Description	Admin-only moderation queue, newest first
//	@Tags			reports
//	@Produce		json
//	@Success		200	{array}	store.Report
//	@Security		ApiKeyAuth
//	@Router			/reportes [get]
func (app *application) listReportsHandler(w http.ResponseWriter, r *http.Request) {
	reports, err := app.store.Reports.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, reports); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateReportPayload struct {
	Status string `json:"status" validate:"required,oneof=resolved discarded"`
}

//	@Summary		Settle a report
//	@Description	Admin-only; resolved and discarded are terminal, settled reports cannot change again
//	@Tags			reports
//	@Accept			json
//	@Produce		json
//	@Param			reporteID	path		int					true	"Report ID"
//	@Param			payload		body		UpdateReportPayload	true	"New status"
//	@Success		200			{object}	store.Report
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/reportes/{reporteID} [put]
func (app *application) updateReportHandler(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(chi.URLParam(r, "reporteID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid report ID"))
		return
	}

	var payload UpdateReportPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	report, err := app.store.Reports.UpdateStatus(r.Context(), reportID, payload.Status)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, errors.New("report has already been settled"))
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, report); err != nil {
		app.internalServerError(w, r, err)
	}
}
