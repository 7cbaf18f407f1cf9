package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
)

//	@Summary		List active sponsored placements
//	@Description	Placements whose window contains the current time, heaviest first
//	@Tags			sponsored
//	@Produce		json
//	@Success		200	{array}	store.SponsoredPlacement
//	@Router			/sponsored [get]
func (app *application) listActiveSponsoredHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if app.cache != nil {
		cached, err := app.cache.GetActiveSponsored(ctx)
		if err != nil {
			app.logger.Warnw("sponsored cache read failed", "error", err)
		} else if cached != nil {
			if err := app.jsonResponse(w, http.StatusOK, cached); err != nil {
				app.internalServerError(w, r, err)
			}
			return
		}
	}

	placements, err := app.store.Sponsored.ListActive(ctx, app.now())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if app.cache != nil {
		if err := app.cache.SetActiveSponsored(ctx, placements); err != nil {
			app.logger.Warnw("sponsored cache write failed", "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, placements); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Get a sponsored placement
//	@Description	Admin-only
//	@Tags			sponsored
//	@Produce		json
//	@Param			sponsoredID	path		int	true	"Placement ID"
//	@Success		200			{object}	store.SponsoredPlacement
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/sponsored/{sponsoredID} [get]
func (app *application) getSponsoredHandler(w http.ResponseWriter, r *http.Request) {
	placementID, err := strconv.ParseInt(chi.URLParam(r, "sponsoredID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid placement ID"))
		return
	}

	placement, err := app.store.Sponsored.GetByID(r.Context(), placementID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, placement); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateSponsoredPayload struct {
	PlaceID   int64     `json:"place_id" validate:"required,gt=0"`
	Placement string    `json:"placement" validate:"required,oneof=home_top list_result map_banner"`
	Weight    int       `json:"weight" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Active    *bool     `json:"active"`
}

//	@Summary		Create a sponsored placement
//	@Description	Admin-only; weight is clamped to 1-10
//	@Tags			sponsored
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateSponsoredPayload	true	"Placement data"
//	@Success		201		{object}	store.SponsoredPlacement
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/sponsored [post]
func (app *application) createSponsoredHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateSponsoredPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	placement := &store.SponsoredPlacement{
		PlaceID:   payload.PlaceID,
		Placement: payload.Placement,
		Weight:    payload.Weight,
		StartsAt:  payload.StartsAt,
		EndsAt:    payload.EndsAt,
		Active:    active,
	}

	ctx := r.Context()

	if err := app.store.Sponsored.Create(ctx, placement); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if app.cache != nil {
		if err := app.cache.InvalidateSponsored(ctx); err != nil {
			app.logger.Warnw("sponsored cache invalidation failed", "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusCreated, placement); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateSponsoredPayload struct {
	Placement *string    `json:"placement" validate:"omitempty,oneof=home_top list_result map_banner"`
	Weight    *int       `json:"weight"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Active    *bool      `json:"active"`
}

//	@Summary		Update a sponsored placement
//	@Description	Admin-only merge-update; weight is clamped to 1-10
//	@Tags			sponsored
//	@Accept			json
//	@Produce		json
//	@Param			sponsoredID	path		int						true	"Placement ID"
//	@Param			payload		body		UpdateSponsoredPayload	true	"Placement fields"
//	@Success		200			{object}	store.SponsoredPlacement
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/sponsored/{sponsoredID} [put]
func (app *application) updateSponsoredHandler(w http.ResponseWriter, r *http.Request) {
	placementID, err := strconv.ParseInt(chi.URLParam(r, "sponsoredID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid placement ID"))
		return
	}

	var payload UpdateSponsoredPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	placement, err := app.store.Sponsored.Update(ctx, placementID, store.SponsoredUpdate{
		Placement: payload.Placement,
		Weight:    payload.Weight,
		StartsAt:  payload.StartsAt,
		EndsAt:    payload.EndsAt,
		Active:    payload.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if app.cache != nil {
		if err := app.cache.InvalidateSponsored(ctx); err != nil {
			app.logger.Warnw("sponsored cache invalidation failed", "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, placement); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Delete a sponsored placement
//	@Description	Admin-only hard delete
//	@Tags			sponsored
//	@Produce		json
//	@Param			sponsoredID	path	int	true	"Placement ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/sponsored/{sponsoredID} [delete]
func (app *application) deleteSponsoredHandler(w http.ResponseWriter, r *http.Request) {
	placementID, err := strconv.ParseInt(chi.URLParam(r, "sponsoredID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid placement ID"))
		return
	}

	ctx := r.Context()

	if err := app.store.Sponsored.Delete(ctx, placementID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if app.cache != nil {
		if err := app.cache.InvalidateSponsored(ctx); err != nil {
			app.logger.Warnw("sponsored cache invalidation failed", "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
