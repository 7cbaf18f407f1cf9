package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
)

//	@Summary		List promotions of a place
//	@Description	Every promotion a place has published, regardless of window
//	@Tags			promotions
//	@Produce		json
//	@Param			lugarID	path		int	true	"Place ID"
//	@Success		200		{array}		store.Promotion
//	@Failure		404		{object}	error
//	@Router			/lugares/{lugarID}/promociones [get]
func (app *application) listPlacePromotionsHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	ctx := r.Context()

	if _, err := app.store.Places.GetByID(ctx, placeID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	promotions, err := app.store.Promotions.ListByPlace(ctx, placeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, promotions); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		List active promotions
//	@Description	Promotions whose window contains the current time, across all places
//	@Tags			promotions
//	@Produce		json
//	@Success		200	{array}	store.Promotion
//	@Router			/promociones [get]
func (app *application) listActivePromotionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if app.cache != nil {
		cached, err := app.cache.GetActivePromotions(ctx)
		if err != nil {
			app.logger.Warnw("promotions cache read failed", "error", err)
		} else if cached != nil {
			if err := app.jsonResponse(w, http.StatusOK, cached); err != nil {
				app.internalServerError(w, r, err)
			}
			return
		}
	}

	promotions, err := app.store.Promotions.ListActive(ctx, app.now())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if app.cache != nil {
		if err := app.cache.SetActivePromotions(ctx, promotions); err != nil {
			app.logger.Warnw("promotions cache write failed", "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, promotions); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreatePromotionPayload struct {
	DishID             *int64    `json:"dish_id" validate:"omitempty,gt=0"`
	Title              string    `json:"title" validate:"required,min=3,max=150"`
	Description        *string   `json:"description" validate:"omitempty,max=1000"`
	PromoPrice         *float64  `json:"promo_price" validate:"omitempty,gt=0"`
	DiscountPercentage *float64  `json:"discount_percentage" validate:"omitempty,gt=0,lte=100"`
	StartsAt           time.Time `json:"starts_at" validate:"required"`
	EndsAt             time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Active             *bool     `json:"active"`
}

//	@Summary		Create a promotion
//	@Description	Admin-only; the end of the window must come after the start
//	@Tags			promotions
//	@Accept			json
//	@Produce		json
//	@Param			lugarID	path		int						true	"Place ID"
//	@Param			payload	body		CreatePromotionPayload	true	"Promotion data"
//	@Success		201		{object}	store.Promotion
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/lugares/{lugarID}/promociones [post]
func (app *application) createPromotionHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	var payload CreatePromotionPayload
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

	promotion := &store.Promotion{
		PlaceID:            placeID,
		DishID:             payload.DishID,
		Title:              payload.Title,
		Description:        payload.Description,
		PromoPrice:         payload.PromoPrice,
		DiscountPercentage: payload.DiscountPercentage,
		StartsAt:           payload.StartsAt,
		EndsAt:             payload.EndsAt,
		Active:             active,
	}

	ctx := r.Context()

	if err := app.store.Promotions.Create(ctx, promotion); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if app.cache != nil {
		if err := app.cache.InvalidatePromotions(ctx); err != nil {
			app.logger.Warnw("promotions cache invalidation failed", "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusCreated, promotion); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdatePromotionPayload struct {
	DishID             *int64     `json:"dish_id" validate:"omitempty,gt=0"`
	Title              *string    `json:"title" validate:"omitempty,min=3,max=150"`
	Description        *string    `json:"description" validate:"omitempty,max=1000"`
	PromoPrice         *float64   `json:"promo_price" validate:"omitempty,gt=0"`
	DiscountPercentage *float64   `json:"discount_percentage" validate:"omitempty,gt=0,lte=100"`
	StartsAt           *time.Time `json:"starts_at"`
	EndsAt             *time.Time `json:"ends_at"`
	Active             *bool      `json:"active"`
}

//	@Summary		Update a promotion
//	@Description	Admin-only merge-update
//	@Tags			promotions
//	@Accept			json
//	@Produce		json
//	@Param			promocionID	path		int						true	"Promotion ID"
//	@Param			payload		body		UpdatePromotionPayload	true	"Promotion fields"
//	@Success		200			{object}	store.Promotion
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/promociones/{promocionID} [put]
func (app *application) updatePromotionHandler(w http.ResponseWriter, r *http.Request) {
	promotionID, err := strconv.ParseInt(chi.URLParam(r, "promocionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid promotion ID"))
		return
	}

	var payload UpdatePromotionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	promotion, err := app.store.Promotions.GetByID(ctx, promotionID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if payload.DishID != nil {
		promotion.DishID = payload.DishID
	}
	if payload.Title != nil {
		promotion.Title = *payload.Title
	}
	if payload.Description != nil {
		promotion.Description = payload.Description
	}
	if payload.PromoPrice != nil {
		promotion.PromoPrice = payload.PromoPrice
	}
	if payload.DiscountPercentage != nil {
		promotion.DiscountPercentage = payload.DiscountPercentage
	}
	if payload.StartsAt != nil {
		promotion.StartsAt = *payload.StartsAt
	}
	if payload.EndsAt != nil {
		promotion.EndsAt = *payload.EndsAt
	}
	if payload.Active != nil {
		promotion.Active = *payload.Active
	}

	if !promotion.EndsAt.After(promotion.StartsAt) {
		app.badRequestResponse(w, r, errors.New("promotion must end after it starts"))
		return
	}

	if err := app.store.Promotions.Update(ctx, promotion); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if app.cache != nil {
		if err := app.cache.InvalidatePromotions(ctx); err != nil {
			app.logger.Warnw("promotions cache invalidation failed", "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, promotion); err != nil {
		app.internalServerError(w, r, err)
	}
}
