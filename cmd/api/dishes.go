package main

import (
	"errors"
	"net/http"
	"strconv"

	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
)

//	@Summary		List dishes of a place
//	@Tags			dishes
//	@Produce		json
//	@Param			lugarID	path		int	true	"Place ID"
//	@Success		200		{array}		store.Dish
//	@Failure		404		{object}	error
//	@Router			/lugares/{lugarID}/platos [get]
func (app *application) listDishesHandler(w http.ResponseWriter, r *http.Request) {
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

	dishes, err := app.store.Dishes.ListByPlace(ctx, placeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, dishes); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateDishPayload struct {
	Name        string   `json:"name" validate:"required,min=2,max=150"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	Tags        []string `json:"tags" validate:"omitempty,max=20"`
	PhotoURL    *string  `json:"photo_url" validate:"omitempty,max=512"`
	Available   *bool    `json:"available"`
	Featured    bool     `json:"featured"`
}

//	@Summary		Create a dish
//	@Description	Admin-only
//	@Tags			dishes
//	@Accept			json
//	@Produce		json
//	@Param			lugarID	path		int					true	"Place ID"
//	@Param			payload	body		CreateDishPayload	true	"Dish data"
//	@Success		201		{object}	store.Dish
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/lugares/{lugarID}/platos [post]
func (app *application) createDishHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	var payload CreateDishPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	available := true
	if payload.Available != nil {
		available = *payload.Available
	}

	dish := &store.Dish{
		PlaceID:     placeID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Tags:        payload.Tags,
		PhotoURL:    payload.PhotoURL,
		Available:   available,
		Featured:    payload.Featured,
	}

	if err := app.store.Dishes.Create(r.Context(), dish); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, dish); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateDishPayload struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=150"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	Tags        []string `json:"tags" validate:"omitempty,max=20"`
	PhotoURL    *string  `json:"photo_url" validate:"omitempty,max=512"`
	Available   *bool    `json:"available"`
	Featured    *bool    `json:"featured"`
}

//	@Summary		Update a dish
//	@Description	Admin-only merge-update
//	@Tags			dishes
//	@Accept			json
//	@Produce		json
//	@Param			platoID	path		int					true	"Dish ID"
//	@Param			payload	body		UpdateDishPayload	true	"Dish fields"
//	@Success		200		{object}	store.Dish
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/platos/{platoID} [put]
func (app *application) updateDishHandler(w http.ResponseWriter, r *http.Request) {
	dishID, err := strconv.ParseInt(chi.URLParam(r, "platoID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid dish ID"))
		return
	}

	var payload UpdateDishPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	dish, err := app.store.Dishes.GetByID(ctx, dishID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if payload.Name != nil {
		dish.Name = *payload.Name
	}
	if payload.Description != nil {
		dish.Description = payload.Description
	}
	if payload.Price != nil {
		dish.Price = *payload.Price
	}
	if payload.Category != nil {
		dish.Category = payload.Category
	}
	if payload.Tags != nil {
		dish.Tags = payload.Tags
	}
	if payload.PhotoURL != nil {
		dish.PhotoURL = payload.PhotoURL
	}
	if payload.Available != nil {
		dish.Available = *payload.Available
	}
	if payload.Featured != nil {
		dish.Featured = *payload.Featured
	}

	if err := app.store.Dishes.Update(ctx, dish); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, dish); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Delete a dish
//	@Description	Admin-only hard delete
//	@Tags			dishes
//	@Produce		json
//	@Param			platoID	path	int	true	"Dish ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/platos/{platoID} [delete]
func (app *application) deleteDishHandler(w http.ResponseWriter, r *http.Request) {
	dishID, err := strconv.ParseInt(chi.URLParam(r, "platoID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid dish ID"))
		return
	}

	if err := app.store.Dishes.Delete(r.Context(), dishID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
