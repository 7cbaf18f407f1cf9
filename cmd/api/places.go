package main

import (
	"errors"
	"net/http"
	"strconv"

	"jiwasa/internal/params"
	"jiwasa/internal/schedule"
	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
)

const placesPageSize = 10

type PlaceListResponse struct {
	Places []store.Place `json:"places"`
	Page   int           `json:"page"`
	Pages  int           `json:"pages"`
}

//	@Summary		List places
//	@Description	Active places with keyword/zone/type filters, optional proximity, paginated
//	@Tags			places
//	@Produce		json
//	@Param			keyword		query		string	false	"Matches name, zone, address or food types"
//	@Param			zona		query		string	false	"Exact zone"
//	@Param			tipo		query		string	false	"Place category"
//	@Param			lat			query		number	false	"Latitude for proximity search"
//	@Param			lng			query		number	false	"Longitude for proximity search"
//	@Param			distance	query		number	false	"Radius in meters"
//	@Param			page		query		int		false	"Page number"
//	@Success		200			{object}	PlaceListResponse
//	@Router			/lugares [get]
func (app *application) listPlacesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.PlaceFilter{
		Keyword:  q.Get("keyword"),
		Zone:     q.Get("zona"),
		Category: q.Get("tipo"),
		FoodType: q.Get("comida"),
	}

	if distStr := q.Get("distance"); distStr != "" {
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
		dist, distErr := strconv.ParseFloat(distStr, 64)
		if latErr != nil || lngErr != nil || distErr != nil || dist <= 0 {
			app.badRequestResponse(w, r, errors.New("proximity search needs valid lat, lng and distance"))
			return
		}
		filter.Latitude = lat
		filter.Longitude = lng
		filter.RadiusMeters = dist
	}

	page := params.ParsePage(q, placesPageSize)

	places, total, err := app.store.Places.List(r.Context(), filter, page.Size, page.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	page.ComputeMeta(total)

	now := app.now()
	for i := range places {
		places[i].IsOpen = places[i].Schedule.IsOpenAt(now)
	}

	resp := PlaceListResponse{Places: places, Page: page.Number, Pages: page.TotalPages}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Get a place
//	@Description	Fetches one place with derived rating and open-now flag
//	@Tags			places
//	@Produce		json
//	@Param			lugarID	path		int	true	"Place ID"
//	@Success		200		{object}	store.Place
//	@Failure		404		{object}	error
//	@Router			/lugares/{lugarID} [get]
func (app *application) getPlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	place, err := app.store.Places.GetByID(r.Context(), placeID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	place.IsOpen = place.Schedule.IsOpenAt(app.now())

	if err := app.jsonResponse(w, http.StatusOK, place); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreatePlacePayload struct {
	Name        string            `json:"name" validate:"required,min=2,max=150"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	Category    string            `json:"category" validate:"required,oneof=street market restaurant cafe other"`
	Zone        string            `json:"zone" validate:"required,max=100"`
	Address     string            `json:"address" validate:"required,max=255"`
	Latitude    float64           `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude   float64           `json:"longitude" validate:"required,min=-180,max=180"`
	FoodTypes   []string          `json:"food_types" validate:"omitempty,max=20"`
	PriceRange  *string           `json:"price_range" validate:"omitempty,oneof=low medium high"`
	Phone       *string           `json:"phone" validate:"omitempty,max=20"`
	Email       *string           `json:"email" validate:"omitempty,email"`
	Website     *string           `json:"website" validate:"omitempty,url"`
	SocialLinks map[string]string `json:"social_links" validate:"omitempty,max=10"`
	Schedule    schedule.Weekly   `json:"schedule"`
	Photos      []string          `json:"photos" validate:"omitempty,max=10"`
	Visibility  string            `json:"visibility" validate:"omitempty,oneof=normal premium sponsored"`
	Featured    bool              `json:"featured"`
}

func (p *CreatePlacePayload) toPlace(status string, ownerID *int64) *store.Place {
	return &store.Place{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Zone:        p.Zone,
		Address:     p.Address,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		FoodTypes:   p.FoodTypes,
		PriceRange:  p.PriceRange,
		Phone:       p.Phone,
		Email:       p.Email,
		Website:     p.Website,
		SocialLinks: p.SocialLinks,
		Schedule:    p.Schedule,
		Photos:      p.Photos,
		Status:      status,
		Visibility:  p.Visibility,
		Featured:    p.Featured,
		OwnerID:     ownerID,
	}
}

//	@Summary		Create a place
//	@Description	Admin-only; the place is immediately active
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreatePlacePayload	true	"Place data"
//	@Success		201		{object}	store.Place
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/lugares [post]
func (app *application) createPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	place := payload.toPlace("active", &user.ID)

	if err := app.store.Places.Create(r.Context(), place); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, place); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Suggest a place
//	@Description	Any authenticated user may submit a place; it stays pending until an admin reviews it
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreatePlacePayload	true	"Place data"
//	@Success		201		{object}	store.Place
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/lugares/sugerencias [post]
func (app *application) suggestPlaceHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	place := payload.toPlace("pending", &user.ID)

	if err := app.store.Places.Create(r.Context(), place); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, place); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdatePlacePayload struct {
	Name        *string           `json:"name" validate:"omitempty,min=2,max=150"`
	Description *string           `json:"description" validate:"omitempty,max=2000"`
	Category    *string           `json:"category" validate:"omitempty,oneof=street market restaurant cafe other"`
	Zone        *string           `json:"zone" validate:"omitempty,max=100"`
	Address     *string           `json:"address" validate:"omitempty,max=255"`
	Latitude    *float64          `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64          `json:"longitude" validate:"omitempty,min=-180,max=180"`
	FoodTypes   []string          `json:"food_types" validate:"omitempty,max=20"`
	PriceRange  *string           `json:"price_range" validate:"omitempty,oneof=low medium high"`
	Phone       *string           `json:"phone" validate:"omitempty,max=20"`
	Email       *string           `json:"email" validate:"omitempty,email"`
	Website     *string           `json:"website" validate:"omitempty,url"`
	SocialLinks map[string]string `json:"social_links" validate:"omitempty,max=10"`
	Schedule    *schedule.Weekly  `json:"schedule"`
	Photos      []string          `json:"photos" validate:"omitempty,max=10"`
	Status      *string           `json:"status" validate:"omitempty,oneof=active closed pending"`
	Visibility  *string           `json:"visibility" validate:"omitempty,oneof=normal premium sponsored"`
	Featured    *bool             `json:"featured"`
}

//	@Summary		Update a place
//	@Description	Admin-only merge-update; omitted fields keep their values
//	@Tags			places
//	@Accept			json
//	@Produce		json
//	@Param			lugarID	path		int					true	"Place ID"
//	@Param			payload	body		UpdatePlacePayload	true	"Place fields"
//	@Success		200		{object}	store.Place
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/lugares/{lugarID} [put]
func (app *application) updatePlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	var payload UpdatePlacePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	place, err := app.store.Places.GetByID(ctx, placeID)
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
		place.Name = *payload.Name
	}
	if payload.Description != nil {
		place.Description = payload.Description
	}
	if payload.Category != nil {
		place.Category = *payload.Category
	}
	if payload.Zone != nil {
		place.Zone = *payload.Zone
	}
	if payload.Address != nil {
		place.Address = *payload.Address
	}
	if payload.Latitude != nil {
		place.Latitude = *payload.Latitude
	}
	if payload.Longitude != nil {
		place.Longitude = *payload.Longitude
	}
	if payload.FoodTypes != nil {
		place.FoodTypes = payload.FoodTypes
	}
	if payload.PriceRange != nil {
		place.PriceRange = payload.PriceRange
	}
	if payload.Phone != nil {
		place.Phone = payload.Phone
	}
	if payload.Email != nil {
		place.Email = payload.Email
	}
	if payload.Website != nil {
		place.Website = payload.Website
	}
	if payload.SocialLinks != nil {
		place.SocialLinks = payload.SocialLinks
	}
	if payload.Schedule != nil {
		place.Schedule = *payload.Schedule
	}
	if payload.Photos != nil {
		place.Photos = payload.Photos
	}
	if payload.Status != nil {
		place.Status = *payload.Status
	}
	if payload.Visibility != nil {
		place.Visibility = *payload.Visibility
	}
	if payload.Featured != nil {
		place.Featured = *payload.Featured
	}

	if err := app.store.Places.Update(ctx, place); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	place.IsOpen = place.Schedule.IsOpenAt(app.now())

	if err := app.jsonResponse(w, http.StatusOK, place); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Close a place
//	@Description	Admin-only soft delete; the place is marked closed, never removed
//	@Tags			places
//	@Produce		json
//	@Param			lugarID	path	int	true	"Place ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/lugares/{lugarID} [delete]
func (app *application) closePlaceHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	if err := app.store.Places.SoftClose(r.Context(), placeID); err != nil {
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
