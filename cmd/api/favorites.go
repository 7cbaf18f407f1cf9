package main

import (
	"errors"
	"net/http"
	"strconv"

	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
)

//	@Summary		List my favorites
//	@Tags			favorites
//	@Produce		json
//	@Success		200	{array}	store.FavoritePlace
//	@Security		ApiKeyAuth
//	@Router			/favoritos [get]
func (app *application) listFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	favorites, err := app.store.Favorites.ListByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, favorites); err != nil {
		app.internalServerError(w, r, err)
	}
}

type AddFavoritePayload struct {
	PlaceID int64 `json:"place_id" validate:"required,gt=0"`
}

//	@Summary		Add a favorite
//	@Description	Saving the same place twice is rejected
//	@Tags			favorites
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		AddFavoritePayload	true	"Place to save"
//	@Success		201		{object}	store.Favorite
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/favoritos [post]
func (app *application) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var payload AddFavoritePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	favorite := &store.Favorite{
		UserID:  user.ID,
		PlaceID: payload.PlaceID,
	}

	if err := app.store.Favorites.Add(r.Context(), favorite); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, errors.New("place is already in your favorites"))
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, favorite); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Remove a favorite
//	@Tags			favorites
//	@Produce		json
//	@Param			lugarID	path	int	true	"Place ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/favoritos/lugar/{lugarID} [delete]
func (app *application) removeFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	user := getUserFromContext(r)

	if err := app.store.Favorites.RemoveByPlace(r.Context(), user.ID, placeID); err != nil {
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
