package main

import (
	"errors"
	"net/http"
	"strconv"

	"jiwasa/internal/params"
	"jiwasa/internal/store"

	"github.com/go-chi/chi/v5"
)

const reviewsPageSize = 5

type ReviewListResponse struct {
	Reviews []store.Review `json:"reviews"`
	Page    int            `json:"page"`
	Pages   int            `json:"pages"`
}

//	@Summary		List reviews of a place
//	@Description	Newest first, five per page, with reviewer name and photo
//	@Tags			reviews
//	@Produce		json
//	@Param			lugarID	path		int	true	"Place ID"
//	@Param			page	query		int	false	"Page number"
//	@Success		200		{object}	ReviewListResponse
//	@Failure		404		{object}	error
//	@Router			/lugares/{lugarID}/resenas [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	page := params.ParsePage(r.URL.Query(), reviewsPageSize)

	reviews, total, err := app.store.Reviews.ListByPlace(r.Context(), placeID, page.Size, page.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	page.ComputeMeta(total)

	resp := ReviewListResponse{Reviews: reviews, Page: page.Number, Pages: page.TotalPages}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateReviewPayload struct {
	Rating  int      `json:"rating" validate:"required,min=1,max=5"`
	Comment string   `json:"comment" validate:"required,min=3,max=2000"`
	Photos  []string `json:"photos" validate:"omitempty,max=5"`
}

//	@Summary		Review a place
//	@Description	One review per user and place; the place's rating aggregate updates in the same transaction
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			lugarID	path		int					true	"Place ID"
//	@Param			payload	body		CreateReviewPayload	true	"Review data"
//	@Success		201		{object}	store.Review
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/lugares/{lugarID}/resenas [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(chi.URLParam(r, "lugarID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid place ID"))
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	review := &store.Review{
		PlaceID: placeID,
		UserID:  user.ID,
		Rating:  payload.Rating,
		Comment: &payload.Comment,
		Photos:  payload.Photos,
	}

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, errors.New("you have already reviewed this place"))
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	review.UserName = user.Name
	review.UserPhotoURL = user.PhotoURL

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

//	@Summary		Mark a review helpful
//	@Description	Increments the helpful counter and returns the new count
//	@Tags			reviews
//	@Produce		json
//	@Param			resenaID	path		int	true	"Review ID"
//	@Success		200			{object}	map[string]int
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/resenas/{resenaID}/util [post]
func (app *application) markReviewHelpfulHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "resenaID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	count, err := app.store.Reviews.IncrementHelpful(r.Context(), reviewID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]int{"helpful_count": count}); err != nil {
		app.internalServerError(w, r, err)
	}
}
