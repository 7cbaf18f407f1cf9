package main

import (
	"net/http"
)

//	@Summary		Get my profile
//	@Tags			users
//	@Produce		json
//	@Success		200	{object}	store.User
//	@Security		ApiKeyAuth
//	@Router			/users/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateUserPayload struct {
	Name            *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Bio             *string  `json:"bio" validate:"omitempty,max=500"`
	Phone           *string  `json:"phone" validate:"omitempty,bolivianphone"`
	PhotoURL        *string  `json:"photo_url" validate:"omitempty,max=512"`
	FoodPreferences []string `json:"food_preferences" validate:"omitempty,max=20"`
	Password        *string  `json:"password" validate:"omitempty,min=8,max=72"`
}

//	@Summary		Update my profile
//	@Description	Merge-updates the profile; omitted fields keep their values
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		UpdateUserPayload	true	"Profile fields"
//	@Success		200		{object}	store.User
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/me [put]
func (app *application) updateCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if payload.Name != nil {
		user.Name = *payload.Name
	}
	if payload.Bio != nil {
		user.Bio = payload.Bio
	}
	if payload.Phone != nil {
		user.Phone = payload.Phone
	}
	if payload.PhotoURL != nil {
		user.PhotoURL = payload.PhotoURL
	}
	if payload.FoodPreferences != nil {
		user.FoodPreferences = payload.FoodPreferences
	}
	if payload.Password != nil {
		if err := user.Password.Set(*payload.Password); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	if err := app.store.Users.UpdateProfile(r.Context(), user); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}
