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

func TestListDishes(t *testing.T) {
	app, ms := newTestApp(t)

	ms.Places.On("GetByID", mock.Anything, int64(10)).Return(&store.Place{ID: 10}, nil)
	dishes := []store.Dish{
		{ID: 1, PlaceID: 10, Name: "Salteña de pollo", Price: 8},
		{ID: 2, PlaceID: 10, Name: "Api con pastel", Price: 10},
	}
	ms.Dishes.On("ListByPlace", mock.Anything, int64(10)).Return(dishes, nil)

	req, _ := http.NewRequest(http.MethodGet, "/v1/lugares/10/platos", nil)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data []store.Dish `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestListDishesUnknownPlace(t *testing.T) {
	app, ms := newTestApp(t)

	ms.Places.On("GetByID", mock.Anything, int64(404)).Return(nil, store.ErrNotFound)

	req, _ := http.NewRequest(http.MethodGet, "/v1/lugares/404/platos", nil)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	ms.Dishes.AssertNotCalled(t, "ListByPlace", mock.Anything, mock.Anything)
}

func TestCreateDishRejectsFreeDish(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	body, _ := json.Marshal(CreateDishPayload{Name: "Plato regalado", Price: 0})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/platos", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ms.Dishes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDish(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	ms.Dishes.On("Create", mock.Anything, mock.AnythingOfType("*store.Dish")).Return(nil)

	body, _ := json.Marshal(CreateDishPayload{Name: "Plato paceño", Price: 25})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/platos", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	ms.Dishes.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(d *store.Dish) bool {
		return d.PlaceID == 10 && d.Available
	}))
}

func TestCreateDishCarriesCategoryAndTags(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	ms.Dishes.On("Create", mock.Anything, mock.AnythingOfType("*store.Dish")).Return(nil)

	category := "desayuno"
	body, _ := json.Marshal(CreateDishPayload{
		Name:     "Salteña de carne",
		Price:    8,
		Category: &category,
		Tags:     []string{"picante", "tipico"},
		Featured: true,
	})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/platos", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	ms.Dishes.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(d *store.Dish) bool {
		return d.Category != nil && *d.Category == "desayuno" &&
			len(d.Tags) == 2 && d.Tags[0] == "picante" &&
			d.Featured
	}))
}

func TestDeleteDish(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	ms.Dishes.On("Delete", mock.Anything, int64(7)).Return(nil)

	req, _ := http.NewRequest(http.MethodDelete, "/v1/platos/7", nil)
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}
