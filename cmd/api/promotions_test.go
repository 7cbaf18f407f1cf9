package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"jiwasa/internal/cache"
	"jiwasa/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withTestCache(t *testing.T, app *application) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := cache.NewClient(mr.Addr(), "", 0, 30*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	app.cache = client
}

func TestListActivePromotions(t *testing.T) {
	app, ms := newTestApp(t)

	promotions := []store.Promotion{
		{ID: 1, PlaceID: 10, Title: "2x1 en salteñas", Active: true},
	}
	ms.Promotions.On("ListActive", mock.Anything, testNow).Return(promotions, nil)

	req, _ := http.NewRequest(http.MethodGet, "/v1/promociones", nil)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data []store.Promotion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "2x1 en salteñas", envelope.Data[0].Title)
}

func TestListActivePromotionsServedFromCache(t *testing.T) {
	app, ms := newTestApp(t)
	withTestCache(t, app)

	promotions := []store.Promotion{{ID: 1, PlaceID: 10, Title: "Api con pastel"}}
	ms.Promotions.On("ListActive", mock.Anything, testNow).Return(promotions, nil).Once()

	// First hit goes to the store and warms the cache.
	req, _ := http.NewRequest(http.MethodGet, "/v1/promociones", nil)
	rr := executeRequest(app, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// Second hit is answered from the cache alone.
	rr = executeRequest(app, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data []store.Promotion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Api con pastel", envelope.Data[0].Title)

	ms.Promotions.AssertNumberOfCalls(t, "ListActive", 1)
}

func TestListPlacePromotions(t *testing.T) {
	app, ms := newTestApp(t)

	ms.Places.On("GetByID", mock.Anything, int64(10)).Return(&store.Place{ID: 10}, nil)
	promotions := []store.Promotion{
		{ID: 1, PlaceID: 10, Title: "Almuerzo ejecutivo", Active: true},
		{ID: 2, PlaceID: 10, Title: "Promo pasada", Active: false},
	}
	ms.Promotions.On("ListByPlace", mock.Anything, int64(10)).Return(promotions, nil)

	req, _ := http.NewRequest(http.MethodGet, "/v1/lugares/10/promociones", nil)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data []store.Promotion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestCreatePromotionForDish(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	ms.Promotions.On("Create", mock.Anything, mock.AnythingOfType("*store.Promotion")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*store.Promotion).ID = 5
		}).
		Return(nil)

	dishID := int64(4)
	promoPrice := 12.5
	discount := 20.0
	body, _ := json.Marshal(CreatePromotionPayload{
		DishID:             &dishID,
		Title:              "Salteña a precio de feria",
		PromoPrice:         &promoPrice,
		DiscountPercentage: &discount,
		StartsAt:           testNow,
		EndsAt:             testNow.Add(48 * time.Hour),
	})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/promociones", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	ms.Promotions.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(pr *store.Promotion) bool {
		return pr.PlaceID == 10 &&
			pr.DishID != nil && *pr.DishID == dishID &&
			pr.PromoPrice != nil && *pr.PromoPrice == promoPrice &&
			pr.DiscountPercentage != nil && *pr.DiscountPercentage == discount
	}))

	var envelope struct {
		Data store.Promotion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.DishID)
	assert.Equal(t, dishID, *envelope.Data.DishID)
}

func TestCreatePromotionRejectsExcessiveDiscount(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	discount := 150.0
	body, _ := json.Marshal(CreatePromotionPayload{
		Title:              "Descuento imposible",
		DiscountPercentage: &discount,
		StartsAt:           testNow,
		EndsAt:             testNow.Add(time.Hour),
	})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/promociones", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ms.Promotions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdatePromotionWindowValidation(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testAdmin())

	existing := &store.Promotion{
		ID: 1, PlaceID: 10, Title: "Promo",
		StartsAt: testNow, EndsAt: testNow.Add(48 * time.Hour), Active: true,
	}
	ms.Promotions.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)

	// Moving the end before the start must be rejected.
	badEnd := testNow.Add(-time.Hour)
	body, _ := json.Marshal(UpdatePromotionPayload{EndsAt: &badEnd})
	req, _ := http.NewRequest(http.MethodPut, "/v1/promociones/1", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ms.Promotions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
