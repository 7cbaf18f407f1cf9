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

func TestCreateReview(t *testing.T) {
	app, ms := newTestApp(t)
	user := testUser()
	header := authHeader(t, app, ms, user)

	ms.Reviews.On("Create", mock.Anything, mock.AnythingOfType("*store.Review")).
		Run(func(args mock.Arguments) {
			review := args.Get(1).(*store.Review)
			review.ID = 77
		}).
		Return(nil)

	body, _ := json.Marshal(CreateReviewPayload{Rating: 5, Comment: "Las mejores salteñas de la zona"})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/resenas", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	ms.Reviews.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(r *store.Review) bool {
		return r.PlaceID == 10 && r.UserID == user.ID && r.Rating == 5
	}))
}

func TestCreateReviewDuplicate(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testUser())

	ms.Reviews.On("Create", mock.Anything, mock.AnythingOfType("*store.Review")).
		Return(store.ErrConflict)

	body, _ := json.Marshal(CreateReviewPayload{Rating: 4, Comment: "Segunda reseña"})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/resenas", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateReviewRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	body, _ := json.Marshal(CreateReviewPayload{Rating: 4, Comment: "Sin token"})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/resenas", bytes.NewBuffer(body))

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateReviewInvalidRating(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testUser())

	body, _ := json.Marshal(CreateReviewPayload{Rating: 6, Comment: "Demasiadas estrellas"})
	req, _ := http.NewRequest(http.MethodPost, "/v1/lugares/10/resenas", bytes.NewBuffer(body))
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ms.Reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListReviewsPagination(t *testing.T) {
	app, ms := newTestApp(t)

	reviews := []store.Review{{ID: 1, PlaceID: 10, Rating: 5}, {ID: 2, PlaceID: 10, Rating: 3}}
	ms.Reviews.On("ListByPlace", mock.Anything, int64(10), reviewsPageSize, reviewsPageSize).
		Return(reviews, 12, nil)

	req, _ := http.NewRequest(http.MethodGet, "/v1/lugares/10/resenas?page=2", nil)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data ReviewListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Page)
	assert.Equal(t, 3, envelope.Data.Pages)
	assert.Len(t, envelope.Data.Reviews, 2)
}

func TestMarkReviewHelpful(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testUser())

	ms.Reviews.On("IncrementHelpful", mock.Anything, int64(44)).Return(8, nil)

	req, _ := http.NewRequest(http.MethodPost, "/v1/resenas/44/util", nil)
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var envelope struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, 8, envelope.Data["helpful_count"])
}

func TestMarkReviewHelpfulNotFound(t *testing.T) {
	app, ms := newTestApp(t)
	header := authHeader(t, app, ms, testUser())

	ms.Reviews.On("IncrementHelpful", mock.Anything, int64(999)).Return(0, store.ErrNotFound)

	req, _ := http.NewRequest(http.MethodPost, "/v1/resenas/999/util", nil)
	req.Header.Set("Authorization", header)

	rr := executeRequest(app, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
