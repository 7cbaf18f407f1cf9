package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jiwasa/internal/auth"
	"jiwasa/internal/ratelimiter"
	"jiwasa/internal/store"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) Create(ctx context.Context, user *store.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersStore) GetByID(ctx context.Context, userID int64) (*store.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUsersStore) GetByEmail(ctx context.Context, email string) (*store.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUsersStore) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	args := m.Called(ctx, userID, googleID)
	return args.Error(0)
}

func (m *MockUsersStore) UpdateProfile(ctx context.Context, user *store.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersStore) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockUsersStore) ClearRefreshToken(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockPlacesStore struct {
	mock.Mock
}

func (m *MockPlacesStore) List(ctx context.Context, filter store.PlaceFilter, limit, offset int) ([]store.Place, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]store.Place), args.Int(1), args.Error(2)
}

func (m *MockPlacesStore) GetByID(ctx context.Context, placeID int64) (*store.Place, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Place), args.Error(1)
}

func (m *MockPlacesStore) Create(ctx context.Context, place *store.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

func (m *MockPlacesStore) Update(ctx context.Context, place *store.Place) error {
	args := m.Called(ctx, place)
	return args.Error(0)
}

func (m *MockPlacesStore) SoftClose(ctx context.Context, placeID int64) error {
	args := m.Called(ctx, placeID)
	return args.Error(0)
}

type MockDishesStore struct {
	mock.Mock
}

func (m *MockDishesStore) ListByPlace(ctx context.Context, placeID int64) ([]store.Dish, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Dish), args.Error(1)
}

func (m *MockDishesStore) GetByID(ctx context.Context, dishID int64) (*store.Dish, error) {
	args := m.Called(ctx, dishID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Dish), args.Error(1)
}

func (m *MockDishesStore) Create(ctx context.Context, dish *store.Dish) error {
	args := m.Called(ctx, dish)
	return args.Error(0)
}

func (m *MockDishesStore) Update(ctx context.Context, dish *store.Dish) error {
	args := m.Called(ctx, dish)
	return args.Error(0)
}

func (m *MockDishesStore) Delete(ctx context.Context, dishID int64) error {
	args := m.Called(ctx, dishID)
	return args.Error(0)
}

type MockReviewsStore struct {
	mock.Mock
}

func (m *MockReviewsStore) ListByPlace(ctx context.Context, placeID int64, limit, offset int) ([]store.Review, int, error) {
	args := m.Called(ctx, placeID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]store.Review), args.Int(1), args.Error(2)
}

func (m *MockReviewsStore) GetByID(ctx context.Context, reviewID int64) (*store.Review, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Review), args.Error(1)
}

func (m *MockReviewsStore) Create(ctx context.Context, review *store.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewsStore) IncrementHelpful(ctx context.Context, reviewID int64) (int, error) {
	args := m.Called(ctx, reviewID)
	return args.Int(0), args.Error(1)
}

type MockFavoritesStore struct {
	mock.Mock
}

func (m *MockFavoritesStore) ListByUser(ctx context.Context, userID int64) ([]store.FavoritePlace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.FavoritePlace), args.Error(1)
}

func (m *MockFavoritesStore) Add(ctx context.Context, favorite *store.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoritesStore) RemoveByPlace(ctx context.Context, userID, placeID int64) error {
	args := m.Called(ctx, userID, placeID)
	return args.Error(0)
}

type MockPromotionsStore struct {
	mock.Mock
}

func (m *MockPromotionsStore) ListByPlace(ctx context.Context, placeID int64) ([]store.Promotion, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Promotion), args.Error(1)
}

func (m *MockPromotionsStore) ListActive(ctx context.Context, now time.Time) ([]store.Promotion, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Promotion), args.Error(1)
}

func (m *MockPromotionsStore) GetByID(ctx context.Context, promotionID int64) (*store.Promotion, error) {
	args := m.Called(ctx, promotionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Promotion), args.Error(1)
}

func (m *MockPromotionsStore) Create(ctx context.Context, promotion *store.Promotion) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

func (m *MockPromotionsStore) Update(ctx context.Context, promotion *store.Promotion) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

type MockSponsoredStore struct {
	mock.Mock
}

func (m *MockSponsoredStore) ListActive(ctx context.Context, now time.Time) ([]store.SponsoredPlacement, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.SponsoredPlacement), args.Error(1)
}

func (m *MockSponsoredStore) GetByID(ctx context.Context, placementID int64) (*store.SponsoredPlacement, error) {
	args := m.Called(ctx, placementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.SponsoredPlacement), args.Error(1)
}

func (m *MockSponsoredStore) Create(ctx context.Context, placement *store.SponsoredPlacement) error {
	args := m.Called(ctx, placement)
	return args.Error(0)
}

func (m *MockSponsoredStore) Update(ctx context.Context, placementID int64, upd store.SponsoredUpdate) (*store.SponsoredPlacement, error) {
	args := m.Called(ctx, placementID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.SponsoredPlacement), args.Error(1)
}

func (m *MockSponsoredStore) Delete(ctx context.Context, placementID int64) error {
	args := m.Called(ctx, placementID)
	return args.Error(0)
}

type MockReportsStore struct {
	mock.Mock
}

func (m *MockReportsStore) List(ctx context.Context) ([]store.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Report), args.Error(1)
}

func (m *MockReportsStore) Create(ctx context.Context, report *store.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportsStore) UpdateStatus(ctx context.Context, reportID int64, status string) (*store.Report, error) {
	args := m.Called(ctx, reportID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Report), args.Error(1)
}

// mailerStub swallows outgoing mail during tests.
type mailerStub struct{}

func (mailerStub) Send(templateFile, username, email string, data any) (int, error) {
	return 200, nil
}

type mockStores struct {
	Users      *MockUsersStore
	Places     *MockPlacesStore
	Dishes     *MockDishesStore
	Reviews    *MockReviewsStore
	Favorites  *MockFavoritesStore
	Promotions *MockPromotionsStore
	Sponsored  *MockSponsoredStore
	Reports    *MockReportsStore
}

// testNow is a Tuesday at noon, La Paz time-agnostic (UTC in tests).
var testNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*application, *mockStores) {
	t.Helper()

	ms := &mockStores{
		Users:      new(MockUsersStore),
		Places:     new(MockPlacesStore),
		Dishes:     new(MockDishesStore),
		Reviews:    new(MockReviewsStore),
		Favorites:  new(MockFavoritesStore),
		Promotions: new(MockPromotionsStore),
		Sponsored:  new(MockSponsoredStore),
		Reports:    new(MockReportsStore),
	}

	app := &application{
		config: config{
			uploadDir: t.TempDir(),
			rateLimiter: ratelimiter.Config{
				RequestsPerTimeFrame: 100,
				TimeFrame:            time.Second,
				Enabled:              false,
			},
		},
		store: store.Storage{
			Users:      ms.Users,
			Places:     ms.Places,
			Dishes:     ms.Dishes,
			Reviews:    ms.Reviews,
			Favorites:  ms.Favorites,
			Promotions: ms.Promotions,
			Sponsored:  ms.Sponsored,
			Reports:    ms.Reports,
		},
		logger: zap.NewNop().Sugar(),
		mailer: mailerStub{},
		authenticator: auth.NewJWTAuthenticator(
			"test-secret", "test-refresh-secret", "jiwasa", "jiwasa",
			time.Hour, 2*time.Hour,
		),
		rateLimiter: ratelimiter.NewFixedWindowLimiter(100, time.Second),
		now:         func() time.Time { return testNow },
	}

	return app, ms
}

// authHeader issues a real access token for the given user and teaches
// the users mock to resolve it.
func authHeader(t *testing.T, app *application, ms *mockStores, user *store.User) string {
	t.Helper()

	accessToken, _, err := app.authenticator.GenerateTokens(user.ID, user.Role)
	require.NoError(t, err)

	ms.Users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	return "Bearer " + accessToken
}

func executeRequest(app *application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	return rr
}

func testUser() *store.User {
	return &store.User{ID: 1, Name: "Marisol Quispe", Email: "marisol@example.com", Role: "user"}
}

func testAdmin() *store.User {
	return &store.User{ID: 2, Name: "Admin", Email: "admin@jiwasa.app", Role: "admin"}
}
