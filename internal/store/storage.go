package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrDuplicateEmail    = errors.New("a user with that email already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		LinkGoogleID(context.Context, int64, string) error
		UpdateProfile(context.Context, *User) error
		SaveRefreshToken(context.Context, int64, string) error
		ClearRefreshToken(context.Context, int64) error
	}
	Places interface {
		List(context.Context, PlaceFilter, int, int) ([]Place, int, error)
		GetByID(context.Context, int64) (*Place, error)
		Create(context.Context, *Place) error
		Update(context.Context, *Place) error
		SoftClose(context.Context, int64) error
	}
	Dishes interface {
		ListByPlace(context.Context, int64) ([]Dish, error)
		GetByID(context.Context, int64) (*Dish, error)
		Create(context.Context, *Dish) error
		Update(context.Context, *Dish) error
		Delete(context.Context, int64) error
	}
	Reviews interface {
		ListByPlace(context.Context, int64, int, int) ([]Review, int, error)
		GetByID(context.Context, int64) (*Review, error)
		Create(context.Context, *Review) error
		IncrementHelpful(context.Context, int64) (int, error)
	}
	Favorites interface {
		ListByUser(context.Context, int64) ([]FavoritePlace, error)
		Add(context.Context, *Favorite) error
		RemoveByPlace(context.Context, int64, int64) error
	}
	Promotions interface {
		ListByPlace(context.Context, int64) ([]Promotion, error)
		ListActive(context.Context, time.Time) ([]Promotion, error)
		GetByID(context.Context, int64) (*Promotion, error)
		Create(context.Context, *Promotion) error
		Update(context.Context, *Promotion) error
	}
	Sponsored interface {
		ListActive(context.Context, time.Time) ([]SponsoredPlacement, error)
		GetByID(context.Context, int64) (*SponsoredPlacement, error)
		Create(context.Context, *SponsoredPlacement) error
		Update(context.Context, int64, SponsoredUpdate) (*SponsoredPlacement, error)
		Delete(context.Context, int64) error
	}
	Reports interface {
		List(context.Context) ([]Report, error)
		Create(context.Context, *Report) error
		UpdateStatus(context.Context, int64, string) (*Report, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:      &UsersStore{db},
		Places:     &PlacesStore{db},
		Dishes:     &DishesStore{db},
		Reviews:    &ReviewsStore{db},
		Favorites:  &FavoritesStore{db},
		Promotions: &PromotionsStore{db},
		Sponsored:  &SponsoredStore{db},
		Reports:    &ReportsStore{db},
	}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign-key
// violation (SQLSTATE 23503), i.e. a referenced row does not exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
