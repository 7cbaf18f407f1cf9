package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PlaceID   int64     `json:"place_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoritePlace is a favorite joined with the place it points at, the
// shape the "my favorites" listing returns.
type FavoritePlace struct {
	ID        int64        `json:"id"`
	Place     PlaceSummary `json:"place"`
	CreatedAt time.Time    `json:"created_at"`
}

type FavoritesStore struct {
	db *pgxpool.Pool
}

func (s *FavoritesStore) ListByUser(ctx context.Context, userID int64) ([]FavoritePlace, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT f.id, f.created_at,
		       p.id, p.name, p.zone, p.category, p.photos, p.rating_sum, p.review_count
		FROM favorites f
		JOIN places p ON p.id = f.place_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites for user %d: %w", userID, err)
	}
	defer rows.Close()

	favorites := []FavoritePlace{}
	for rows.Next() {
		var f FavoritePlace
		var ratingSum, reviewCount int64
		err := rows.Scan(&f.ID, &f.CreatedAt,
			&f.Place.ID, &f.Place.Name, &f.Place.Zone, &f.Place.Category,
			&f.Place.Photos, &ratingSum, &reviewCount)
		if err != nil {
			return nil, err
		}
		f.Place.AverageRating = deriveAverage(ratingSum, reviewCount)
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (s *FavoritesStore) Add(ctx context.Context, favorite *Favorite) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, `
		INSERT INTO favorites (user_id, place_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, favorite.UserID, favorite.PlaceID).Scan(&favorite.ID, &favorite.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting favorite: %w", err)
	}
	return nil
}

func (s *FavoritesStore) RemoveByPlace(ctx context.Context, userID, placeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	ct, err := s.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND place_id = $2`,
		userID, placeID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// deriveAverage returns the raw arithmetic mean of the running
// counters. Rounding for display is the client's job.
func deriveAverage(ratingSum, reviewCount int64) float64 {
	if reviewCount == 0 {
		return 0
	}
	return float64(ratingSum) / float64(reviewCount)
}
