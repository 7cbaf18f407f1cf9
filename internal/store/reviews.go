package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Review struct {
	ID           int64     `json:"id"`
	PlaceID      int64     `json:"place_id"`
	UserID       int64     `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	UserPhotoURL *string   `json:"user_photo_url,omitempty"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	Photos       []string  `json:"photos,omitempty"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReviewsStore struct {
	db *pgxpool.Pool
}

func (s *ReviewsStore) ListByPlace(ctx context.Context, placeID int64, limit, offset int) ([]Review, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE place_id = $1`, placeID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting reviews for place %d: %w", placeID, err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.place_id, r.user_id, u.name, u.photo_url, r.rating, r.comment,
		       r.photos, r.helpful_count, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.place_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, placeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing reviews for place %d: %w", placeID, err)
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var r Review
		err := rows.Scan(&r.ID, &r.PlaceID, &r.UserID, &r.UserName, &r.UserPhotoURL,
			&r.Rating, &r.Comment, &r.Photos, &r.HelpfulCount, &r.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (s *ReviewsStore) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var r Review
	err := s.db.QueryRow(ctx, `
		SELECT id, place_id, user_id, rating, comment, photos, helpful_count, created_at
		FROM reviews
		WHERE id = $1
	`, reviewID).Scan(&r.ID, &r.PlaceID, &r.UserID, &r.Rating, &r.Comment,
		&r.Photos, &r.HelpfulCount, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Create inserts the review and bumps the place's running rating
// counters in the same transaction, so the aggregate can never drift
// from the review rows.
func (s *ReviewsStore) Create(ctx context.Context, review *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if review.Photos == nil {
		review.Photos = []string{}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (place_id, user_id, rating, comment, photos)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, helpful_count, created_at
	`, review.PlaceID, review.UserID, review.Rating, review.Comment, review.Photos).
		Scan(&review.ID, &review.HelpfulCount, &review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting review: %w", err)
	}

	ct, err := tx.Exec(ctx, `
		UPDATE places
		SET rating_sum = rating_sum + $1, review_count = review_count + 1, updated_at = NOW()
		WHERE id = $2
	`, review.Rating, review.PlaceID)
	if err != nil {
		return fmt.Errorf("updating place rating counters: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// IncrementHelpful bumps the helpful counter and returns the new value.
func (s *ReviewsStore) IncrementHelpful(ctx context.Context, reviewID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	err := s.db.QueryRow(ctx, `
		UPDATE reviews
		SET helpful_count = helpful_count + 1
		WHERE id = $1
		RETURNING helpful_count
	`, reviewID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return count, nil
}
