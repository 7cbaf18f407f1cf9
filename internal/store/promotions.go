package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Promotion struct {
	ID        int64  `json:"id"`
	PlaceID   int64  `json:"place_id"`
	PlaceName string `json:"place_name,omitempty"`

	// DishID is set when the promotion is tied to one dish rather than
	// the whole place.
	DishID             *int64    `json:"dish_id,omitempty"`
	Title              string    `json:"title"`
	Description        *string   `json:"description,omitempty"`
	PromoPrice         *float64  `json:"promo_price,omitempty"`
	DiscountPercentage *float64  `json:"discount_percentage,omitempty"`
	StartsAt           time.Time `json:"starts_at"`
	EndsAt             time.Time `json:"ends_at"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type PromotionsStore struct {
	db *pgxpool.Pool
}

const promotionColumns = `
	pr.id, pr.place_id, p.name, pr.dish_id, pr.title, pr.description,
	pr.promo_price, pr.discount_percentage,
	pr.starts_at, pr.ends_at, pr.active, pr.created_at, pr.updated_at
`

func scanPromotions(rows pgx.Rows) ([]Promotion, error) {
	defer rows.Close()

	promotions := []Promotion{}
	for rows.Next() {
		var pr Promotion
		err := rows.Scan(&pr.ID, &pr.PlaceID, &pr.PlaceName, &pr.DishID, &pr.Title,
			&pr.Description, &pr.PromoPrice, &pr.DiscountPercentage,
			&pr.StartsAt, &pr.EndsAt, &pr.Active, &pr.CreatedAt, &pr.UpdatedAt)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, pr)
	}
	return promotions, rows.Err()
}

// ListByPlace returns every promotion a place has ever published,
// active or not, newest first.
func (s *PromotionsStore) ListByPlace(ctx context.Context, placeID int64) ([]Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions pr
		JOIN places p ON p.id = pr.place_id
		WHERE pr.place_id = $1
		ORDER BY pr.created_at DESC
	`, placeID)
	if err != nil {
		return nil, fmt.Errorf("listing promotions for place %d: %w", placeID, err)
	}
	return scanPromotions(rows)
}

// ListActive returns promotions whose window contains now and whose
// flag is still on, across all places.
func (s *PromotionsStore) ListActive(ctx context.Context, now time.Time) ([]Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions pr
		JOIN places p ON p.id = pr.place_id
		WHERE pr.active = true AND pr.starts_at <= $1 AND pr.ends_at >= $1
		  AND p.status = 'active'
		ORDER BY pr.ends_at ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("listing active promotions: %w", err)
	}
	return scanPromotions(rows)
}

func (s *PromotionsStore) GetByID(ctx context.Context, promotionID int64) (*Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var pr Promotion
	err := s.db.QueryRow(ctx, `
		SELECT `+promotionColumns+`
		FROM promotions pr
		JOIN places p ON p.id = pr.place_id
		WHERE pr.id = $1
	`, promotionID).Scan(&pr.ID, &pr.PlaceID, &pr.PlaceName, &pr.DishID, &pr.Title,
		&pr.Description, &pr.PromoPrice, &pr.DiscountPercentage,
		&pr.StartsAt, &pr.EndsAt, &pr.Active, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (s *PromotionsStore) Create(ctx context.Context, promotion *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, `
		INSERT INTO promotions (place_id, dish_id, title, description, promo_price,
		                        discount_percentage, starts_at, ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, promotion.PlaceID, promotion.DishID, promotion.Title, promotion.Description,
		promotion.PromoPrice, promotion.DiscountPercentage,
		promotion.StartsAt, promotion.EndsAt, promotion.Active).
		Scan(&promotion.ID, &promotion.CreatedAt, &promotion.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting promotion: %w", err)
	}
	return nil
}

func (s *PromotionsStore) Update(ctx context.Context, promotion *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, `
		UPDATE promotions
		SET dish_id = $1, title = $2, description = $3, promo_price = $4,
		    discount_percentage = $5, starts_at = $6, ends_at = $7, active = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`, promotion.DishID, promotion.Title, promotion.Description, promotion.PromoPrice,
		promotion.DiscountPercentage, promotion.StartsAt, promotion.EndsAt,
		promotion.Active, promotion.ID).
		Scan(&promotion.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating promotion %d: %w", promotion.ID, err)
	}
	return nil
}
