package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dish struct {
	ID          int64     `json:"id"`
	PlaceID     int64     `json:"place_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    *string   `json:"category,omitempty"`
	Tags        []string  `json:"tags"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Available   bool      `json:"available"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DishesStore struct {
	db *pgxpool.Pool
}

func (s *DishesStore) ListByPlace(ctx context.Context, placeID int64) ([]Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT id, place_id, name, description, price, category, tags, photo_url,
		       available, featured, created_at, updated_at
		FROM dishes
		WHERE place_id = $1
		ORDER BY featured DESC, name ASC
	`, placeID)
	if err != nil {
		return nil, fmt.Errorf("listing dishes for place %d: %w", placeID, err)
	}
	defer rows.Close()

	dishes := []Dish{}
	for rows.Next() {
		var d Dish
		err := rows.Scan(&d.ID, &d.PlaceID, &d.Name, &d.Description, &d.Price,
			&d.Category, &d.Tags, &d.PhotoURL, &d.Available, &d.Featured,
			&d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	return dishes, rows.Err()
}

func (s *DishesStore) GetByID(ctx context.Context, dishID int64) (*Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var d Dish
	err := s.db.QueryRow(ctx, `
		SELECT id, place_id, name, description, price, category, tags, photo_url,
		       available, featured, created_at, updated_at
		FROM dishes
		WHERE id = $1
	`, dishID).Scan(&d.ID, &d.PlaceID, &d.Name, &d.Description, &d.Price,
		&d.Category, &d.Tags, &d.PhotoURL, &d.Available, &d.Featured,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *DishesStore) Create(ctx context.Context, dish *Dish) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if dish.Tags == nil {
		dish.Tags = []string{}
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO dishes (place_id, name, description, price, category, tags,
		                    photo_url, available, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, dish.PlaceID, dish.Name, dish.Description, dish.Price, dish.Category,
		dish.Tags, dish.PhotoURL, dish.Available, dish.Featured).
		Scan(&dish.ID, &dish.CreatedAt, &dish.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting dish: %w", err)
	}
	return nil
}

func (s *DishesStore) Update(ctx context.Context, dish *Dish) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if dish.Tags == nil {
		dish.Tags = []string{}
	}

	err := s.db.QueryRow(ctx, `
		UPDATE dishes
		SET name = $1, description = $2, price = $3, category = $4, tags = $5,
		    photo_url = $6, available = $7, featured = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`, dish.Name, dish.Description, dish.Price, dish.Category, dish.Tags,
		dish.PhotoURL, dish.Available, dish.Featured, dish.ID).
		Scan(&dish.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating dish %d: %w", dish.ID, err)
	}
	return nil
}

func (s *DishesStore) Delete(ctx context.Context, dishID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	ct, err := s.db.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, dishID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
