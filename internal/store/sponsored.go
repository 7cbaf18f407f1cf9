package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SponsoredPlacement struct {
	ID        int64        `json:"id"`
	PlaceID   int64        `json:"place_id"`
	Place     PlaceSummary `json:"place"`
	Placement string       `json:"placement"`
	Weight    int          `json:"weight"`
	StartsAt  time.Time    `json:"starts_at"`
	EndsAt    time.Time    `json:"ends_at"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SponsoredUpdate carries the fields an admin may patch. Nil means
// leave the column alone.
type SponsoredUpdate struct {
	Placement *string
	Weight    *int
	StartsAt  *time.Time
	EndsAt    *time.Time
	Active    *bool
}

// ClampWeight pins a placement weight to the 1..10 range used for
// ordering instead of rejecting out-of-range input.
func ClampWeight(w int) int {
	if w < 1 {
		return 1
	}
	if w > 10 {
		return 10
	}
	return w
}

type SponsoredStore struct {
	db *pgxpool.Pool
}

// ListActive returns placements whose window contains now, heaviest
// first so the client can render them in order.
func (s *SponsoredStore) ListActive(ctx context.Context, now time.Time) ([]SponsoredPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT sp.id, sp.place_id, sp.placement, sp.weight, sp.starts_at, sp.ends_at,
		       sp.active, sp.created_at, sp.updated_at,
		       p.id, p.name, p.zone, p.category, p.photos, p.rating_sum, p.review_count
		FROM sponsored_placements sp
		JOIN places p ON p.id = sp.place_id
		WHERE sp.active = true AND sp.starts_at <= $1 AND sp.ends_at >= $1
		  AND p.status = 'active'
		ORDER BY sp.weight DESC, sp.created_at ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("listing active sponsored placements: %w", err)
	}
	defer rows.Close()

	placements := []SponsoredPlacement{}
	for rows.Next() {
		var sp SponsoredPlacement
		var ratingSum, reviewCount int64
		err := rows.Scan(&sp.ID, &sp.PlaceID, &sp.Placement, &sp.Weight,
			&sp.StartsAt, &sp.EndsAt, &sp.Active, &sp.CreatedAt, &sp.UpdatedAt,
			&sp.Place.ID, &sp.Place.Name, &sp.Place.Zone, &sp.Place.Category,
			&sp.Place.Photos, &ratingSum, &reviewCount)
		if err != nil {
			return nil, err
		}
		sp.Place.AverageRating = deriveAverage(ratingSum, reviewCount)
		placements = append(placements, sp)
	}
	return placements, rows.Err()
}

func (s *SponsoredStore) GetByID(ctx context.Context, placementID int64) (*SponsoredPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var sp SponsoredPlacement
	var ratingSum, reviewCount int64
	err := s.db.QueryRow(ctx, `
		SELECT sp.id, sp.place_id, sp.placement, sp.weight, sp.starts_at, sp.ends_at,
		       sp.active, sp.created_at, sp.updated_at,
		       p.id, p.name, p.zone, p.category, p.photos, p.rating_sum, p.review_count
		FROM sponsored_placements sp
		JOIN places p ON p.id = sp.place_id
		WHERE sp.id = $1
	`, placementID).Scan(&sp.ID, &sp.PlaceID, &sp.Placement, &sp.Weight,
		&sp.StartsAt, &sp.EndsAt, &sp.Active, &sp.CreatedAt, &sp.UpdatedAt,
		&sp.Place.ID, &sp.Place.Name, &sp.Place.Zone, &sp.Place.Category,
		&sp.Place.Photos, &ratingSum, &reviewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sp.Place.AverageRating = deriveAverage(ratingSum, reviewCount)
	return &sp, nil
}

func (s *SponsoredStore) Create(ctx context.Context, placement *SponsoredPlacement) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	placement.Weight = ClampWeight(placement.Weight)

	err := s.db.QueryRow(ctx, `
		INSERT INTO sponsored_placements (place_id, placement, weight, starts_at, ends_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, placement.PlaceID, placement.Placement, placement.Weight,
		placement.StartsAt, placement.EndsAt, placement.Active).
		Scan(&placement.ID, &placement.CreatedAt, &placement.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting sponsored placement: %w", err)
	}
	return nil
}

// Update patches only the provided fields, building the SET clause
// dynamically so omitted fields keep their values.
func (s *SponsoredStore) Update(ctx context.Context, placementID int64, upd SponsoredUpdate) (*SponsoredPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	sets := []string{}
	args := []any{}
	i := 1

	if upd.Placement != nil {
		sets = append(sets, fmt.Sprintf("placement = $%d", i))
		args = append(args, *upd.Placement)
		i++
	}
	if upd.Weight != nil {
		sets = append(sets, fmt.Sprintf("weight = $%d", i))
		args = append(args, ClampWeight(*upd.Weight))
		i++
	}
	if upd.StartsAt != nil {
		sets = append(sets, fmt.Sprintf("starts_at = $%d", i))
		args = append(args, *upd.StartsAt)
		i++
	}
	if upd.EndsAt != nil {
		sets = append(sets, fmt.Sprintf("ends_at = $%d", i))
		args = append(args, *upd.EndsAt)
		i++
	}
	if upd.Active != nil {
		sets = append(sets, fmt.Sprintf("active = $%d", i))
		args = append(args, *upd.Active)
		i++
	}

	if len(sets) == 0 {
		return s.GetByID(ctx, placementID)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(
		`UPDATE sponsored_placements SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), i,
	)
	args = append(args, placementID)

	ct, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating sponsored placement %d: %w", placementID, err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, placementID)
}

func (s *SponsoredStore) Delete(ctx context.Context, placementID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	ct, err := s.db.Exec(ctx, `DELETE FROM sponsored_placements WHERE id = $1`, placementID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
