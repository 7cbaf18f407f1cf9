package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jiwasa/internal/schedule"
)

type Place struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	Category      string            `json:"category"`
	Zone          string            `json:"zone"`
	Address       string            `json:"address"`
	Latitude      float64           `json:"latitude"`
	Longitude     float64           `json:"longitude"`
	FoodTypes     []string          `json:"food_types"`
	PriceRange    *string           `json:"price_range,omitempty"`
	Phone         *string           `json:"phone,omitempty"`
	Email         *string           `json:"email,omitempty"`
	Website       *string           `json:"website,omitempty"`
	SocialLinks   map[string]string `json:"social_links,omitempty"`
	Schedule      schedule.Weekly   `json:"schedule"`
	Photos        []string          `json:"photos"`
	Status        string            `json:"status"`
	Visibility    string            `json:"visibility"`
	Featured      bool              `json:"featured"`
	RatingSum     int64             `json:"-"`
	ReviewCount   int64             `json:"review_count"`
	AverageRating float64           `json:"average_rating"`
	IsOpen        bool              `json:"is_open"`
	OwnerID       *int64            `json:"owner_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Average derives the rating from the running counters, zero when the
// place has no reviews yet.
func (p *Place) Average() float64 {
	return deriveAverage(p.RatingSum, p.ReviewCount)
}

// PlaceSummary is the embedded shape other listings (sponsored,
// favorites) carry instead of the full record.
type PlaceSummary struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Zone          string   `json:"zone"`
	Category      string   `json:"category"`
	Photos        []string `json:"photos"`
	AverageRating float64  `json:"average_rating"`
}

type PlaceFilter struct {
	Keyword  string
	Zone     string
	Category string
	FoodType string
	Status   string

	// Proximity search. Applied only when RadiusMeters > 0, and
	// switches the ordering to nearest-first.
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type PlacesStore struct {
	db *pgxpool.Pool
}

const placeColumns = `
	id, name, description, category, zone, address,
	ST_Y(location::geometry) AS latitude,
	ST_X(location::geometry) AS longitude,
	food_types, price_range, phone, email, website, social_links, schedule, photos,
	status, visibility, featured, rating_sum, review_count, owner_id,
	created_at, updated_at
`

func (s *PlacesStore) List(ctx context.Context, filter PlaceFilter, limit, offset int) ([]Place, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	where := []string{}
	args := []any{}
	i := 1

	status := filter.Status
	if status == "" {
		status = "active"
	}
	where = append(where, fmt.Sprintf("status = $%d", i))
	args = append(args, status)
	i++

	if filter.Keyword != "" {
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR zone ILIKE $%d OR address ILIKE $%d OR array_to_string(food_types, ' ') ILIKE $%d)",
			i, i, i, i))
		args = append(args, "%"+filter.Keyword+"%")
		i++
	}
	if filter.Zone != "" {
		where = append(where, fmt.Sprintf("zone = $%d", i))
		args = append(args, filter.Zone)
		i++
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", i))
		args = append(args, filter.Category)
		i++
	}
	if filter.FoodType != "" {
		where = append(where, fmt.Sprintf("$%d = ANY(food_types)", i))
		args = append(args, filter.FoodType)
		i++
	}

	orderBy := "ORDER BY featured DESC, (visibility = 'premium') DESC, created_at DESC"
	if filter.RadiusMeters > 0 {
		point := fmt.Sprintf("ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography", i, i+1)
		where = append(where, fmt.Sprintf("ST_DWithin(location::geography, %s, $%d)", point, i+2))
		orderBy = fmt.Sprintf("ORDER BY location::geography <-> %s", point)
		args = append(args, filter.Longitude, filter.Latitude, filter.RadiusMeters)
		i += 3
	}

	whereSQL := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM places WHERE ` + whereSQL
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting places: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM places
		WHERE %s
		%s
		LIMIT $%d OFFSET $%d
	`, placeColumns, whereSQL, orderBy, i, i+1)
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing places: %w", err)
	}
	defer rows.Close()

	places := []Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, 0, err
		}
		places = append(places, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return places, total, nil
}

func scanPlace(row pgx.Row) (*Place, error) {
	var p Place
	var scheduleRaw, socialRaw []byte

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Zone, &p.Address,
		&p.Latitude, &p.Longitude,
		&p.FoodTypes, &p.PriceRange, &p.Phone, &p.Email, &p.Website,
		&socialRaw, &scheduleRaw, &p.Photos, &p.Status, &p.Visibility, &p.Featured,
		&p.RatingSum, &p.ReviewCount, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(scheduleRaw) > 0 {
		if err := json.Unmarshal(scheduleRaw, &p.Schedule); err != nil {
			return nil, fmt.Errorf("decoding schedule for place %d: %w", p.ID, err)
		}
	}
	if len(socialRaw) > 0 {
		if err := json.Unmarshal(socialRaw, &p.SocialLinks); err != nil {
			return nil, fmt.Errorf("decoding social links for place %d: %w", p.ID, err)
		}
	}
	p.AverageRating = p.Average()

	return &p, nil
}

func (s *PlacesStore) GetByID(ctx context.Context, placeID int64) (*Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := s.db.QueryRow(ctx,
		`SELECT `+placeColumns+` FROM places WHERE id = $1`, placeID)

	return scanPlace(row)
}

func (s *PlacesStore) Create(ctx context.Context, place *Place) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	scheduleRaw, err := json.Marshal(place.Schedule)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}
	socialRaw, err := json.Marshal(place.SocialLinks)
	if err != nil {
		return fmt.Errorf("encoding social links: %w", err)
	}

	if place.Visibility == "" {
		place.Visibility = "normal"
	}
	if place.FoodTypes == nil {
		place.FoodTypes = []string{}
	}
	if place.Photos == nil {
		place.Photos = []string{}
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO places (name, description, category, zone, address, location,
		                    food_types, price_range, phone, email, website,
		                    social_links, schedule, photos, status, visibility,
		                    featured, owner_id)
		VALUES ($1, $2, $3, $4, $5,
		        ST_SetSRID(ST_MakePoint($6, $7), 4326),
		        $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at
	`,
		place.Name, place.Description, place.Category, place.Zone, place.Address,
		place.Longitude, place.Latitude,
		place.FoodTypes, place.PriceRange, place.Phone, place.Email, place.Website,
		socialRaw, scheduleRaw, place.Photos, place.Status, place.Visibility,
		place.Featured, place.OwnerID,
	).Scan(&place.ID, &place.CreatedAt, &place.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting place: %w", err)
	}
	return nil
}

// Update replaces the editable fields wholesale; the handler merges
// omitted fields from the current row first. Rating counters are owned
// by the review path and never touched here.
func (s *PlacesStore) Update(ctx context.Context, place *Place) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	scheduleRaw, err := json.Marshal(place.Schedule)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}
	socialRaw, err := json.Marshal(place.SocialLinks)
	if err != nil {
		return fmt.Errorf("encoding social links: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		UPDATE places
		SET name = $1, description = $2, category = $3, zone = $4, address = $5,
		    location = ST_SetSRID(ST_MakePoint($6, $7), 4326),
		    food_types = $8, price_range = $9, phone = $10, email = $11,
		    website = $12, social_links = $13, schedule = $14, photos = $15,
		    status = $16, visibility = $17, featured = $18, updated_at = NOW()
		WHERE id = $19
		RETURNING updated_at
	`,
		place.Name, place.Description, place.Category, place.Zone, place.Address,
		place.Longitude, place.Latitude,
		place.FoodTypes, place.PriceRange, place.Phone, place.Email, place.Website,
		socialRaw, scheduleRaw, place.Photos, place.Status, place.Visibility,
		place.Featured, place.ID,
	).Scan(&place.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("updating place %d: %w", place.ID, err)
	}
	return nil
}

// SoftClose marks a place as closed instead of deleting the row, so
// reviews and history stay reachable.
func (s *PlacesStore) SoftClose(ctx context.Context, placeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	ct, err := s.db.Exec(ctx,
		`UPDATE places SET status = 'closed', updated_at = NOW() WHERE id = $1`,
		placeID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
