package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Password        password  `json:"-"`
	GoogleID        *string   `json:"-"`
	AuthProvider    string    `json:"auth_provider"`
	Role            string    `json:"role"`
	Bio             *string   `json:"bio,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	PhotoURL        *string   `json:"photo_url,omitempty"`
	FoodPreferences []string  `json:"food_preferences,omitempty"`
	RefreshToken    *string   `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// password keeps the bcrypt hash out of JSON and away from handlers.
// The hash is nil for google-only accounts.
type password struct {
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.hash = hash
	return nil
}

func (p *password) Compare(text string) error {
	if len(p.hash) == 0 {
		return errors.New("account has no local password")
	}
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

func (p *password) IsSet() bool {
	return len(p.hash) > 0
}

type UsersStore struct {
	db *pgxpool.Pool
}

func (s *UsersStore) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, email, password_hash, google_id, auth_provider, role, photo_url, food_preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, role, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var hash *[]byte
	if user.Password.IsSet() {
		hash = &user.Password.hash
	}
	if user.AuthProvider == "" {
		user.AuthProvider = "local"
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if user.FoodPreferences == nil {
		user.FoodPreferences = []string{}
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	err := s.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		hash,
		user.GoogleID,
		user.AuthProvider,
		user.Role,
		user.PhotoURL,
		user.FoodPreferences,
	).Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

const userColumns = `
	id, name, email, password_hash, google_id, auth_provider, role,
	bio, phone, photo_url, food_preferences, refresh_token, created_at, updated_at
`

func (s *UsersStore) scanUser(row pgx.Row) (*User, error) {
	var u User
	var hash []byte

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &hash, &u.GoogleID, &u.AuthProvider, &u.Role,
		&u.Bio, &u.Phone, &u.PhotoURL, &u.FoodPreferences, &u.RefreshToken,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	u.Password = password{hash: hash}
	return &u, nil
}

func (s *UsersStore) GetByID(ctx context.Context, userID int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return s.scanUser(row)
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return s.scanUser(row)
}

// LinkGoogleID attaches a federated identity to an existing local
// account the first time that user signs in with Google.
func (s *UsersStore) LinkGoogleID(ctx context.Context, userID int64, googleID string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	ct, err := s.db.Exec(ctx,
		`UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2`,
		googleID, userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile writes the merged profile back. The handler is
// responsible for defaulting omitted fields to their previous values.
func (s *UsersStore) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $1, bio = $2, phone = $3, photo_url = $4,
		    food_preferences = $5, password_hash = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var hash *[]byte
	if user.Password.IsSet() {
		hash = &user.Password.hash
	}

	err := s.db.QueryRow(ctx, query,
		user.Name,
		user.Bio,
		user.Phone,
		user.PhotoURL,
		user.FoodPreferences,
		hash,
		user.ID,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *UsersStore) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	ct, err := s.db.Exec(ctx,
		`UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`,
		token, userID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UsersStore) ClearRefreshToken(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	return err
}
