package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Report struct {
	ID            int64     `json:"id"`
	TargetType    string    `json:"target_type"`
	TargetID      int64     `json:"target_id"`
	ReporterID    int64     `json:"reporter_id"`
	ReporterName  string    `json:"reporter_name,omitempty"`
	ReporterEmail string    `json:"reporter_email,omitempty"`
	Reason        string    `json:"reason"`
	Details       *string   `json:"details,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReportsStore struct {
	db *pgxpool.Pool
}

// List returns every report newest first with the reporter's name and
// email joined in for the moderation screen.
func (s *ReportsStore) List(ctx context.Context) ([]Report, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.target_type, r.target_id, r.reporter_id, u.name, u.email,
		       r.reason, r.details, r.status, r.created_at, r.updated_at
		FROM reports r
		JOIN users u ON u.id = r.reporter_id
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		var r Report
		err := rows.Scan(&r.ID, &r.TargetType, &r.TargetID, &r.ReporterID,
			&r.ReporterName, &r.ReporterEmail,
			&r.Reason, &r.Details, &r.Status, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *ReportsStore) Create(ctx context.Context, report *Report) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, `
		INSERT INTO reports (target_type, target_id, reporter_id, reason, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`, report.TargetType, report.TargetID, report.ReporterID, report.Reason, report.Details).
		Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

// UpdateStatus resolves or discards a pending report. Resolved and
// discarded are terminal, so only pending rows match; when the report
// exists but is already settled the caller gets ErrConflict.
func (s *ReportsStore) UpdateStatus(ctx context.Context, reportID int64, status string) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var r Report
	err := s.db.QueryRow(ctx, `
		UPDATE reports
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
		RETURNING id, target_type, target_id, reporter_id, reason, details, status, created_at, updated_at
	`, status, reportID).Scan(&r.ID, &r.TargetType, &r.TargetID, &r.ReporterID,
		&r.Reason, &r.Details, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err == nil {
		return &r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// No pending row matched: distinguish missing from already settled.
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`, reportID,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}
	return nil, ErrNotFound
}
