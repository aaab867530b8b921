package cage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for cage persistence.
type Repository interface {
	CreateWithCredential(ctx context.Context, cage *Cage, credential *Credential) error
	GetByID(ctx context.Context, id string) (*Cage, error)
	ListByMonitor(ctx context.Context, assignedMonitor string) ([]Cage, error)
	UpdateReadings(ctx context.Context, id string, readings *Readings) error
}

// CredentialStore defines the interface for device-credential lookup.
// Kept separate from Repository so a future re-provisioning flow can
// rotate verifiers without touching cage persistence.
type CredentialStore interface {
	Get(ctx context.Context, cageID string) (*Credential, error)
}

// SQLiteRepository implements Repository and CredentialStore using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed cage repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const cageColumns = `id, assigned_monitor, livestock_no, temperature, humidity, pressure,
	ammonia, co2, coccidiosis, newcastle, salmonella, healthy, reading_at, created_at, updated_at`

// CreateWithCredential inserts a cage and its device credential in one
// transaction. Either both rows land or neither does. A duplicate cage
// id returns ErrCageExists.
func (r *SQLiteRepository) CreateWithCredential(ctx context.Context, cage *Cage, credential *Credential) error {
	now := time.Now().UTC()
	nowStr := now.Format(time.RFC3339)
	cage.CreatedAt = now.Truncate(time.Second)
	cage.UpdatedAt = cage.CreatedAt
	credential.CreatedAt = cage.CreatedAt
	credential.UpdatedAt = cage.CreatedAt

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning provisioning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cages (`+cageColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cage.ID, cage.AssignedMonitor, cage.LivestockNo,
		cage.Temperature, cage.Humidity, cage.Pressure, cage.Ammonia, cage.CO2,
		cage.ObjectRecognition.Coccidiosis, cage.ObjectRecognition.Newcastle,
		cage.ObjectRecognition.Salmonella, cage.ObjectRecognition.Healthy,
		cage.Timestamp.UTC().Format(time.RFC3339), nowStr, nowStr,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCageExists
		}
		return fmt.Errorf("inserting cage: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cage_credentials (cage_id, verifier, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		credential.CageID, credential.Verifier, nowStr, nowStr,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCageExists
		}
		return fmt.Errorf("inserting cage credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing provisioning: %w", err)
	}
	return nil
}

// GetByID retrieves a cage by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Cage, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+cageColumns+" FROM cages WHERE id = ?", id)
	c, err := scanCage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCageNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByMonitor returns all cages assigned to a monitoring unit,
// oldest first.
func (r *SQLiteRepository) ListByMonitor(ctx context.Context, assignedMonitor string) ([]Cage, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+cageColumns+" FROM cages WHERE assigned_monitor = ? ORDER BY created_at ASC",
		assignedMonitor,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cages: %w", err)
	}
	defer rows.Close()

	var cages []Cage
	for rows.Next() {
		c, err := scanCage(rows)
		if err != nil {
			return nil, err
		}
		cages = append(cages, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cages: %w", err)
	}

	if cages == nil {
		cages = []Cage{}
	}
	return cages, nil
}

// UpdateReadings stores a device's sensor update for a cage.
func (r *SQLiteRepository) UpdateReadings(ctx context.Context, id string, readings *Readings) error {
	now := time.Now().UTC().Format(time.RFC3339)
	readingAt := readings.Timestamp
	if readingAt.IsZero() {
		readingAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE cages SET temperature = ?, humidity = ?, pressure = ?, ammonia = ?, co2 = ?,
			coccidiosis = ?, newcastle = ?, salmonella = ?, healthy = ?,
			reading_at = ?, updated_at = ?
		 WHERE id = ?`,
		readings.Temperature, readings.Humidity, readings.Pressure, readings.Ammonia, readings.CO2,
		readings.ObjectRecognition.Coccidiosis, readings.ObjectRecognition.Newcastle,
		readings.ObjectRecognition.Salmonella, readings.ObjectRecognition.Healthy,
		readingAt.UTC().Format(time.RFC3339), now, id,
	)
	if err != nil {
		return fmt.Errorf("updating cage readings: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrCageNotFound
	}
	return nil
}

// Get retrieves a cage's device credential. A missing credential is
// reported as ErrSecretMismatch so callers cannot distinguish "no such
// cage" from "wrong secret".
func (r *SQLiteRepository) Get(ctx context.Context, cageID string) (*Credential, error) {
	var c Credential
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		"SELECT cage_id, verifier, created_at, updated_at FROM cage_credentials WHERE cage_id = ?",
		cageID,
	).Scan(&c.CageID, &c.Verifier, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSecretMismatch
		}
		return nil, fmt.Errorf("getting cage credential: %w", err)
	}

	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &c, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

func scanCage(s scanner) (*Cage, error) {
	var c Cage
	var readingAt, createdAt, updatedAt string

	err := s.Scan(&c.ID, &c.AssignedMonitor, &c.LivestockNo,
		&c.Temperature, &c.Humidity, &c.Pressure, &c.Ammonia, &c.CO2,
		&c.ObjectRecognition.Coccidiosis, &c.ObjectRecognition.Newcastle,
		&c.ObjectRecognition.Salmonella, &c.ObjectRecognition.Healthy,
		&readingAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning cage: %w", err)
	}

	c.Timestamp, _ = time.Parse(time.RFC3339, readingAt) //nolint:errcheck // format is controlled
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &c, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
