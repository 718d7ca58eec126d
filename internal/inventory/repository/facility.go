package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vetstock/vetstock-backend/pkg/database"
	"github.com/vetstock/vetstock-backend/pkg/errors"
)

// Facility types
const (
	FacilityDispensary      = "Dispensary"
	FacilityHospital        = "Hospital"
	FacilityClinicianCenter = "ClinicianCenter"
	FacilityPolyclinic      = "Polyclinic"
)

// Facility represents a healthcare facility that stores medicines
type Facility struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FacilityRepository handles facility persistence
type FacilityRepository struct {
	db *database.DB
}

// NewFacilityRepository creates a new facility repository
func NewFacilityRepository(db *database.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

// Create inserts a new facility
func (r *FacilityRepository) Create(ctx context.Context, f *Facility) error {
	query := `
		INSERT INTO facilities (name, type)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, f.Name, f.Type).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Internal("failed to create facility")
	}

	return nil
}

// GetByID fetches a facility by id
func (r *FacilityRepository) GetByID(ctx context.Context, id int) (*Facility, error) {
	query := `SELECT id, name, type, created_at, updated_at FROM facilities WHERE id = $1`

	var f Facility
	err := r.db.GetContext(ctx, &f, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("facility")
	}
	if err != nil {
		return nil, errors.Internal("failed to fetch facility")
	}

	return &f, nil
}

// List returns all facilities ordered by name
func (r *FacilityRepository) List(ctx context.Context) ([]Facility, error) {
	query := `SELECT id, name, type, created_at, updated_at FROM facilities ORDER BY name`

	facilities := make([]Facility, 0)
	if err := r.db.SelectContext(ctx, &facilities, query); err != nil {
		return nil, errors.Internal("failed to list facilities")
	}

	return facilities, nil
}

// Update modifies a facility's name and type
func (r *FacilityRepository) Update(ctx context.Context, f *Facility) error {
	query := `
		UPDATE facilities
		SET name = $1, type = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query, f.Name, f.Type, f.ID).Scan(&f.UpdatedAt)
	if err == sql.ErrNoRows {
		return errors.NotFound("facility")
	}
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Internal("failed to update facility")
	}

	return nil
}

// Delete removes a facility. The FK on medicines is RESTRICT, so the
// delete fails with a Conflict while medicines reference the facility.
func (r *FacilityRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Internal("failed to delete facility")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal("failed to delete facility")
	}
	if rows == 0 {
		return errors.NotFound("facility")
	}

	return nil
}
