package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vetstock/vetstock-backend/pkg/database"
	"github.com/vetstock/vetstock-backend/pkg/errors"
)

// Medicine represents a medicine tracked in a facility's inventory
type Medicine struct {
	ID                int        `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Stock             int        `db:"stock" json:"stock"`
	WeeklyRequirement int        `db:"weekly_requirement" json:"weekly_requirement"`
	ExpiryDate        *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	FacilityID        int        `db:"facility_id" json:"facility_id"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	// Joined from facilities
	FacilityName string `db:"facility_name" json:"facility_name"`
	FacilityType string `db:"facility_type" json:"facility_type"`
}

// MedicineFilter narrows medicine listings
type MedicineFilter struct {
	FacilityType string
	Limit        int
	Offset       int
}

// MedicineRepository handles medicine persistence
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

const medicineColumns = `
	m.id, m.name, m.stock, m.weekly_requirement, m.expiry_date, m.facility_id,
	m.created_at, m.updated_at,
	f.name AS facility_name, f.type AS facility_type
`

// Create inserts a new medicine
func (r *MedicineRepository) Create(ctx context.Context, m *Medicine) error {
	query := `
		INSERT INTO medicines (name, stock, weekly_requirement, expiry_date, facility_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		m.Name, m.Stock, m.WeeklyRequirement, m.ExpiryDate, m.FacilityID,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Internal("failed to create medicine")
	}

	return nil
}

// GetByID fetches a medicine with its facility joined
func (r *MedicineRepository) GetByID(ctx context.Context, id int) (*Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `
		FROM medicines m
		JOIN facilities f ON f.id = m.facility_id
		WHERE m.id = $1
	`

	var m Medicine
	err := r.db.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("medicine")
	}
	if err != nil {
		return nil, errors.Internal("failed to fetch medicine")
	}

	return &m, nil
}

// List returns medicines with their facility joined, ordered by name.
// An empty filter returns everything.
func (r *MedicineRepository) List(ctx context.Context, filter MedicineFilter) ([]Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `
		FROM medicines m
		JOIN facilities f ON f.id = m.facility_id
	`

	args := []interface{}{}
	if filter.FacilityType != "" {
		query += ` WHERE f.type = $1`
		args = append(args, filter.FacilityType)
	}

	query += ` ORDER BY m.name`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	medicines := make([]Medicine, 0)
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, errors.Internal("failed to list medicines")
	}

	return medicines, nil
}

// Update modifies a medicine's editable fields
func (r *MedicineRepository) Update(ctx context.Context, m *Medicine) error {
	query := `
		UPDATE medicines
		SET name = $1, stock = $2, weekly_requirement = $3, expiry_date = $4,
		    facility_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		m.Name, m.Stock, m.WeeklyRequirement, m.ExpiryDate, m.FacilityID, m.ID,
	).Scan(&m.UpdatedAt)
	if err == sql.ErrNoRows {
		return errors.NotFound("medicine")
	}
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Internal("failed to update medicine")
	}

	return nil
}

// Delete removes a medicine. Its usage records go with it through the
// ON DELETE CASCADE constraint.
func (r *MedicineRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Internal("failed to delete medicine")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal("failed to delete medicine")
	}
	if rows == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}

// GetForUpdate locks a medicine row inside the given transaction.
// Used by the usage ledger so concurrent deductions serialize.
func (r *MedicineRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int) (*Medicine, error) {
	query := `
		SELECT id, name, stock, weekly_requirement, expiry_date, facility_id,
		       created_at, updated_at
		FROM medicines
		WHERE id = $1
		FOR UPDATE
	`

	var m Medicine
	err := tx.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("medicine")
	}
	if err != nil {
		return nil, errors.Internal("failed to lock medicine")
	}

	return &m, nil
}

// UpdateStock sets a medicine's stock inside the given transaction
func (r *MedicineRepository) UpdateStock(ctx context.Context, tx *sqlx.Tx, id, stock int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE medicines SET stock = $1, updated_at = NOW() WHERE id = $2`,
		stock, id,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Internal("failed to update stock")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Internal("failed to update stock")
	}
	if rows == 0 {
		return errors.NotFound("medicine")
	}

	return nil
}
