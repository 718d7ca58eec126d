package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/vetstock/vetstock-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict("a record with these values already exists")

	// Foreign key violation (23503)
	case "23503":
		return mapForeignKey(pqErr)

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapForeignKey distinguishes a blocked delete (rows still reference the
// target, 409) from an insert pointing at a missing parent (400).
func mapForeignKey(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "medicines_facility_id"):
		if strings.Contains(pqErr.Message, "still referenced") {
			return errors.Conflict("facility still has medicines assigned to it")
		}
		return errors.BadRequest("referenced facility does not exist")

	case strings.Contains(constraint, "usage_records_medicine_id"):
		return errors.BadRequest("referenced medicine does not exist")

	default:
		if strings.Contains(pqErr.Message, "still referenced") {
			return errors.Conflict("record is still referenced by other rows")
		}
		return errors.BadRequest("referenced record does not exist")
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "stock_non_negative"):
		return errors.Validation(map[string]string{
			"stock": "must be zero or more",
		})

	case strings.Contains(constraint, "weekly_requirement_positive"):
		return errors.Validation(map[string]string{
			"weekly_requirement": "must be greater than zero",
		})

	case strings.Contains(constraint, "quantity_positive"):
		return errors.Validation(map[string]string{
			"quantity": "must be greater than zero",
		})

	case strings.Contains(constraint, "facility_type_valid"):
		return errors.Validation(map[string]string{
			"type": "must be one of: Dispensary, Hospital, ClinicianCenter, Polyclinic",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}
