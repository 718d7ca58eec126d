package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vetstock/vetstock-backend/internal/inventory/stock"
	"github.com/vetstock/vetstock-backend/pkg/database"
	"github.com/vetstock/vetstock-backend/pkg/errors"
)

// UsageRecord is one append-only entry in a medicine's usage ledger
type UsageRecord struct {
	ID         int       `db:"id" json:"id"`
	MedicineID int       `db:"medicine_id" json:"medicine_id"`
	Quantity   int       `db:"quantity" json:"quantity"`
	UsageDate  time.Time `db:"usage_date" json:"usage_date"`
}

// UsageRepository handles the usage ledger
type UsageRepository struct {
	db        *database.DB
	medicines *MedicineRepository
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *database.DB, medicines *MedicineRepository) *UsageRepository {
	return &UsageRepository{db: db, medicines: medicines}
}

// ListByMedicine returns a medicine's usage history, newest first
func (r *UsageRepository) ListByMedicine(ctx context.Context, medicineID int) ([]UsageRecord, error) {
	query := `
		SELECT id, medicine_id, quantity, usage_date
		FROM usage_records
		WHERE medicine_id = $1
		ORDER BY usage_date DESC, id DESC
	`

	records := make([]UsageRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, medicineID); err != nil {
		return nil, errors.Internal("failed to list usage records")
	}

	return records, nil
}

// ApplyUsage records a usage entry and decrements the medicine's stock
// in one transaction. The medicine row is locked for the duration so
// concurrent submissions cannot race past the stock check.
func (r *UsageRepository) ApplyUsage(ctx context.Context, medicineID, quantity int) (*UsageRecord, error) {
	var record UsageRecord

	err := r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		m, err := r.medicines.GetForUpdate(ctx, tx, medicineID)
		if err != nil {
			return err
		}

		remaining, err := stock.Deduct(m.Stock, quantity)
		if err != nil {
			return err
		}

		if err := r.medicines.UpdateStock(ctx, tx, medicineID, remaining); err != nil {
			return err
		}

		insert := `
			INSERT INTO usage_records (medicine_id, quantity)
			VALUES ($1, $2)
			RETURNING id, medicine_id, quantity, usage_date
		`
		if err := tx.QueryRowxContext(ctx, insert, medicineID, quantity).StructScan(&record); err != nil {
			if appErr := database.MapPQError(err); appErr != nil {
				return appErr
			}
			return errors.Internal("failed to insert usage record")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}
