// Package stock implements the stock status classification rules shared by
// the dashboard, the alerts endpoint, and the inventory reports.
package stock

import (
	"time"

	"github.com/vetstock/vetstock-backend/pkg/errors"
)

// Status is the computed stock status of a medicine
type Status string

const (
	StatusSufficient Status = "Sufficient"
	StatusLowStock   Status = "Low Stock"
	StatusExpired    Status = "Expired"
)

// ExpiringSoonWindowDays is the lookahead window for the expiring-soon
// dashboard counter. A medicine whose expiry date falls within this many
// days from today counts as expiring soon.
const ExpiringSoonWindowDays = 7

// Entry is the minimal view of a medicine needed for classification.
// A nil expiry date means the medicine does not expire.
type Entry struct {
	Stock             int
	WeeklyRequirement int
	ExpiryDate        *time.Time
}

// Summary aggregates stock status counts across a set of medicines
type Summary struct {
	TotalMedicines    int `json:"totalMedicines"`
	TotalStock        int `json:"totalStock"`
	LowStockCount     int `json:"lowStockCount"`
	ExpiringSoonCount int `json:"expiringSoonCount"`
	ExpiredCount      int `json:"expiredCount"`
}

// Classify returns the status of a single entry as of the given day.
// Expiry takes precedence over stock level, so an expired medicine is
// never reported as Low Stock regardless of its quantity.
func Classify(e Entry, today time.Time) Status {
	if IsExpired(e.ExpiryDate, today) {
		return StatusExpired
	}
	if e.Stock < e.WeeklyRequirement {
		return StatusLowStock
	}
	return StatusSufficient
}

// IsExpired reports whether the expiry date has passed. A medicine
// expiring today is still usable, and a nil expiry never expires.
func IsExpired(expiry *time.Time, today time.Time) bool {
	if expiry == nil {
		return false
	}
	return dateOnly(*expiry).Before(dateOnly(today))
}

// ExpiringSoon reports whether the expiry date is strictly in the future
// and falls inside the lookahead window.
func ExpiringSoon(expiry *time.Time, today time.Time) bool {
	if expiry == nil {
		return false
	}
	d := dateOnly(*expiry)
	t := dateOnly(today)
	if !d.After(t) {
		return false
	}
	return !d.After(t.AddDate(0, 0, ExpiringSoonWindowDays))
}

// Aggregate computes summary counts over a set of entries. Each entry
// lands in at most one of the low-stock or expired buckets; total stock
// includes expired quantities.
func Aggregate(entries []Entry, today time.Time) Summary {
	var s Summary
	s.TotalMedicines = len(entries)

	for _, e := range entries {
		s.TotalStock += e.Stock

		switch Classify(e, today) {
		case StatusExpired:
			s.ExpiredCount++
		case StatusLowStock:
			s.LowStockCount++
		}

		if ExpiringSoon(e.ExpiryDate, today) {
			s.ExpiringSoonCount++
		}
	}

	return s
}

// Deduct applies a usage quantity to a stock level. It rejects
// non-positive quantities and quantities exceeding the available stock.
func Deduct(current, quantity int) (int, error) {
	if quantity <= 0 {
		return current, errors.Validation(map[string]string{
			"quantity": "must be greater than zero",
		})
	}
	if quantity > current {
		return current, errors.InsufficientStock(current, quantity)
	}
	return current - quantity, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
