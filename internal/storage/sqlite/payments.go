package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/storage"
)

// RecordPayment flips the member to paid and appends a ledger entry atomically.
//
// The flag update runs first so the transaction takes SQLite's write lock
// before anything is read; with requireUnpaid the update is conditional on
// has_paid = 0 and zero affected rows means nothing gets inserted.
func (s *SQLiteStore) RecordPayment(ctx context.Context, memberID int64, amount float64, at time.Time, requireUnpaid bool) (*models.Payment, bool, error) {
	at = at.UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "UPDATE members SET has_paid = 1, last_payment = ? WHERE id = ?"
	if requireUnpaid {
		query += " AND has_paid = 0"
	}
	res, err := tx.ExecContext(ctx, query, at.Unix(), memberID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark member paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read update count: %w", err)
	}

	if affected == 0 {
		// Either the member is missing or already paid.
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM members WHERE id = ?", memberID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("member %d: %w", memberID, storage.ErrNotFound)
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to check member existence: %w", err)
		}
		return nil, false, nil
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO payments (member_id, amount, date) VALUES (?, ?, ?)",
		memberID, amount, at.Unix(),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read payment id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Payment{
		ID:       id,
		MemberID: memberID,
		Amount:   amount,
		Date:     at,
	}, true, nil
}

// Totals returns member counts and the ledger total.
func (s *SQLiteStore) Totals(ctx context.Context) (int, int, float64, error) {
	var total, paid int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(has_paid), 0) FROM members",
	).Scan(&total, &paid)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count members: %w", err)
	}

	var collected float64
	err = s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM payments",
	).Scan(&collected)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to sum payments: %w", err)
	}

	return total, paid, collected, nil
}

// RecentPayments returns the latest n payments with member names.
func (s *SQLiteStore) RecentPayments(ctx context.Context, n int) ([]*models.RecentPayment, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, m.name, p.amount, p.date
		FROM payments p
		JOIN members m ON m.id = p.member_id
		ORDER BY p.date DESC, p.id ASC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.RecentPayment
	for rows.Next() {
		p := &models.RecentPayment{}
		var date int64
		if err := rows.Scan(&p.PaymentID, &p.MemberName, &p.Amount, &date); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Date = fromUnix(date)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// ListPaymentsByMember returns a member's ledger entries, newest first.
func (s *SQLiteStore) ListPaymentsByMember(ctx context.Context, memberID int64) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, amount, date, chama_id
		FROM payments
		WHERE member_id = ?
		ORDER BY date DESC, id DESC
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		var date int64
		var chamaID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Amount, &date, &chamaID); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Date = fromUnix(date)
		if chamaID.Valid {
			p.ChamaID = &chamaID.Int64
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member payments: %w", err)
	}

	// An empty history is only an error if the member does not exist.
	if len(payments) == 0 {
		if _, err := s.GetMember(ctx, memberID); err != nil {
			return nil, err
		}
	}

	return payments, nil
}

// SumPayments returns the total paid in [from, to).
func (s *SQLiteStore) SumPayments(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM payments WHERE date >= ? AND date < ?",
		from.Unix(), to.Unix(),
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return sum, nil
}
