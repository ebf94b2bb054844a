package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/storage"
)

const memberColumns = "id, name, phone_number, has_paid, created_at, last_payment"

// CreateMember inserts a new member. The phone number must not already be registered.
//
// The insert runs on its own so SQLite takes the write lock up front and
// busy_timeout applies; the unique index on phone_number decides conflicts.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.CreatedAt.IsZero() {
		member.CreatedAt = s.now().UTC().Truncate(time.Second)
	}

	var lastPayment interface{} = nil
	if member.LastPayment != nil {
		lastPayment = member.LastPayment.Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO members (name, phone_number, has_paid, created_at, last_payment)
		 VALUES (?, ?, ?, ?, ?)`,
		member.Name, member.PhoneNumber, member.HasPaid, member.CreatedAt.Unix(), lastPayment,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("member with phone %s: %w", member.PhoneNumber, storage.ErrConflict)
		}
		return fmt.Errorf("failed to insert member: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read member id: %w", err)
	}

	member.ID = id
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?",
		id,
	)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// GetMemberByPhone retrieves a member by canonical phone number.
func (s *SQLiteStore) GetMemberByPhone(ctx context.Context, phone string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE phone_number = ?",
		phone,
	)
	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member with phone %s: %w", phone, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member by phone: %w", err)
	}
	return member, nil
}

// ListMembers returns all members, newest first, with their ledger totals.
func (s *SQLiteStore) ListMembers(ctx context.Context) ([]*models.Member, error) {
	members, err := s.queryMembersWithTotals(ctx, "", "m.created_at DESC, m.id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// SearchMembers returns members whose name contains query, ignoring ASCII
// case, ordered by name. At most limit rows are returned.
func (s *SQLiteStore) SearchMembers(ctx context.Context, query string, limit int) ([]*models.Member, error) {
	if limit <= 0 {
		return nil, nil
	}

	pattern := "%" + likeEscaper.Replace(query) + "%"
	members, err := s.queryMembersWithTotals(ctx,
		`WHERE m.name LIKE ? ESCAPE '\'`, "m.name COLLATE NOCASE, m.id LIMIT ?",
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	return members, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// queryMembersWithTotals selects members joined with the sum of their payments.
func (s *SQLiteStore) queryMembersWithTotals(ctx context.Context, where, orderBy string, args ...any) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.phone_number, m.has_paid, m.created_at, m.last_payment,
		       COALESCE(SUM(p.amount), 0)
		FROM members m
		LEFT JOIN payments p ON p.member_id = m.id
		`+where+`
		GROUP BY m.id
		ORDER BY `+orderBy, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		var createdAt int64
		var lastPayment sql.NullInt64
		if err := rows.Scan(&member.ID, &member.Name, &member.PhoneNumber, &member.HasPaid,
			&createdAt, &lastPayment, &member.TotalPaid); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member.CreatedAt = fromUnix(createdAt)
		member.LastPayment = nullableTime(lastPayment)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// ListUnpaidMembers returns every member with has_paid = 0, ordered by ID.
func (s *SQLiteStore) ListUnpaidMembers(ctx context.Context) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE has_paid = 0 ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unpaid members: %w", err)
	}

	return members, nil
}

// ResetCycle starts a new contribution cycle by marking every member unpaid.
func (s *SQLiteStore) ResetCycle(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE members SET has_paid = 0 WHERE has_paid = 1")
	if err != nil {
		return 0, fmt.Errorf("failed to reset cycle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read reset count: %w", err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	member := &models.Member{}
	var createdAt int64
	var lastPayment sql.NullInt64
	if err := row.Scan(&member.ID, &member.Name, &member.PhoneNumber, &member.HasPaid,
		&createdAt, &lastPayment); err != nil {
		return nil, err
	}
	member.CreatedAt = fromUnix(createdAt)
	member.LastPayment = nullableTime(lastPayment)
	return member, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
