package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore persists payments in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed payment store and ensures the
// schema exists.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate payments schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			amount NUMERIC(14,2) NOT NULL,
			method TEXT NOT NULL,
			status TEXT NOT NULL,
			receiver TEXT NOT NULL,
			sender TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			transaction_id TEXT UNIQUE NOT NULL,
			failure_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS payments_created_at_idx ON payments (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS payments_status_idx ON payments (status);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

const paymentColumns = `id, amount, method, status, receiver, sender, description, transaction_id, failure_reason, created_at, updated_at`

// Insert stores a single payment record.
func (s *PostgresStore) Insert(ctx context.Context, p Payment) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("parse payment id: %w", err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, p.Amount, p.Method, p.Status, p.Receiver, p.Sender, p.Description,
		p.TransactionID, p.FailureReason, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	return err
}

// InsertMany stores a batch of payments in one round trip.
func (s *PostgresStore) InsertMany(ctx context.Context, ps []Payment) error {
	batch := &pgx.Batch{}
	for _, p := range ps {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return fmt.Errorf("parse payment id: %w", err)
		}
		batch.Queue(`INSERT INTO payments (`+paymentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			id, p.Amount, p.Method, p.Status, p.Receiver, p.Sender, p.Description,
			p.TransactionID, p.FailureReason, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	}
	return s.db.SendBatch(ctx, batch).Close()
}

// FindByID fetches a single payment.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (Payment, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return Payment{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID)
	return scanPayment(row)
}

// FindPage returns matching payments ordered by created_at descending.
func (s *PostgresStore) FindPage(ctx context.Context, f Filter, skip, limit int) ([]Payment, error) {
	where, args := whereClause(f)
	args = append(args, limit, skip)
	query := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Payment, 0, limit)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Count returns the number of payments matching the filter.
func (s *PostgresStore) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := whereClause(f)
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments `+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SumAmount totals the amount of payments matching the filter. The sum is
// zero, never NULL, when nothing matches.
func (s *PostgresStore) SumAmount(ctx context.Context, f Filter) (float64, error) {
	where, args := whereClause(f)
	var total float64
	if err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments `+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// RevenueByDay groups successful payments since the given instant by calendar
// day, ordered ascending. Days without successful payments are absent. The
// grouping timezone is pinned to this process's local zone so the day buckets
// line up with the midnight-anchored stats windows regardless of the database
// session's TimeZone setting.
func (s *PostgresStore) RevenueByDay(ctx context.Context, since time.Time) ([]TrendPoint, error) {
	const query = `
		SELECT to_char(created_at AT TIME ZONE $3, 'YYYY-MM-DD') AS day, SUM(amount), COUNT(*)
		FROM payments
		WHERE status = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC`

	rows, err := s.db.Query(ctx, query, StatusSuccess, since.UTC(), localZoneName())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := make([]TrendPoint, 0)
	for rows.Next() {
		var point TrendPoint
		if err := rows.Scan(&point.Date, &point.Revenue, &point.Count); err != nil {
			return nil, err
		}
		trend = append(trend, point)
	}
	return trend, rows.Err()
}

func scanPayment(row pgx.Row) (Payment, error) {
	var (
		id uuid.UUID
		p  Payment
	)
	err := row.Scan(&id, &p.Amount, &p.Method, &p.Status, &p.Receiver, &p.Sender,
		&p.Description, &p.TransactionID, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	p.ID = id.String()
	return p, nil
}

// whereClause builds the conjunctive WHERE clause for a filter. Each present
// field narrows the match; absent fields impose no constraint.
func whereClause(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Method != "" {
		add("method = $%d", f.Method)
	}
	if f.Start != nil {
		add("created_at >= $%d", f.Start.UTC())
	}
	if f.End != nil {
		add("created_at <= $%d", f.End.UTC())
	}

	if len(conds) == 0 {
		return "", nil
	}
	where := "WHERE " + conds[0]
	for _, cond := range conds[1:] {
		where += " AND " + cond
	}
	return where, args
}

// localZoneName resolves the process's local timezone to a name Postgres
// accepts in AT TIME ZONE. When no IANA name is configured (time.Local reports
// "Local"), it falls back to a fixed-offset Etc/GMT zone; Etc/GMT zone names
// carry the POSIX sign convention, hence the negation.
func localZoneName() string {
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	_, offset := time.Now().Zone()
	if offset == 0 {
		return "UTC"
	}
	return fmt.Sprintf("Etc/GMT%+d", -offset/3600)
}
