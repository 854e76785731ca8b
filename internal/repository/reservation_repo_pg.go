package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IsolationLevel string

const (
	Serializable  IsolationLevel = "serializable"
	ReadCommitted IsolationLevel = "read committed"
)

type TxOptions struct {
	Isolation IsolationLevel
	// LockTimeout bounds how long a statement inside the transaction waits
	// for a row lock. Zero keeps the server default.
	LockTimeout time.Duration
}

// ReservationTx is the set of reservation queries available inside one
// transaction.
type ReservationTx interface {
	CountForFlight(ctx context.Context, flightID int64) (int, error)
	CountForUserOnDate(ctx context.Context, userID int64, date domain.Date) (int, error)
	CountForUser(ctx context.Context, userID int64) (int, error)
	Insert(ctx context.Context, userID, flightID int64) error
	Delete(ctx context.Context, userID, flightID int64) error
}

type ReservationRepository interface {
	// WithinTx runs fn in a transaction and commits when fn returns nil.
	// Errors returned by fn are passed through unchanged after rollback.
	WithinTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context, tx ReservationTx) error) error
	ListForUser(ctx context.Context, userID int64) ([]domain.Flight, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) WithinTx(ctx context.Context, opts TxOptions, fn func(ctx context.Context, tx ReservationTx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: isoLevel(opts.Isolation)})
	if err != nil {
		return translateErr(err)
	}
	defer tx.Rollback(ctx)

	if opts.LockTimeout > 0 {
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, fmt.Sprintf("%dms", opts.LockTimeout.Milliseconds())); err != nil {
			return translateErr(err)
		}
	}

	if err := fn(ctx, &pgReservationTx{tx: tx}); err != nil {
		return err
	}

	return translateErr(tx.Commit(ctx))
}

func (r *PGReservationRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+`
		FROM reservations r
		JOIN flights f ON f.fid = r.fid
		JOIN carriers c ON c.cid = f.carrier_id
		WHERE r.uid = $1
		ORDER BY f.year, f.month_id, f.day_of_month, f.fid`, userID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, translateErr(err)
		}
		flights = append(flights, f)
	}
	return flights, translateErr(rows.Err())
}

type pgReservationTx struct {
	tx pgx.Tx
}

func (t *pgReservationTx) CountForFlight(ctx context.Context, flightID int64) (int, error) {
	var count int
	if err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE fid = $1`, flightID).Scan(&count); err != nil {
		return 0, translateErr(err)
	}
	return count, nil
}

func (t *pgReservationTx) CountForUserOnDate(ctx context.Context, userID int64, date domain.Date) (int, error) {
	var count int
	if err := t.tx.QueryRow(ctx, `SELECT COUNT(*)
		FROM reservations r
		JOIN flights f ON f.fid = r.fid
		WHERE r.uid = $1 AND f.year = $2 AND f.month_id = $3 AND f.day_of_month = $4`,
		userID, date.Year, int(date.Month), date.Day).Scan(&count); err != nil {
		return 0, translateErr(err)
	}
	return count, nil
}

func (t *pgReservationTx) CountForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := t.tx.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE uid = $1`, userID).Scan(&count); err != nil {
		return 0, translateErr(err)
	}
	return count, nil
}

// Insert only accepts flights that exist and have operated.
func (t *pgReservationTx) Insert(ctx context.Context, userID, flightID int64) error {
	cmd, err := t.tx.Exec(ctx, `INSERT INTO reservations (uid, fid)
		SELECT $1, f.fid FROM flights f WHERE f.fid = $2 AND f.actual_time IS NOT NULL`, userID, flightID)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: flight %d does not exist or has not operated", domain.ErrInvalidInput, flightID)
	}
	return nil
}

func (t *pgReservationTx) Delete(ctx context.Context, userID, flightID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM reservations WHERE uid = $1 AND fid = $2`, userID, flightID)
	return translateErr(err)
}

func isoLevel(level IsolationLevel) pgx.TxIsoLevel {
	switch level {
	case ReadCommitted:
		return pgx.ReadCommitted
	default:
		return pgx.Serializable
	}
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
