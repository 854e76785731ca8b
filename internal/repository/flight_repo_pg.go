package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlightRepository reads the flight catalog. Only operated flights are
// returned by the search queries.
type FlightRepository interface {
	FindDirect(ctx context.Context, date domain.Date, originCity, destCity string, limit int) ([]domain.Flight, error)
	FindConnections(ctx context.Context, date domain.Date, originCity, destCity string, limit int) ([]domain.Connection, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.fid, f.carrier_id, c.name, f.flight_num, f.origin_city, f.dest_city, f.year, f.month_id, f.day_of_month, f.actual_time`

func (r *PGFlightRepository) FindDirect(ctx context.Context, date domain.Date, originCity, destCity string, limit int) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+`
		FROM flights f
		JOIN carriers c ON c.cid = f.carrier_id
		WHERE f.actual_time IS NOT NULL
			AND f.year = $1 AND f.month_id = $2 AND f.day_of_month = $3
			AND f.origin_city = $4 AND f.dest_city = $5
		ORDER BY f.actual_time ASC, f.fid ASC
		LIMIT $6`,
		date.Year, int(date.Month), date.Day, originCity, destCity, limit)
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

func (r *PGFlightRepository) FindConnections(ctx context.Context, date domain.Date, originCity, destCity string, limit int) ([]domain.Connection, error) {
	rows, err := r.db.Query(ctx, `SELECT
			f1.fid, f1.carrier_id, c1.name, f1.flight_num, f1.origin_city, f1.dest_city, f1.year, f1.month_id, f1.day_of_month, f1.actual_time,
			f2.fid, f2.carrier_id, c2.name, f2.flight_num, f2.origin_city, f2.dest_city, f2.year, f2.month_id, f2.day_of_month, f2.actual_time
		FROM flights f1
		JOIN carriers c1 ON c1.cid = f1.carrier_id
		JOIN flights f2 ON f2.origin_city = f1.dest_city
			AND f2.year = f1.year AND f2.month_id = f1.month_id AND f2.day_of_month = f1.day_of_month
		JOIN carriers c2 ON c2.cid = f2.carrier_id
		WHERE f1.actual_time IS NOT NULL AND f2.actual_time IS NOT NULL
			AND f1.year = $1 AND f1.month_id = $2 AND f1.day_of_month = $3
			AND f1.origin_city = $4 AND f2.dest_city = $5
		ORDER BY f1.actual_time + f2.actual_time ASC, f1.fid ASC, f2.fid ASC
		LIMIT $6`,
		date.Year, int(date.Month), date.Day, originCity, destCity, limit)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	connections := make([]domain.Connection, 0)
	for rows.Next() {
		var first, second flightRow
		if err := rows.Scan(append(first.targets(), second.targets()...)...); err != nil {
			return nil, translateErr(err)
		}
		connections = append(connections, domain.Connection{First: first.flight(), Second: second.flight()})
	}
	return connections, translateErr(rows.Err())
}

func (r *PGFlightRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Flight, error) {
	if len(ids) == 0 {
		return []domain.Flight{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+`
		FROM flights f
		JOIN carriers c ON c.cid = f.carrier_id
		WHERE f.fid = ANY($1)`, ids)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	byID := make(map[int64]domain.Flight, len(ids))
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, translateErr(err)
		}
		byID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	flights := make([]domain.Flight, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown flight %d", domain.ErrInvalidInput, id)
		}
		flights = append(flights, f)
	}
	return flights, nil
}

type flightRow struct {
	id          int64
	carrierID   string
	carrierName string
	number      string
	origin      string
	dest        string
	year        int
	month       int
	day         int
	actualTime  *float64
}

func (r *flightRow) targets() []any {
	return []any{&r.id, &r.carrierID, &r.carrierName, &r.number, &r.origin, &r.dest, &r.year, &r.month, &r.day, &r.actualTime}
}

func (r *flightRow) flight() domain.Flight {
	f := domain.Flight{
		ID:           r.id,
		Carrier:      domain.Carrier{ID: r.carrierID, Name: r.carrierName},
		FlightNumber: r.number,
		OriginCity:   r.origin,
		DestCity:     r.dest,
		Date:         domain.NewDate(r.year, time.Month(r.month), r.day),
	}
	if r.actualTime != nil {
		f.Operated = true
		f.DurationMinutes = int(*r.actualTime)
	}
	return f
}

func scanFlight(rows pgx.Rows) (domain.Flight, error) {
	var row flightRow
	if err := rows.Scan(row.targets()...); err != nil {
		return domain.Flight{}, err
	}
	return row.flight(), nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
