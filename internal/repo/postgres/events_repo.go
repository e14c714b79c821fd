package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openpara/regionhub/internal/domain/event"
)

type EventsRepo struct {
	pool *pgxpool.Pool
}

func NewEventsRepo(pool *pgxpool.Pool) *EventsRepo {
	return &EventsRepo{
		pool: pool,
	}
}

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	e := event.NewFromCreateRequest(req)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO events (id, type, year, country, host, noc, start_date, end_date, participants, highlights, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.Type, e.Year, e.Country, e.Host, e.NOC, e.Start, e.End, e.Participants, e.Highlights, e.CreatedAt, e.UpdatedAt)

	if err != nil {
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
	baseQuery := `SELECT id,
		type,
		year,
		country,
		host,
		noc,
		start_date,
		end_date,
		participants,
		highlights,
		created_at,
		updated_at,
		COUNT(*) OVER() AS total
	FROM events
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.Type != nil {
		conds = append(conds, fmt.Sprintf("type = $%d", argsPosition))
		args = append(args, *filter.Type)
		argsPosition++
	}

	if filter.Year != nil {
		conds = append(conds, fmt.Sprintf("year = $%d", argsPosition))
		args = append(args, *filter.Year)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY year ASC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]event.Event, 0, filter.Limit)
	total := 0

	for rows.Next() {
		var e event.Event
		var t int

		err = rows.Scan(&e.ID, &e.Type, &e.Year, &e.Country, &e.Host, &e.NOC, &e.Start, &e.End, &e.Participants, &e.Highlights, &e.CreatedAt, &e.UpdatedAt, &t)

		if err != nil {
			return nil, 0, err
		}

		total = t
		output = append(output, e)
	}

	err = rows.Err()

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	var e event.Event

	err := r.pool.QueryRow(ctx,
		`SELECT id, type, year, country, host, noc, start_date, end_date, participants, highlights, created_at, updated_at
		 FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Type, &e.Year, &e.Country, &e.Host, &e.NOC, &e.Start, &e.End, &e.Participants, &e.Highlights, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}

		return event.Event{}, err
	}

	return e, nil
}

// Update applies only the fields present in the request.
func (r *EventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	var sets []string
	var args []interface{}

	argsPosition := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if req.Type != nil {
		appendSet("type", *req.Type)
	}
	if req.Year != nil {
		appendSet("year", *req.Year)
	}
	if req.Country != nil {
		appendSet("country", *req.Country)
	}
	if req.Host != nil {
		appendSet("host", *req.Host)
	}
	if req.NOC != nil {
		appendSet("noc", *req.NOC)
	}
	if req.Start != nil {
		appendSet("start_date", *req.Start)
	}
	if req.End != nil {
		appendSet("end_date", *req.End)
	}
	if req.Participants != nil {
		appendSet("participants", *req.Participants)
	}
	if req.Highlights != nil {
		appendSet("highlights", *req.Highlights)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE events SET %s WHERE id = $%d
		 RETURNING id, type, year, country, host, noc, start_date, end_date, participants, highlights, created_at, updated_at`,
		strings.Join(sets, ", "),
		argsPosition,
	)

	args = append(args, id)

	var e event.Event

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&e.ID, &e.Type, &e.Year, &e.Country, &e.Host, &e.NOC, &e.Start, &e.End, &e.Participants, &e.Highlights, &e.CreatedAt, &e.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}

		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	query, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if query.RowsAffected() == 0 {
		return event.ErrNotFound
	}

	return nil
}
