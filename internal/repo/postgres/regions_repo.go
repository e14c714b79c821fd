package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openpara/regionhub/internal/domain/region"
)

type RegionsRepo struct {
	pool *pgxpool.Pool
}

func NewRegionsRepo(pool *pgxpool.Pool) *RegionsRepo {
	return &RegionsRepo{
		pool: pool,
	}
}

func (r *RegionsRepo) List(ctx context.Context) ([]region.Region, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT noc, region, notes FROM regions ORDER BY noc ASC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	output := make([]region.Region, 0)

	for rows.Next() {
		var reg region.Region

		err = rows.Scan(&reg.NOC, &reg.Region, &reg.Notes)

		if err != nil {
			return nil, err
		}

		output = append(output, reg)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *RegionsRepo) GetByNOC(ctx context.Context, noc string) (region.Region, error) {
	var reg region.Region

	err := r.pool.QueryRow(
		ctx,
		`SELECT noc, region, notes FROM regions WHERE noc = $1`,
		noc,
	).Scan(&reg.NOC, &reg.Region, &reg.Notes)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return region.Region{}, region.ErrNotFound
		}

		return region.Region{}, err
	}

	return reg, nil
}

func (r *RegionsRepo) Create(ctx context.Context, req region.CreateRegionRequest) (region.Region, error) {
	reg := region.Region{
		NOC:    req.NOC,
		Region: req.Region,
		Notes:  req.Notes,
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO regions (noc, region, notes) VALUES ($1, $2, $3)`,
		reg.NOC, reg.Region, reg.Notes,
	)

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return region.Region{}, region.ErrDuplicateNOC
		}

		return region.Region{}, err
	}

	return reg, nil
}

// Update applies only the fields present in the request.
func (r *RegionsRepo) Update(ctx context.Context, noc string, req region.UpdateRegionRequest) (region.Region, error) {
	var sets []string
	var args []interface{}

	argsPosition := 1

	if req.Region != nil {
		sets = append(sets, fmt.Sprintf("region = $%d", argsPosition))
		args = append(args, *req.Region)
		argsPosition++
	}

	if req.Notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", argsPosition))
		args = append(args, *req.Notes)
		argsPosition++
	}

	if len(sets) == 0 {
		// nothing to change, still confirm the row exists
		return r.GetByNOC(ctx, noc)
	}

	query := fmt.Sprintf(
		`UPDATE regions SET %s WHERE noc = $%d RETURNING noc, region, notes`,
		strings.Join(sets, ", "),
		argsPosition,
	)

	args = append(args, noc)

	var reg region.Region

	err := r.pool.QueryRow(ctx, query, args...).Scan(&reg.NOC, &reg.Region, &reg.Notes)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return region.Region{}, region.ErrNotFound
		}

		return region.Region{}, err
	}

	return reg, nil
}

func (r *RegionsRepo) Delete(ctx context.Context, noc string) error {
	query, err := r.pool.Exec(ctx, `DELETE FROM regions WHERE noc = $1`, noc)

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if query.RowsAffected() == 0 {
		return region.ErrNotFound
	}

	return nil
}
