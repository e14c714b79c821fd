package postgres

import (
	"context"
	"errors"

	"github.com/openpara/regionhub/internal/domain/event"
	"github.com/openpara/regionhub/internal/domain/region"
	"github.com/openpara/regionhub/internal/domain/user"
	"github.com/openpara/regionhub/internal/observability"
)

// Instrumented wrappers record per-operation latency and error class around
// the underlying repo calls. Expected domain outcomes (not found, duplicate)
// are not infrastructure errors and don't count against the error metrics.

func expectedOutcome(err error) bool {
	return errors.Is(err, region.ErrNotFound) ||
		errors.Is(err, region.ErrDuplicateNOC) ||
		errors.Is(err, event.ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrEmailAlreadyUsed)
}

func observe(m *observability.Prom, op string, fn func() error) error {
	var opErr error

	_ = m.ObserveDB(op, func() error {
		opErr = fn()

		if opErr != nil && expectedOutcome(opErr) {
			return nil
		}

		return opErr
	})

	return opErr
}

type InstrumentedRegionsRepo struct {
	inner   *RegionsRepo
	metrics *observability.Prom
}

func InstrumentRegions(inner *RegionsRepo, metrics *observability.Prom) *InstrumentedRegionsRepo {
	return &InstrumentedRegionsRepo{inner: inner, metrics: metrics}
}

func (r *InstrumentedRegionsRepo) List(ctx context.Context) ([]region.Region, error) {
	var out []region.Region

	err := observe(r.metrics, "regions_list", func() error {
		var err error
		out, err = r.inner.List(ctx)
		return err
	})

	return out, err
}

func (r *InstrumentedRegionsRepo) GetByNOC(ctx context.Context, noc string) (region.Region, error) {
	var out region.Region

	err := observe(r.metrics, "regions_get", func() error {
		var err error
		out, err = r.inner.GetByNOC(ctx, noc)
		return err
	})

	return out, err
}

func (r *InstrumentedRegionsRepo) Create(ctx context.Context, req region.CreateRegionRequest) (region.Region, error) {
	var out region.Region

	err := observe(r.metrics, "regions_create", func() error {
		var err error
		out, err = r.inner.Create(ctx, req)
		return err
	})

	return out, err
}

func (r *InstrumentedRegionsRepo) Update(ctx context.Context, noc string, req region.UpdateRegionRequest) (region.Region, error) {
	var out region.Region

	err := observe(r.metrics, "regions_update", func() error {
		var err error
		out, err = r.inner.Update(ctx, noc, req)
		return err
	})

	return out, err
}

func (r *InstrumentedRegionsRepo) Delete(ctx context.Context, noc string) error {
	return observe(r.metrics, "regions_delete", func() error {
		return r.inner.Delete(ctx, noc)
	})
}

type InstrumentedEventsRepo struct {
	inner   *EventsRepo
	metrics *observability.Prom
}

func InstrumentEvents(inner *EventsRepo, metrics *observability.Prom) *InstrumentedEventsRepo {
	return &InstrumentedEventsRepo{inner: inner, metrics: metrics}
}

func (r *InstrumentedEventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	var out event.Event

	err := observe(r.metrics, "events_create", func() error {
		var err error
		out, err = r.inner.Create(ctx, req)
		return err
	})

	return out, err
}

func (r *InstrumentedEventsRepo) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error) {
	var (
		out   []event.Event
		total int
	)

	err := observe(r.metrics, "events_list", func() error {
		var err error
		out, total, err = r.inner.List(ctx, filter)
		return err
	})

	return out, total, err
}

func (r *InstrumentedEventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	var out event.Event

	err := observe(r.metrics, "events_get", func() error {
		var err error
		out, err = r.inner.GetByID(ctx, id)
		return err
	})

	return out, err
}

func (r *InstrumentedEventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error) {
	var out event.Event

	err := observe(r.metrics, "events_update", func() error {
		var err error
		out, err = r.inner.Update(ctx, id, req)
		return err
	})

	return out, err
}

func (r *InstrumentedEventsRepo) Delete(ctx context.Context, id string) error {
	return observe(r.metrics, "events_delete", func() error {
		return r.inner.Delete(ctx, id)
	})
}

type InstrumentedUsersRepo struct {
	inner   *UsersRepo
	metrics *observability.Prom
}

func InstrumentUsers(inner *UsersRepo, metrics *observability.Prom) *InstrumentedUsersRepo {
	return &InstrumentedUsersRepo{inner: inner, metrics: metrics}
}

func (r *InstrumentedUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var out user.User

	err := observe(r.metrics, "users_get_by_email", func() error {
		var err error
		out, err = r.inner.GetByEmail(ctx, email)
		return err
	})

	return out, err
}

func (r *InstrumentedUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var out user.User

	err := observe(r.metrics, "users_get_by_id", func() error {
		var err error
		out, err = r.inner.GetByID(ctx, id)
		return err
	})

	return out, err
}

func (r *InstrumentedUsersRepo) Create(ctx context.Context, email, passwordHash, name string) (user.User, error) {
	var out user.User

	err := observe(r.metrics, "users_create", func() error {
		var err error
		out, err = r.inner.Create(ctx, email, passwordHash, name)
		return err
	})

	return out, err
}
