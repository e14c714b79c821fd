package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openpara/regionhub/internal/cache"
	"github.com/openpara/regionhub/internal/config"
	"github.com/openpara/regionhub/internal/domain/event"
	"github.com/openpara/regionhub/internal/observability"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type EventsStore interface {
	Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int, error)
	GetByID(ctx context.Context, id string) (event.Event, error)
	Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventsHandler struct {
	repo      EventsStore
	listCache *cache.ListCache
	metrics   *observability.Prom
}

func NewEventsHandler(repo EventsStore, listCache *cache.ListCache, metrics *observability.Prom) *EventsHandler {
	return &EventsHandler{
		repo:      repo,
		listCache: listCache,
		metrics:   metrics,
	}
}

type eventsListResponse struct {
	Items []event.Event `json:"items"`
	Count int           `json:"count"`
	Total int           `json:"total"`
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	filter, ok := parseListFilter(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	key := cache.BuildEventsListKey(filter.Type, filter.Year, filter.Limit, filter.Offset)

	var cached eventsListResponse

	hit, err := h.listCache.GetJSON(cctx, key, &cached)

	if err == nil && hit {
		h.countCache(true)
		ctx.JSON(http.StatusOK, cached)
		return
	}
	h.countCache(false)

	events, total, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list events")
		return
	}

	resp := eventsListResponse{
		Items: events,
		Count: len(events),
		Total: total,
	}

	_ = h.listCache.SetJSON(cctx, key, resp)

	ctx.JSON(http.StatusOK, resp)
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	e, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not fetch event")
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	e, err := h.repo.Create(cctx, req)

	if err != nil {
		RespondInternal(ctx, "Could not create event")
		return
	}

	h.invalidateList(cctx)

	RespondMessage(ctx, http.StatusCreated, fmt.Sprintf("Event added with id= %s", e.ID))
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	_, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not update event")
		return
	}

	h.invalidateList(cctx)

	RespondMessage(ctx, http.StatusOK, fmt.Sprintf("Event with id=%s updated.", id))
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not delete event")
		return
	}

	h.invalidateList(cctx)

	RespondMessage(ctx, http.StatusOK, fmt.Sprintf("Event %s deleted.", id))
}

func parseListFilter(ctx *gin.Context) (event.ListEventsFilter, bool) {
	filter := event.ListEventsFilter{
		Limit: defaultListLimit,
	}

	if v := ctx.Query("type"); v != "" {
		if v != "summer" && v != "winter" {
			RespondBadRequest(ctx, "Invalid query", gin.H{"type": "must be one of summer, winter"})
			return filter, false
		}
		filter.Type = &v
	}

	if v := ctx.Query("year"); v != "" {
		year, err := strconv.Atoi(v)

		if err != nil {
			RespondBadRequest(ctx, "Invalid query", gin.H{"year": "must be an integer"})
			return filter, false
		}
		filter.Year = &year
	}

	if v := ctx.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)

		if err != nil || limit < 1 || limit > maxListLimit {
			RespondBadRequest(ctx, "Invalid query", gin.H{"limit": fmt.Sprintf("must be between 1 and %d", maxListLimit)})
			return filter, false
		}
		filter.Limit = limit
	}

	if v := ctx.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)

		if err != nil || offset < 0 {
			RespondBadRequest(ctx, "Invalid query", gin.H{"offset": "must be zero or positive"})
			return filter, false
		}
		filter.Offset = offset
	}

	return filter, true
}

func (h *EventsHandler) invalidateList(ctx context.Context) {
	_ = h.listCache.Delete(ctx, cache.EventsListDefaultKey)
}

func (h *EventsHandler) countCache(hit bool) {
	if h.metrics == nil {
		return
	}

	if hit {
		h.metrics.CacheHits.WithLabelValues("events_list").Inc()
		return
	}

	h.metrics.CacheMisses.WithLabelValues("events_list").Inc()
}
