package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openpara/regionhub/internal/cache"
	"github.com/openpara/regionhub/internal/config"
	"github.com/openpara/regionhub/internal/domain/region"
	"github.com/openpara/regionhub/internal/observability"
)

type RegionsStore interface {
	List(ctx context.Context) ([]region.Region, error)
	GetByNOC(ctx context.Context, noc string) (region.Region, error)
	Create(ctx context.Context, req region.CreateRegionRequest) (region.Region, error)
	Update(ctx context.Context, noc string, req region.UpdateRegionRequest) (region.Region, error)
	Delete(ctx context.Context, noc string) error
}

type RegionsHandler struct {
	repo      RegionsStore
	listCache *cache.ListCache
	metrics   *observability.Prom
}

func NewRegionsHandler(repo RegionsStore, listCache *cache.ListCache, metrics *observability.Prom) *RegionsHandler {
	return &RegionsHandler{
		repo:      repo,
		listCache: listCache,
		metrics:   metrics,
	}
}

func (h *RegionsHandler) ListRegions(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	var cached []region.Region

	hit, err := h.listCache.GetJSON(cctx, cache.RegionsListKey, &cached)

	if err == nil && hit {
		h.countCache(true)
		ctx.JSON(http.StatusOK, gin.H{
			"items": cached,
			"count": len(cached),
		})
		return
	}
	h.countCache(false)

	regions, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list regions")
		return
	}

	// cache failures must not fail the request
	_ = h.listCache.SetJSON(cctx, cache.RegionsListKey, regions)

	ctx.JSON(http.StatusOK, gin.H{
		"items": regions,
		"count": len(regions),
	})
}

func (h *RegionsHandler) GetRegionByNOC(ctx *gin.Context) {
	noc := ctx.Param("code")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.repo.GetByNOC(cctx, noc)

	if err != nil {
		if errors.Is(err, region.ErrNotFound) {
			RespondNotFound(ctx, "Region not found")
			return
		}
		RespondInternal(ctx, "Could not fetch region")
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

func (h *RegionsHandler) CreateRegion(ctx *gin.Context) {
	var req region.CreateRegionRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.repo.Create(cctx, req)

	if err != nil {
		if errors.Is(err, region.ErrDuplicateNOC) {
			RespondError(ctx, http.StatusConflict, "conflict", "Region already exists.", nil)
			return
		}
		RespondInternal(ctx, "Could not create region")
		return
	}

	h.invalidateList(cctx)

	RespondMessage(ctx, http.StatusCreated, fmt.Sprintf("Region added with NOC= %s", reg.NOC))
}

func (h *RegionsHandler) UpdateRegion(ctx *gin.Context) {
	noc := ctx.Param("code")

	var req region.UpdateRegionRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	_, err := h.repo.Update(cctx, noc, req)

	if err != nil {
		if errors.Is(err, region.ErrNotFound) {
			RespondNotFound(ctx, "Region not found")
			return
		}
		RespondInternal(ctx, "Could not update region")
		return
	}

	h.invalidateList(cctx)

	RespondMessage(ctx, http.StatusOK, fmt.Sprintf("Region %s updated.", noc))
}

func (h *RegionsHandler) DeleteRegion(ctx *gin.Context) {
	noc := ctx.Param("code")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, noc)

	if err != nil {
		if errors.Is(err, region.ErrNotFound) {
			RespondNotFound(ctx, "Region not found")
			return
		}
		RespondInternal(ctx, "Could not delete region")
		return
	}

	h.invalidateList(cctx)

	RespondMessage(ctx, http.StatusOK, fmt.Sprintf("Region %s deleted.", noc))
}

func (h *RegionsHandler) invalidateList(ctx context.Context) {
	_ = h.listCache.Delete(ctx, cache.RegionsListKey)
}

func (h *RegionsHandler) countCache(hit bool) {
	if h.metrics == nil {
		return
	}

	if hit {
		h.metrics.CacheHits.WithLabelValues("regions_list").Inc()
		return
	}

	h.metrics.CacheMisses.WithLabelValues("regions_list").Inc()
}
