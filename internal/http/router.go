package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openpara/regionhub/internal/auth"
	"github.com/openpara/regionhub/internal/cache"
	"github.com/openpara/regionhub/internal/config"
	"github.com/openpara/regionhub/internal/http/handlers"
	"github.com/openpara/regionhub/internal/http/middlewares"
	"github.com/openpara/regionhub/internal/observability"
	"github.com/openpara/regionhub/internal/repo/postgres"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	redisClient *cache.Client,
	prom *observability.Prom,
	gatherer prometheus.Gatherer,
	cfg config.Config,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("regionhub"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// wire up repositories, instrumented for the db metrics
	usersRepo := postgres.InstrumentUsers(postgres.NewUsersRepo(pool), prom)
	regionsRepo := postgres.InstrumentRegions(postgres.NewRegionsRepo(pool), prom)
	eventsRepo := postgres.InstrumentEvents(postgres.NewEventsRepo(pool), prom)

	listCache := cache.NewListCache(redisClient, cfg.ListCacheTTL)

	// auth pieces
	codec := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authMiddleware := middlewares.NewAuthMiddleware(codec, usersRepo)
	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, codec)
	regionsHandler := handlers.NewRegionsHandler(regionsRepo, listCache, prom)
	eventsHandler := handlers.NewEventsHandler(eventsRepo, listCache, prom)

	requireJSON := middlewares.RequireJSON()

	// auth routes, rate limited by client IP
	r.POST("/register", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), requireJSON, authHandler.Register)
	r.POST("/login", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), requireJSON, authHandler.Login)

	// regions
	r.GET("/regions", regionsHandler.ListRegions)
	r.GET("/regions/:code", regionsHandler.GetRegionByNOC)
	r.POST("/regions", requireJSON, regionsHandler.CreateRegion)
	r.PATCH("/regions/:code", authMiddleware.RequireAuth(), requireJSON, regionsHandler.UpdateRegion)
	r.DELETE("/regions/:code", regionsHandler.DeleteRegion)

	// events
	r.GET("/events", eventsHandler.ListEvents)
	r.GET("/events/:id", eventsHandler.GetEventByID)
	r.POST("/events", requireJSON, eventsHandler.CreateEvent)
	r.PATCH("/events/:id", requireJSON, eventsHandler.UpdateEvent)
	r.DELETE("/events/:id", eventsHandler.DeleteEvent)

	return r
}
