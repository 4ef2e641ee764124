package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/medisecure/medisecure-backend/internal/auth"
	"github.com/medisecure/medisecure-backend/internal/cache"
	"github.com/medisecure/medisecure-backend/internal/config"
	"github.com/medisecure/medisecure-backend/internal/domain/appointment"
	"github.com/medisecure/medisecure-backend/internal/domain/user"
	"github.com/medisecure/medisecure-backend/internal/http/handlers"
	"github.com/medisecure/medisecure-backend/internal/http/middlewares"
	"github.com/medisecure/medisecure-backend/internal/observability"
	"github.com/medisecure/medisecure-backend/internal/repo/postgres"
)

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())

	// middleware chain, outermost first

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(prom.GinHandleMiddleware())
	r.Use(otelgin.Middleware("medisecure-api"))
	r.Use(middlewares.NewAuthGate(jwtManager, cfg.AuthExemptPaths, log).Handler())

	limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	r.Use(limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool)
	patientsRepo := postgres.NewPatientsRepo(pool)
	appointmentsRepo := postgres.NewAppointmentsRepo(pool, prom)
	jobsRepo := postgres.NewJobsRepo(pool, prom)

	scheduling := appointment.NewService()
	listCache := cache.New(5 * time.Second)

	// wire up handlers
	healthHandler := handlers.NewHealthHandler(pool)
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager, cfg)
	appointmentsHandler := handlers.NewAppointmentsHandler(appointmentsRepo, patientsRepo, jobsRepo, scheduling, listCache)
	patientsHandler := handlers.NewPatientsHandler(patientsRepo)

	// open surface
	r.GET("/health", healthHandler.Healthz)
	r.GET("/health/ready", healthHandler.Readyz)
	r.GET("/docs", handlers.DocsUI)
	r.GET("/openapi.json", handlers.OpenAPISpec)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// session lifecycle
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/auth/verify", middlewares.RequireAuthenticated(), authHandler.Verify)
	r.GET("/auth/me", middlewares.RequireAuthenticated(), authHandler.Me)

	// appointments
	staff := user.SchedulingStaff()

	appointments := r.Group("/appointments")
	{
		appointments.GET("", middlewares.RequireAuthenticated(), appointmentsHandler.List)
		appointments.GET("/availability", middlewares.RequireAuthenticated(), appointmentsHandler.Availability)
		appointments.GET("/:id", middlewares.RequireAuthenticated(), appointmentsHandler.GetByID)
		appointments.POST("", middlewares.RequireRoles(staff...), appointmentsHandler.Create)
		appointments.PUT("/:id", middlewares.RequireRoles(staff...), appointmentsHandler.Update)
		appointments.DELETE("/:id", middlewares.RequireRoles(user.RoleAdmin, user.RoleDoctor), appointmentsHandler.Delete)
	}

	// patients carry medical data, so even reads stay staff-only
	patients := r.Group("/patients", middlewares.RequireRoles(staff...))
	{
		patients.GET("", patientsHandler.List)
		patients.GET("/:id", patientsHandler.GetByID)
		patients.POST("", patientsHandler.Create)
		patients.PUT("/:id", patientsHandler.Update)
		patients.DELETE("/:id", patientsHandler.Delete)
	}

	return r
}
