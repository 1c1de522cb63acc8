// Package httpapi wires the HTTP transport (Gin) to the tenant lifecycle
// service, middleware, and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, logging/redaction, panic
// recovery, metrics, compression, CORS, security headers, idempotency, and
// rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/distroapp/go-tenant-backend/docs" // swagger spec registration
	"github.com/distroapp/go-tenant-backend/internal/config"
	"github.com/distroapp/go-tenant-backend/internal/domain"
	"github.com/distroapp/go-tenant-backend/internal/http/handlers"
	"github.com/distroapp/go-tenant-backend/internal/http/middleware"
	"github.com/distroapp/go-tenant-backend/internal/repo"
	"github.com/distroapp/go-tenant-backend/internal/schema"
	"github.com/distroapp/go-tenant-backend/internal/services"
)

// tenantRepoShim adapts the repository free functions to the
// services.TenantRepo interface expected by the TenantService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type tenantRepoShim struct{}

func (tenantRepoShim) CreateTenant(ctx context.Context, db *gorm.DB, t *domain.Tenant) error {
	return repo.CreateTenant(ctx, db, t)
}

func (tenantRepoShim) GetTenant(ctx context.Context, db *gorm.DB, id uint) (*domain.Tenant, error) {
	return repo.GetTenant(ctx, db, id)
}

func (tenantRepoShim) GetTenantForUpdate(ctx context.Context, db *gorm.DB, id uint) (*domain.Tenant, error) {
	return repo.GetTenantForUpdate(ctx, db, id)
}

func (tenantRepoShim) UpdateTenantFields(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) error {
	return repo.UpdateTenantFields(ctx, db, id, fields)
}

func (tenantRepoShim) DeleteTenant(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeleteTenant(ctx, db, id)
}

func (tenantRepoShim) ListTenants(ctx context.Context, db *gorm.DB, activeOnly, includeDeleted bool, offset, limit int) ([]domain.Tenant, error) {
	return repo.ListTenants(ctx, db, activeOnly, includeDeleted, offset, limit)
}

func (tenantRepoShim) CountTenants(ctx context.Context, db *gorm.DB, activeOnly, includeDeleted bool) (int64, error) {
	return repo.CountTenants(ctx, db, activeOnly, includeDeleted)
}

func (tenantRepoShim) SchemaNames(ctx context.Context, db *gorm.DB, base string) ([]string, error) {
	return repo.SchemaNames(ctx, db, base)
}

// domainRepoShim adapts the hostname-binding repository functions to the
// services.DomainRepo interface.
type domainRepoShim struct{}

func (domainRepoShim) CreateDomain(ctx context.Context, db *gorm.DB, d *domain.Domain) error {
	return repo.CreateDomain(ctx, db, d)
}

func (domainRepoShim) SetDomainsActive(ctx context.Context, db *gorm.DB, tenantID uint, active bool) error {
	return repo.SetDomainsActive(ctx, db, tenantID, active)
}

func (domainRepoShim) ActivatePrimaryDomain(ctx context.Context, db *gorm.DB, tenantID uint) error {
	return repo.ActivatePrimaryDomain(ctx, db, tenantID)
}

func (domainRepoShim) ClearPrimaryDomains(ctx context.Context, db *gorm.DB, tenantID uint) error {
	return repo.ClearPrimaryDomains(ctx, db, tenantID)
}

func (domainRepoShim) DeleteDomains(ctx context.Context, db *gorm.DB, tenantID uint) error {
	return repo.DeleteDomains(ctx, db, tenantID)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned tenant administration API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Response compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, prov schema.Provisioner, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses (tenant lists get large)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, actor, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, actor, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "ETag", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "ETag", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginswagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: service ← repo/db/provisioner
	svc := services.NewTenantService(db, tenantRepoShim{}, domainRepoShim{}, prov)
	if cfg.SchemaPrefix != "" {
		svc.SchemaPrefix = cfg.SchemaPrefix
	}
	h := handlers.New(svc)
	h.IdempotencyTTL = cfg.IdempotencyTTL

	// Tenant administration API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Tenants
		api.POST("/tenants", h.CreateTenant)
		api.GET("/tenants", h.ListTenants)
		api.GET("/tenants/:id", h.GetTenant)
		api.DELETE("/tenants/:id", h.SoftDeleteTenant)
		api.POST("/tenants/:id/restore", h.RestoreTenant)
		api.DELETE("/tenants/:id/purge", h.PurgeTenant)
		api.POST("/tenants/:id/status", h.ToggleTenantStatus)

		// Domains
		api.POST("/tenants/:id/domains", h.AddDomain)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
