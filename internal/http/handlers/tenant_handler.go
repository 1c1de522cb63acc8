// Tenant HTTP handlers.
//
// This file exposes the tenant administration endpoints:
//   - POST   /tenants               (create utility + primary domain)
//   - GET    /tenants               (list, paginated, ETag support)
//   - GET    /tenants/{id}          (detail, includes soft-deleted)
//   - DELETE /tenants/{id}          (soft delete)
//   - POST   /tenants/{id}/restore  (restore from soft delete)
//   - DELETE /tenants/{id}/purge    (permanent delete, schema drop)
//   - POST   /tenants/{id}/status   (activate/deactivate/toggle)
//   - POST   /tenants/{id}/domains  (bind an additional hostname)
//
// Handlers are transport-thin: they validate input, call the tenant service,
// and translate lifecycle errors into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/distroapp/go-tenant-backend/internal/domain"
	"github.com/distroapp/go-tenant-backend/internal/http/middleware"
	"github.com/distroapp/go-tenant-backend/internal/repo"
	"github.com/distroapp/go-tenant-backend/internal/services"
	"github.com/distroapp/go-tenant-backend/internal/sysutil"
	"github.com/distroapp/go-tenant-backend/internal/utils"
)

// TenantService defines the lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type TenantService interface {
	// Create provisions a new utility with its primary domain.
	Create(ctx context.Context, name, domainName string) (*domain.Tenant, error)
	// SoftDelete marks a tenant deleted, keeping schema and data.
	SoftDelete(ctx context.Context, id uint, confirmName string) (*domain.Tenant, error)
	// Restore brings a soft-deleted tenant back.
	Restore(ctx context.Context, id uint) (*domain.Tenant, error)
	// PermanentlyDelete drops the tenant's schema and rows.
	PermanentlyDelete(ctx context.Context, id uint, confirmName string) error
	// ToggleStatus sets or flips is_active.
	ToggleStatus(ctx context.Context, id uint, isActive *bool) (*domain.Tenant, error)
	// AddDomain binds an additional hostname.
	AddDomain(ctx context.Context, tenantID uint, domainName string, isPrimary bool) (*domain.Domain, error)
	// ListPage returns a page of tenants plus the total count.
	ListPage(ctx context.Context, activeOnly, includeDeleted bool, page, pageSize int) ([]domain.Tenant, int64, error)
	// Get returns a tenant with its domains, soft-deleted included.
	Get(ctx context.Context, id uint) (*domain.Tenant, error)
}

// Handlers groups the HTTP endpoints for tenant administration. It depends
// on the abstract service interface to keep transport concerns separate from
// lifecycle logic.
type Handlers struct {
	svc TenantService

	// IdempotencyTTL bounds how long a recorded tenant-creation outcome is
	// replayable. Zero means the 24h default.
	IdempotencyTTL time.Duration
}

// New constructs a Handlers instance bound to the given service.
func New(svc TenantService) *Handlers {
	return &Handlers{svc: svc}
}

// actorID extracts the administrator identity from the Gin context (set by
// upstream auth middleware). If absent, it falls back to the "X-User-ID"
// header (tests use it), and finally to "admin".
func actorID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "admin"
}

//
// DTOs
//

// CreateTenantRequest is the JSON payload for creating a utility.
type CreateTenantRequest struct {
	// Name is the utility display name.
	Name string `json:"name" binding:"required,min=1,max=100" example:"Nairobi Water"`
	// Domain is the primary hostname routed to the new tenant.
	Domain string `json:"domain" binding:"required,min=1,max=253" example:"nairobi.distro.app"`
}

// ConfirmRequest optionally carries the utility name as a safety check for
// destructive operations.
type ConfirmRequest struct {
	// ConfirmName must equal the current utility name when provided.
	ConfirmName string `json:"confirm_name,omitempty" example:"Nairobi Water"`
}

// ToggleStatusRequest sets or flips tenant activation.
type ToggleStatusRequest struct {
	// IsActive sets the flag explicitly; omitted means "flip".
	IsActive *bool `json:"is_active,omitempty"`
}

// AddDomainRequest binds an additional hostname to a tenant.
type AddDomainRequest struct {
	// Domain is the hostname to bind (globally unique).
	Domain string `json:"domain" binding:"required,min=1,max=253" example:"backup.nairobi.distro.app"`
	// IsPrimary promotes the new domain to primary, demoting the old one.
	IsPrimary bool `json:"is_primary"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListTenantsResponse wraps a page of tenants and pagination information.
type ListTenantsResponse struct {
	Tenants    []domain.Tenant `json:"tenants"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// tenantID parses the :id path parameter. A zero return means the handler
// already wrote a 400 response.
func tenantID(c *gin.Context) uint {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tenant id must be a positive integer")
		return 0
	}
	return uint(id)
}

// failService translates lifecycle errors into HTTP responses. State-machine
// violations map to 409 so clients can distinguish "wrong state" from
// "bad input" without parsing messages.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTenantNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "tenant not found")
	case errors.Is(err, services.ErrConfirmationMismatch):
		fail(c, http.StatusBadRequest, ErrCodeConfirmationMismatch, services.ErrConfirmationMismatch.Error())
	case errors.Is(err, services.ErrAlreadyDeleted):
		fail(c, http.StatusConflict, ErrCodeAlreadyDeleted, services.ErrAlreadyDeleted.Error())
	case errors.Is(err, services.ErrNotDeleted):
		fail(c, http.StatusConflict, ErrCodeNotDeleted, services.ErrNotDeleted.Error())
	case errors.Is(err, services.ErrNotSoftDeleted):
		fail(c, http.StatusConflict, ErrCodeNotSoftDeleted, services.ErrNotSoftDeleted.Error())
	case errors.Is(err, services.ErrTenantDeleted):
		fail(c, http.StatusConflict, ErrCodeTenantDeleted, services.ErrTenantDeleted.Error())
	case errors.Is(err, services.ErrDuplicateDomain):
		fail(c, http.StatusConflict, ErrCodeDuplicateDomain, services.ErrDuplicateDomain.Error())
	case errors.Is(err, services.ErrNameRequired), errors.Is(err, services.ErrDomainRequired):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// db exposes the service's GORM handle when the concrete TenantService is in
// use (ETag stats, idempotency records). Best effort: nil with fakes.
func (h *Handlers) db() *gorm.DB {
	if svc, ok := h.svc.(*services.TenantService); ok {
		return svc.DB
	}
	return nil
}

//
// Handlers
//

// CreateTenant godoc
// @ID          createTenant
// @Summary     Create a new utility tenant
// @Description Provisions an isolated schema, the tenant record, and its primary domain. Supports Idempotency-Key replays.
// @Tags        Tenants
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Administrator ID"  example(ops-admin)
// @Param       Idempotency-Key  header  string  false "Key for safe retries"
// @Param       body             body    handlers.CreateTenantRequest  true  "Create tenant payload"
//
// @Success     201  {object}  domain.Tenant
// @Success     200  {object}  domain.Tenant "Replay of a previously completed create"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Domain already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Creation failed"
// @Router      /tenants [post]
func (h *Handlers) CreateTenant(c *gin.Context) {
	ctx := c.Request.Context()

	// Serve recorded outcome on idempotent replay.
	if middleware.IsReplay(c) {
		if t := h.replayTenant(ctx, c); t != nil {
			ok(c, http.StatusOK, t)
			return
		}
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and domain are required")
		return
	}

	t, err := h.svc.Create(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.Domain))
	if err != nil {
		var ce *services.CreationError
		switch {
		case errors.Is(err, services.ErrDuplicateDomain):
			fail(c, http.StatusConflict, ErrCodeDuplicateDomain, services.ErrDuplicateDomain.Error())
		case errors.Is(err, services.ErrNameRequired), errors.Is(err, services.ErrDomainRequired):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.As(err, &ce):
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, ce.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	h.recordIdempotency(ctx, c, t.ID, http.StatusCreated)
	ok(c, http.StatusCreated, t)
}

// replayTenant resolves a detected idempotent replay to the originally
// created tenant. Returns nil when the record or tenant cannot be loaded,
// in which case the request proceeds as a fresh create.
func (h *Handlers) replayTenant(ctx context.Context, c *gin.Context) *domain.Tenant {
	db := h.db()
	key, okKey := middleware.GetIdempotencyKey(c)
	if db == nil || !okKey {
		return nil
	}
	rec, err := repo.GetIdempotency(ctx, db, actorID(c), key, time.Now().UTC())
	if err != nil {
		return nil
	}
	t, err := h.svc.Get(ctx, rec.TenantID)
	if err != nil {
		return nil
	}
	return t
}

// recordIdempotency persists the creation outcome for later replays. Best
// effort: failures only lose replay protection, never the created tenant.
func (h *Handlers) recordIdempotency(ctx context.Context, c *gin.Context, id uint, status int) {
	db := h.db()
	key, okKey := middleware.GetIdempotencyKey(c)
	if db == nil || !okKey {
		return
	}
	ttl := h.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if _, err := repo.CreateIdempotency(ctx, db, actorID(c), key, id, status, ttl); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not persisted")
	}
}

// ListTenants godoc
// @ID          listTenants
// @Summary     List utility tenants (paginated)
// @Description Returns a page of tenants ordered by name. Soft-deleted tenants are excluded unless include_deleted is set. Supports weak ETag via If-None-Match.
// @Tags        Tenants
// @Produce     json
//
// @Param       If-None-Match    header  string  false "Return 304 if ETag matches"
// @Param       active_only      query   bool    false "Only active tenants"         default(false)
// @Param       include_deleted  query   bool    false "Include soft-deleted"        default(false)
// @Param       page             query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size        query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListTenantsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tenants [get]
func (h *Handlers) ListTenants(c *gin.Context) {
	ctx := c.Request.Context()
	activeOnly := sysutil.IsTruthy(c.Query("active_only"))
	includeDeleted := sysutil.IsTruthy(c.Query("include_deleted"))
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if db := h.db(); db != nil {
		count, maxTS, err := repo.TenantsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"tenants:%t:%t:%d:%d"`, activeOnly, includeDeleted, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.svc.ListPage(ctx, activeOnly, includeDeleted, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListTenantsResponse{
		Tenants: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetTenant godoc
// @ID          getTenant
// @Summary     Get tenant details
// @Description Returns one tenant with its domains. Soft-deleted tenants remain readable.
// @Tags        Tenants
// @Produce     json
//
// @Param       id  path  int  true  "Tenant ID"
//
// @Success     200  {object} domain.Tenant
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Tenant not found"
// @Router      /tenants/{id} [get]
func (h *Handlers) GetTenant(c *gin.Context) {
	id := tenantID(c)
	if id == 0 {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// SoftDeleteTenant godoc
// @ID          softDeleteTenant
// @Summary     Soft delete a tenant
// @Description Marks the utility deleted and inactive and deactivates its domains. Schema and data are preserved for restore.
// @Tags        Tenants
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                      true  "Tenant ID"
// @Param       body  body  handlers.ConfirmRequest  false "Optional name confirmation"
//
// @Success     200  {object} domain.Tenant
// @Failure     400  {object} handlers.ErrorResponse "Confirmation mismatch"
// @Failure     404  {object} handlers.ErrorResponse "Tenant not found"
// @Failure     409  {object} handlers.ErrorResponse "Already deleted"
// @Router      /tenants/{id} [delete]
func (h *Handlers) SoftDeleteTenant(c *gin.Context) {
	id := tenantID(c)
	if id == 0 {
		return
	}
	var req ConfirmRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	t, err := h.svc.SoftDelete(c.Request.Context(), id, req.ConfirmName)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// RestoreTenant godoc
// @ID          restoreTenant
// @Summary     Restore a soft-deleted tenant
// @Description Clears the deletion flags and reactivates the primary domain. Non-primary domains stay inactive.
// @Tags        Tenants
// @Produce     json
//
// @Param       id  path  int  true  "Tenant ID"
//
// @Success     200  {object} domain.Tenant
// @Failure     404  {object} handlers.ErrorResponse "Tenant not found"
// @Failure     409  {object} handlers.ErrorResponse "Not deleted"
// @Router      /tenants/{id}/restore [post]
func (h *Handlers) RestoreTenant(c *gin.Context) {
	id := tenantID(c)
	if id == 0 {
		return
	}
	t, err := h.svc.Restore(c.Request.Context(), id)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// PurgeTenant godoc
// @ID          purgeTenant
// @Summary     Permanently delete a tenant
// @Description Drops the tenant's isolated schema with all its data and removes the control-plane rows. Only soft-deleted tenants qualify.
// @Tags        Tenants
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                      true  "Tenant ID"
// @Param       body  body  handlers.ConfirmRequest  false "Optional name confirmation"
//
// @Success     200  {object} map[string]bool
// @Failure     400  {object} handlers.ErrorResponse "Confirmation mismatch"
// @Failure     404  {object} handlers.ErrorResponse "Tenant not found"
// @Failure     409  {object} handlers.ErrorResponse "Not soft-deleted"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tenants/{id}/purge [delete]
func (h *Handlers) PurgeTenant(c *gin.Context) {
	id := tenantID(c)
	if id == 0 {
		return
	}
	var req ConfirmRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	if err := h.svc.PermanentlyDelete(c.Request.Context(), id, req.ConfirmName); err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"deleted": true})
}

// ToggleTenantStatus godoc
// @ID          toggleTenantStatus
// @Summary     Activate or deactivate a tenant
// @Description Sets is_active to the given value, or flips it when omitted. Rejected for soft-deleted tenants.
// @Tags        Tenants
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                           true  "Tenant ID"
// @Param       body  body  handlers.ToggleStatusRequest  false "Explicit value, or empty to flip"
//
// @Success     200  {object} domain.Tenant
// @Failure     404  {object} handlers.ErrorResponse "Tenant not found"
// @Failure     409  {object} handlers.ErrorResponse "Tenant is soft-deleted"
// @Router      /tenants/{id}/status [post]
func (h *Handlers) ToggleTenantStatus(c *gin.Context) {
	id := tenantID(c)
	if id == 0 {
		return
	}
	var req ToggleStatusRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	t, err := h.svc.ToggleStatus(c.Request.Context(), id, req.IsActive)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, t)
}

// AddDomain godoc
// @ID          addDomain
// @Summary     Bind an additional hostname
// @Description Adds a domain to the tenant. With is_primary set, the primary flag moves atomically to the new domain.
// @Tags        Domains
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                        true  "Tenant ID"
// @Param       body  body  handlers.AddDomainRequest  true  "Domain payload"
//
// @Success     201  {object} domain.Domain
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Tenant not found"
// @Failure     409  {object} handlers.ErrorResponse "Domain already exists"
// @Router      /tenants/{id}/domains [post]
func (h *Handlers) AddDomain(c *gin.Context) {
	id := tenantID(c)
	if id == 0 {
		return
	}
	var req AddDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "domain is required")
		return
	}

	d, err := h.svc.AddDomain(c.Request.Context(), id, strings.TrimSpace(req.Domain), req.IsPrimary)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}
