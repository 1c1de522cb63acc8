// Package services – TenantService
//
// This file implements the TenantService, which owns the tenant lifecycle
// state machine: creation with schema provisioning, soft deletion, restore,
// permanent deletion, activation toggling, and hostname binding. All state
// checks and the updates they guard run inside one transaction under a row
// lock, so concurrent duplicate invocations resolve to typed
// "already in target state" errors instead of silently re-succeeding.
//
// Creation is a saga, not a transaction: the Tenant and primary Domain rows
// commit atomically, then schema provisioning and migration run as separate
// fallible steps while the row carries status "provisioning". Any step
// failure triggers compensating cleanup (drop the partial schema, delete the
// rows); a tenant is either fully usable or not observable at all.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/distroapp/go-tenant-backend/internal/domain"
	"github.com/distroapp/go-tenant-backend/internal/repo"
	"github.com/distroapp/go-tenant-backend/internal/schema"
)

// tracer traces lifecycle operations; spans nest under the HTTP span from
// otelgin when tracing is enabled.
var tracer trace.Tracer = otel.Tracer("github.com/distroapp/go-tenant-backend/internal/services")

// TenantRepo defines the tenant persistence contract required by
// TenantService. Implementations must be safe for use inside transactions:
// every method receives the handle to operate on.
type TenantRepo interface {
	// CreateTenant inserts a new tenant row.
	CreateTenant(ctx context.Context, db *gorm.DB, t *domain.Tenant) error

	// GetTenant fetches a tenant with domains preloaded, or ErrNotFound.
	GetTenant(ctx context.Context, db *gorm.DB, id uint) (*domain.Tenant, error)

	// GetTenantForUpdate fetches a tenant under a row lock.
	GetTenantForUpdate(ctx context.Context, db *gorm.DB, id uint) (*domain.Tenant, error)

	// UpdateTenantFields applies a partial column update.
	UpdateTenantFields(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) error

	// DeleteTenant removes the tenant row permanently.
	DeleteTenant(ctx context.Context, db *gorm.DB, id uint) error

	// ListTenants returns tenants ordered by name.
	ListTenants(ctx context.Context, db *gorm.DB, activeOnly, includeDeleted bool, offset, limit int) ([]domain.Tenant, error)

	// CountTenants returns the total matching ListTenants' filters.
	CountTenants(ctx context.Context, db *gorm.DB, activeOnly, includeDeleted bool) (int64, error)

	// SchemaNames returns stored schema names colliding with base.
	SchemaNames(ctx context.Context, db *gorm.DB, base string) ([]string, error)
}

// DomainRepo defines the hostname-binding persistence contract required by
// TenantService.
type DomainRepo interface {
	// CreateDomain inserts a hostname binding; ErrDuplicate on collision.
	CreateDomain(ctx context.Context, db *gorm.DB, d *domain.Domain) error

	// SetDomainsActive flips is_active on all of a tenant's domains.
	SetDomainsActive(ctx context.Context, db *gorm.DB, tenantID uint, active bool) error

	// ActivatePrimaryDomain reactivates only the primary domain.
	ActivatePrimaryDomain(ctx context.Context, db *gorm.DB, tenantID uint) error

	// ClearPrimaryDomains removes the primary flag from all domains.
	ClearPrimaryDomains(ctx context.Context, db *gorm.DB, tenantID uint) error

	// DeleteDomains removes all of a tenant's hostname bindings.
	DeleteDomains(ctx context.Context, db *gorm.DB, tenantID uint) error
}

// TenantService provides the tenant lifecycle operations. It coordinates the
// control-plane repositories and the schema provisioner; it never mutates a
// tenant outside these operations.
type TenantService struct {
	// DB is the GORM handle used for persistence and transactions.
	DB *gorm.DB
	// Tenants is the tenant repository.
	Tenants TenantRepo
	// Domains is the hostname-binding repository.
	Domains DomainRepo
	// Provisioner manages the per-tenant isolated schemas.
	Provisioner schema.Provisioner

	// SchemaPrefix is the namespace token for generated schema names.
	SchemaPrefix string
}

// NewTenantService constructs a TenantService with the default schema
// namespace prefix.
func NewTenantService(db *gorm.DB, tr TenantRepo, dr DomainRepo, p schema.Provisioner) *TenantService {
	return &TenantService{
		DB:           db,
		Tenants:      tr,
		Domains:      dr,
		Provisioner:  p,
		SchemaPrefix: schema.DefaultPrefix,
	}
}

// Create provisions a new utility: generates the schema name, persists the
// tenant and its primary domain in one transaction, then creates the
// isolated schema and applies the per-tenant migrations. On any failure the
// compensating cleanup removes whatever partial state exists and a
// *CreationError describing the failed step is returned; ErrDuplicateDomain
// remains reachable through errors.Is for hostname collisions.
func (s *TenantService) Create(ctx context.Context, name, domainName string) (*domain.Tenant, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if domainName == "" {
		return nil, ErrDomainRequired
	}

	ctx, span := tracer.Start(ctx, "tenant.create")
	defer span.End()

	var t *domain.Tenant
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		base := schema.Normalize(name, s.SchemaPrefix)
		existing, err := s.Tenants.SchemaNames(ctx, tx, base)
		if err != nil {
			return err
		}
		t = &domain.Tenant{
			Name:       name,
			SchemaName: schema.Unique(base, existing),
			Status:     domain.TenantProvisioning,
			IsActive:   true,
		}
		if err := s.Tenants.CreateTenant(ctx, tx, t); err != nil {
			return err
		}
		d := &domain.Domain{
			Domain:    domainName,
			TenantID:  t.ID,
			IsPrimary: true,
			IsActive:  true,
		}
		if err := s.Domains.CreateDomain(ctx, tx, d); err != nil {
			if isDuplicate(err) {
				return ErrDuplicateDomain
			}
			return err
		}
		return nil
	})
	if err != nil {
		lifecycleOps.WithLabelValues("create", "error").Inc()
		return nil, &CreationError{Step: "persist", Err: err}
	}
	span.SetAttributes(
		attribute.Int("tenant.id", int(t.ID)),
		attribute.String("tenant.schema", t.SchemaName),
	)

	if err := s.Provisioner.CreateSchema(ctx, t.SchemaName); err != nil {
		s.compensate(ctx, t)
		lifecycleOps.WithLabelValues("create", "error").Inc()
		return nil, &CreationError{Step: "provision", Err: err}
	}
	if err := s.Provisioner.MigrateSchema(ctx, t.SchemaName); err != nil {
		s.compensate(ctx, t)
		lifecycleOps.WithLabelValues("create", "error").Inc()
		return nil, &CreationError{Step: "migrate", Err: err}
	}
	if err := s.Tenants.UpdateTenantFields(ctx, s.DB, t.ID, map[string]any{
		"status": domain.TenantReady,
	}); err != nil {
		s.compensate(ctx, t)
		lifecycleOps.WithLabelValues("create", "error").Inc()
		return nil, &CreationError{Step: "finalize", Err: err}
	}

	log.Info().
		Uint("tenant_id", t.ID).
		Str("name", t.Name).
		Str("schema", t.SchemaName).
		Msg("tenant created")
	lifecycleOps.WithLabelValues("create", "ok").Inc()

	return s.Tenants.GetTenant(ctx, s.DB, t.ID)
}

// compensate is the cleanup path of a failed create: drop whatever part of
// the schema exists, then remove the tenant and domain rows. When cleanup
// itself fails, the row is left behind with status "failed" so an operator
// can finish the job; it is never left looking usable.
func (s *TenantService) compensate(ctx context.Context, t *domain.Tenant) {
	markFailed := func(cause error) {
		log.Error().Err(cause).
			Uint("tenant_id", t.ID).
			Str("schema", t.SchemaName).
			Msg("tenant creation cleanup failed; row kept with status=failed")
		_ = s.Tenants.UpdateTenantFields(ctx, s.DB, t.ID, map[string]any{
			"status":    domain.TenantFailed,
			"is_active": false,
		})
	}

	if err := s.Provisioner.DropSchema(ctx, t.SchemaName); err != nil {
		markFailed(err)
		return
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Domains.DeleteDomains(ctx, tx, t.ID); err != nil {
			return err
		}
		return s.Tenants.DeleteTenant(ctx, tx, t.ID)
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		markFailed(err)
		return
	}
	log.Warn().
		Uint("tenant_id", t.ID).
		Str("schema", t.SchemaName).
		Msg("tenant creation rolled back")
}

// SoftDelete marks the tenant deleted and inactive, stamps deleted_on, and
// deactivates every bound domain. The rows and the isolated schema survive
// for a possible restore. When confirmName is non-empty it must exactly
// equal the current utility name.
func (s *TenantService) SoftDelete(ctx context.Context, id uint, confirmName string) (*domain.Tenant, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		t, err := s.Tenants.GetTenantForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err)
		}
		if confirmName != "" && confirmName != t.Name {
			return ErrConfirmationMismatch
		}
		if t.IsDeleted {
			return ErrAlreadyDeleted
		}
		now := time.Now().UTC()
		if err := s.Tenants.UpdateTenantFields(ctx, tx, id, map[string]any{
			"is_deleted": true,
			"is_active":  false,
			"deleted_on": now,
		}); err != nil {
			return err
		}
		return s.Domains.SetDomainsActive(ctx, tx, id, false)
	})
	if err != nil {
		lifecycleOps.WithLabelValues("soft_delete", "error").Inc()
		return nil, err
	}

	log.Warn().Uint("tenant_id", id).Msg("tenant soft deleted")
	lifecycleOps.WithLabelValues("soft_delete", "ok").Inc()
	return s.Tenants.GetTenant(ctx, s.DB, id)
}

// Restore brings a soft-deleted tenant back: clears the deletion flags and
// reactivates the primary domain only. Non-primary domains stay inactive
// until rebound explicitly.
func (s *TenantService) Restore(ctx context.Context, id uint) (*domain.Tenant, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		t, err := s.Tenants.GetTenantForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err)
		}
		if !t.IsDeleted {
			return ErrNotDeleted
		}
		if err := s.Tenants.UpdateTenantFields(ctx, tx, id, map[string]any{
			"is_deleted": false,
			"is_active":  true,
			"deleted_on": nil,
		}); err != nil {
			return err
		}
		return s.Domains.ActivatePrimaryDomain(ctx, tx, id)
	})
	if err != nil {
		lifecycleOps.WithLabelValues("restore", "error").Inc()
		return nil, err
	}

	log.Info().Uint("tenant_id", id).Msg("tenant restored")
	lifecycleOps.WithLabelValues("restore", "ok").Inc()
	return s.Tenants.GetTenant(ctx, s.DB, id)
}

// PermanentlyDelete drops the tenant's isolated schema with all its data and
// removes the control-plane rows. Only soft-deleted tenants qualify; a live
// tenant must be soft-deleted first. The row lock is held across the schema
// drop so a concurrent restore cannot interleave.
func (s *TenantService) PermanentlyDelete(ctx context.Context, id uint, confirmName string) error {
	ctx, span := tracer.Start(ctx, "tenant.purge")
	defer span.End()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		t, err := s.Tenants.GetTenantForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err)
		}
		if confirmName != "" && confirmName != t.Name {
			return ErrConfirmationMismatch
		}
		if !t.IsDeleted {
			return ErrNotSoftDeleted
		}

		log.Warn().
			Uint("tenant_id", id).
			Str("schema", t.SchemaName).
			Msg("permanently deleting tenant")

		if err := s.Provisioner.DropSchema(ctx, t.SchemaName); err != nil {
			return fmt.Errorf("drop schema %s: %w", t.SchemaName, err)
		}
		if err := s.Domains.DeleteDomains(ctx, tx, id); err != nil {
			return err
		}
		return s.Tenants.DeleteTenant(ctx, tx, id)
	})
	if err != nil {
		lifecycleOps.WithLabelValues("purge", "error").Inc()
		return err
	}
	lifecycleOps.WithLabelValues("purge", "ok").Inc()
	return nil
}

// ToggleStatus sets is_active to the given value, or flips the current value
// when isActive is nil. Toggling is orthogonal to deletion but forbidden on
// soft-deleted tenants: their flags stay frozen until restored.
func (s *TenantService) ToggleStatus(ctx context.Context, id uint, isActive *bool) (*domain.Tenant, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		t, err := s.Tenants.GetTenantForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err)
		}
		if t.IsDeleted {
			return ErrTenantDeleted
		}
		next := !t.IsActive
		if isActive != nil {
			next = *isActive
		}
		return s.Tenants.UpdateTenantFields(ctx, tx, id, map[string]any{
			"is_active": next,
		})
	})
	if err != nil {
		lifecycleOps.WithLabelValues("toggle_status", "error").Inc()
		return nil, err
	}
	lifecycleOps.WithLabelValues("toggle_status", "ok").Inc()
	return s.Tenants.GetTenant(ctx, s.DB, id)
}

// AddDomain binds an additional hostname to the tenant. When isPrimary is
// set, the primary flag moves from the old primary to the new domain inside
// one transaction, so at no point does the tenant have zero or two
// primaries.
func (s *TenantService) AddDomain(ctx context.Context, tenantID uint, domainName string, isPrimary bool) (*domain.Domain, error) {
	if domainName == "" {
		return nil, ErrDomainRequired
	}

	d := &domain.Domain{
		Domain:    domainName,
		TenantID:  tenantID,
		IsPrimary: isPrimary,
		IsActive:  true,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Tenants.GetTenantForUpdate(ctx, tx, tenantID); err != nil {
			return notFound(err)
		}
		if isPrimary {
			if err := s.Domains.ClearPrimaryDomains(ctx, tx, tenantID); err != nil {
				return err
			}
		}
		if err := s.Domains.CreateDomain(ctx, tx, d); err != nil {
			if isDuplicate(err) {
				return ErrDuplicateDomain
			}
			return err
		}
		return nil
	})
	if err != nil {
		lifecycleOps.WithLabelValues("add_domain", "error").Inc()
		return nil, err
	}

	log.Info().
		Uint("tenant_id", tenantID).
		Str("domain", domainName).
		Bool("is_primary", isPrimary).
		Msg("domain bound")
	lifecycleOps.WithLabelValues("add_domain", "ok").Inc()
	return d, nil
}

// ListPage returns a page of tenants ordered by name plus the total count.
// Soft-deleted tenants are excluded unless includeDeleted is set.
func (s *TenantService) ListPage(ctx context.Context, activeOnly, includeDeleted bool, page, pageSize int) ([]domain.Tenant, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Tenants.CountTenants(ctx, s.DB, activeOnly, includeDeleted)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Tenant{}, 0, nil
	}

	items, err := s.Tenants.ListTenants(ctx, s.DB, activeOnly, includeDeleted, offset, pageSize)
	return items, total, err
}

// Get returns the tenant with its domains, regardless of deleted state.
func (s *TenantService) Get(ctx context.Context, id uint) (*domain.Tenant, error) {
	t, err := s.Tenants.GetTenant(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// notFound maps the repository's record-missing error to the service-level
// sentinel, leaving other errors untouched.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTenantNotFound
	}
	return err
}

// isDuplicate reports whether err is the repository's uniqueness violation.
func isDuplicate(err error) bool {
	return errors.Is(err, repo.ErrDuplicate)
}
