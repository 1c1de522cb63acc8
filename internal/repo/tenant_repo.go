// Package repo implements the data persistence layer for the tenant control
// plane, backed by GORM. This file provides repository functions for the
// Tenant model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no lifecycle rules, only CRUD persistence and query composition.
// State-machine enforcement lives in services.TenantService.
//
// Error semantics:
//   - When a tenant is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/distroapp/go-tenant-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateTenant inserts a new Tenant row. The caller supplies the generated
// schema name; CreatedOn is set to UTC here rather than left to the driver.
func CreateTenant(ctx context.Context, db *gorm.DB, t *domain.Tenant) error {
	t.CreatedOn = time.Now().UTC()
	return db.WithContext(ctx).Create(t).Error
}

// GetTenant fetches a tenant by id with its domains preloaded, regardless of
// soft-delete state. Returns ErrNotFound when the row does not exist.
func GetTenant(ctx context.Context, db *gorm.DB, id uint) (*domain.Tenant, error) {
	var t domain.Tenant
	err := db.WithContext(ctx).
		Preload("Domains").
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenantForUpdate fetches a tenant by id under a row lock so that the
// state check and the subsequent update observe the same row version. Two
// concurrent soft-deletes serialize here; the loser sees the already-deleted
// flag. SQLite serializes writers at the database level, so the locking
// clause is only added on Postgres.
func GetTenantForUpdate(ctx context.Context, db *gorm.DB, id uint) (*domain.Tenant, error) {
	q := db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var t domain.Tenant
	if err := q.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTenantFields applies a partial column update to the tenant row.
// Returns ErrNotFound when no row matched.
func UpdateTenantFields(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTenant removes the tenant row permanently. Domain rows cascade via
// the FK constraint; on SQLite (tests) the service deletes them explicitly
// because PRAGMA-level cascades depend on connection settings.
func DeleteTenant(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Tenant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTenants returns tenants ordered by name, with domains preloaded.
// Soft-deleted tenants are excluded unless includeDeleted is set; activeOnly
// further restricts the result to is_active rows. Offset/limit paginate;
// limit <= 0 disables pagination.
func ListTenants(ctx context.Context, db *gorm.DB, activeOnly, includeDeleted bool, offset, limit int) ([]domain.Tenant, error) {
	q := tenantListQuery(ctx, db, activeOnly, includeDeleted).
		Preload("Domains").
		Order("name asc")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var out []domain.Tenant
	err := q.Find(&out).Error
	return out, err
}

// CountTenants returns the number of tenants matching the same filters as
// ListTenants, for pagination metadata.
func CountTenants(ctx context.Context, db *gorm.DB, activeOnly, includeDeleted bool) (int64, error) {
	var total int64
	err := tenantListQuery(ctx, db, activeOnly, includeDeleted).Count(&total).Error
	return total, err
}

func tenantListQuery(ctx context.Context, db *gorm.DB, activeOnly, includeDeleted bool) *gorm.DB {
	q := db.WithContext(ctx).Model(&domain.Tenant{})
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return q
}

// SchemaNames returns every stored schema name equal to base or carrying a
// "base_<suffix>" form, across all tenants including soft-deleted ones. The
// schema-name generator derives the minimum unused suffix from this single
// query instead of probing candidates one round-trip at a time.
func SchemaNames(ctx context.Context, db *gorm.DB, base string) ([]string, error) {
	var names []string
	// ESCAPE is explicit: SQLite's LIKE has no default escape character.
	err := db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where(`schema_name = ? OR schema_name LIKE ? ESCAPE '\'`, base, base+`\_%`).
		Pluck("schema_name", &names).Error
	return names, err
}

// TenantsStats returns aggregate metadata over the tenants table: the total
// number of rows and the greatest UpdatedOn timestamp. The HTTP layer uses it
// for weak ETags on list responses. When there are no tenants, the returned
// count is 0 and maxUpdatedOn is nil.
func TenantsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedOn *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Tenant{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_on (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedOn time.Time
	}
	if err = q.Select("updated_on").Order("updated_on DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedOn, nil
}
