// Package repo implements the data persistence layer for the tenant control
// plane, backed by GORM. This file provides repository functions for the
// Domain model (hostname bindings).
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/distroapp/go-tenant-backend/internal/domain"
)

// ErrDuplicate indicates a uniqueness violation (hostname or idempotency
// tuple already taken).
var ErrDuplicate = errors.New("duplicate")

// CreateDomain inserts a hostname binding. Hostnames are globally unique;
// a collision with any tenant's domain yields ErrDuplicate.
func CreateDomain(ctx context.Context, db *gorm.DB, d *domain.Domain) error {
	d.CreatedOn = time.Now().UTC()
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DomainExists reports whether the hostname is already bound to any tenant.
func DomainExists(ctx context.Context, db *gorm.DB, hostname string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Domain{}).
		Where("domain = ?", hostname).
		Count(&n).Error
	return n > 0, err
}

// ListDomains returns all hostname bindings of a tenant, primary first.
func ListDomains(ctx context.Context, db *gorm.DB, tenantID uint) ([]domain.Domain, error) {
	var out []domain.Domain
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("is_primary desc, domain asc").
		Find(&out).Error
	return out, err
}

// SetDomainsActive flips is_active on every domain of the tenant. Used when
// the tenant is soft-deleted (deactivate all) — the rows are kept so a later
// restore can find them.
func SetDomainsActive(ctx context.Context, db *gorm.DB, tenantID uint, active bool) error {
	return db.WithContext(ctx).
		Model(&domain.Domain{}).
		Where("tenant_id = ?", tenantID).
		Update("is_active", active).Error
}

// ActivatePrimaryDomain reactivates only the tenant's primary domain.
// Non-primary domains stay inactive until explicitly reactivated.
func ActivatePrimaryDomain(ctx context.Context, db *gorm.DB, tenantID uint) error {
	return db.WithContext(ctx).
		Model(&domain.Domain{}).
		Where("tenant_id = ? AND is_primary = ?", tenantID, true).
		Update("is_active", true).Error
}

// ClearPrimaryDomains removes the primary flag from every domain of the
// tenant. The binding operation runs this and the insert of the new primary
// inside one transaction so no observer sees zero or two primaries.
func ClearPrimaryDomains(ctx context.Context, db *gorm.DB, tenantID uint) error {
	return db.WithContext(ctx).
		Model(&domain.Domain{}).
		Where("tenant_id = ? AND is_primary = ?", tenantID, true).
		Update("is_primary", false).Error
}

// DeleteDomains removes all hostname bindings of a tenant. Postgres cascades
// this via the FK on tenant deletion; SQLite test setups call it explicitly.
func DeleteDomains(ctx context.Context, db *gorm.DB, tenantID uint) error {
	return db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&domain.Domain{}).Error
}

// isUniqueViolation recognizes unique-constraint failures across the two
// supported drivers. glebarez/sqlite often returns plain-text errors for
// UNIQUE violations; Postgres surfaces SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "sqlstate 23505") ||
		strings.Contains(low, "duplicate key value")
}
