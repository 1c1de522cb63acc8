// Package domain defines the persistence models for the tenant control
// plane. These types are mapped with GORM and live in the shared (public)
// schema that every request can reach; per-tenant operational models are
// defined in tenant_schema.go and are migrated into each utility's own
// isolated schema.
package domain

import (
	"time"
)

// TenantStatus tracks how far tenant provisioning has progressed. The status
// is persisted on the row so that a create that fails between the row commit
// and the schema migration leaves an inspectable record instead of a
// half-usable tenant.
type TenantStatus string

const (
	// TenantProvisioning marks a tenant whose rows exist but whose schema
	// has not finished provisioning/migration yet.
	TenantProvisioning TenantStatus = "provisioning"
	// TenantReady marks a fully provisioned, usable tenant.
	TenantReady TenantStatus = "ready"
	// TenantFailed marks a tenant whose provisioning failed and whose
	// partial state is pending (or underwent) compensating cleanup.
	TenantFailed TenantStatus = "failed"
)

// Tenant represents one water utility account. Each tenant owns an isolated
// database schema whose name is generated once at creation time and never
// changes afterwards.
//
// Lifecycle invariants (enforced by the service layer):
//   - IsDeleted implies !IsActive and DeletedOn != nil.
//   - !IsDeleted implies DeletedOn == nil.
//   - SchemaName is unique across all tenants, soft-deleted ones included.
type Tenant struct {
	ID         uint         `json:"id"          gorm:"primaryKey"`
	Name       string       `json:"name"        gorm:"type:varchar(100);not null;index"`
	SchemaName string       `json:"schema_name" gorm:"type:varchar(63);not null;uniqueIndex"`
	Status     TenantStatus `json:"status"      gorm:"type:varchar(16);not null;default:'provisioning'"`

	// Contact and subscription details carried over from the utility
	// profile. Plain data, no behavior attached.
	Description      string `json:"description,omitempty"       gorm:"type:text"`
	ContactEmail     string `json:"contact_email,omitempty"     gorm:"type:varchar(254)"`
	ContactPhone     string `json:"contact_phone,omitempty"     gorm:"type:varchar(20)"`
	Address          string `json:"address,omitempty"           gorm:"type:text"`
	SubscriptionTier string `json:"subscription_tier,omitempty" gorm:"type:varchar(20);default:'basic'"`

	IsActive  bool       `json:"is_active"  gorm:"not null;default:true"`
	IsDeleted bool       `json:"is_deleted" gorm:"not null;default:false;index"`
	DeletedOn *time.Time `json:"deleted_on,omitempty" gorm:"column:deleted_on"`

	CreatedOn time.Time `json:"created_on" gorm:"column:created_on;autoCreateTime"`
	UpdatedOn time.Time `json:"updated_on" gorm:"column:updated_on;autoUpdateTime"`

	// Domains holds all hostnames bound to this tenant. They cascade-delete
	// with the tenant row on permanent deletion.
	Domains []Domain `json:"domains,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the database table name for Tenant.
func (Tenant) TableName() string { return "tenants" }

// Domain binds a routable hostname to a tenant. Hostnames are globally
// unique: a domain belongs to exactly one tenant. At most one domain per
// tenant is primary at any time; the binding operation, not a storage
// constraint, enforces that.
type Domain struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	Domain    string    `json:"domain"     gorm:"type:varchar(253);not null;uniqueIndex"`
	TenantID  uint      `json:"tenant_id"  gorm:"not null;index"`
	IsPrimary bool      `json:"is_primary" gorm:"not null;default:false"`
	IsActive  bool      `json:"is_active"  gorm:"not null;default:true"`
	CreatedOn time.Time `json:"created_on" gorm:"column:created_on;autoCreateTime"`

	// Tenant is the owning utility. Domain rows are removed when the
	// tenant row is deleted.
	Tenant Tenant `json:"-" gorm:"foreignKey:TenantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Domain.
func (Domain) TableName() string { return "domains" }
