package domain

import "time"

// Idempotency records the outcome of a previously processed tenant-creation
// request, keyed by (actor, key). Provisioning a tenant is expensive and not
// transactional end to end, so client retries of POST /tenants replay the
// original result instead of creating a duplicate utility.
type Idempotency struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Actor     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_actor_key,priority:1"`
	Key       string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_actor_key,priority:2"`
	TenantID  uint      `gorm:"not null"`
	Status    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
