package schema

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/distroapp/go-tenant-backend/internal/domain"
)

// ErrInvalidSchemaName is returned when a schema identifier reaches the
// provisioner without matching the generated form. Identifiers are
// interpolated into DDL, so anything outside [a-z][a-z0-9_]* is rejected
// outright rather than quoted around.
var ErrInvalidSchemaName = errors.New("invalid schema name")

// identRE matches the identifiers produced by Normalize/Unique. Postgres
// truncates identifiers beyond 63 bytes, so longer names are rejected too.
var identRE = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// Provisioner manages the physical lifecycle of a tenant's isolated schema.
// Each method is synchronous and independently fallible; the tenant service
// sequences them and compensates on failure.
type Provisioner interface {
	// CreateSchema provisions an empty schema with the given name.
	CreateSchema(ctx context.Context, name string) error
	// MigrateSchema applies the full per-tenant migration set to the schema.
	MigrateSchema(ctx context.Context, name string) error
	// DropSchema removes the schema and all data inside it. Dropping a
	// schema that does not exist is not an error, so the cleanup path of a
	// failed create can call it unconditionally.
	DropSchema(ctx context.Context, name string) error
}

// PostgresProvisioner implements Provisioner against a Postgres database
// using plain DDL and GORM automigration with a per-connection search_path.
type PostgresProvisioner struct {
	db *gorm.DB
}

// NewPostgresProvisioner returns a Provisioner bound to the given handle.
func NewPostgresProvisioner(db *gorm.DB) *PostgresProvisioner {
	return &PostgresProvisioner{db: db}
}

// CreateSchema issues CREATE SCHEMA IF NOT EXISTS for the validated name.
func (p *PostgresProvisioner) CreateSchema(ctx context.Context, name string) error {
	if !identRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaName, name)
	}
	return p.db.WithContext(ctx).Exec("CREATE SCHEMA IF NOT EXISTS " + name).Error
}

// MigrateSchema runs the per-tenant automigration inside a single pinned
// connection whose search_path points at the tenant schema. Pinning matters:
// SET search_path is a session property and must not leak to other pooled
// connections.
func (p *PostgresProvisioner) MigrateSchema(ctx context.Context, name string) error {
	if !identRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaName, name)
	}
	return p.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("SET search_path TO " + name).Error; err != nil {
			return err
		}
		defer tx.Exec("SET search_path TO public")
		return tx.AutoMigrate(domain.TenantModels()...)
	})
}

// DropSchema issues DROP SCHEMA IF EXISTS ... CASCADE for the validated name.
func (p *PostgresProvisioner) DropSchema(ctx context.Context, name string) error {
	if !identRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaName, name)
	}
	return p.db.WithContext(ctx).Exec("DROP SCHEMA IF EXISTS " + name + " CASCADE").Error
}

// NoopProvisioner satisfies Provisioner without touching the database.
// SQLite has no schema namespaces, so development and test deployments pair
// the SQLite control-plane store with this implementation.
type NoopProvisioner struct{}

// CreateSchema validates the name and does nothing else.
func (NoopProvisioner) CreateSchema(ctx context.Context, name string) error {
	if !identRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaName, name)
	}
	return nil
}

// MigrateSchema does nothing.
func (NoopProvisioner) MigrateSchema(ctx context.Context, name string) error { return nil }

// DropSchema does nothing.
func (NoopProvisioner) DropSchema(ctx context.Context, name string) error { return nil }
