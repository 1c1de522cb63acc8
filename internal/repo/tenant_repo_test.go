package repo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/distroapp/go-tenant-backend/internal/domain"
)

var testDBSeq atomic.Int64

// newTestDB opens a uniquely named in-memory SQLite database (shared cache,
// so the pooled connections see the same data) and applies the control-plane
// migrations.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedTenant inserts a tenant with the given name/schema and returns it.
func seedTenant(t *testing.T, db *gorm.DB, name, schemaName string) *domain.Tenant {
	t.Helper()
	tn := &domain.Tenant{
		Name:       name,
		SchemaName: schemaName,
		Status:     domain.TenantReady,
		IsActive:   true,
	}
	if err := CreateTenant(context.Background(), db, tn); err != nil {
		t.Fatalf("seed tenant %q: %v", name, err)
	}
	return tn
}

func TestCreateAndGetTenant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tn := seedTenant(t, db, "Nairobi Water", "nairobi_water")
	if tn.ID == 0 {
		t.Fatalf("expected assigned ID")
	}
	if tn.CreatedOn.IsZero() {
		t.Fatalf("expected CreatedOn stamped")
	}

	if err := CreateDomain(ctx, db, &domain.Domain{
		Domain: "nairobi.distro.app", TenantID: tn.ID, IsPrimary: true, IsActive: true,
	}); err != nil {
		t.Fatalf("create domain: %v", err)
	}

	got, err := GetTenant(ctx, db, tn.ID)
	if err != nil {
		t.Fatalf("get tenant: %v", err)
	}
	if got.Name != "Nairobi Water" || got.SchemaName != "nairobi_water" {
		t.Fatalf("unexpected tenant: %+v", got)
	}
	if len(got.Domains) != 1 || got.Domains[0].Domain != "nairobi.distro.app" {
		t.Fatalf("expected domains preloaded, got %+v", got.Domains)
	}

	if _, err := GetTenant(ctx, db, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTenantForUpdate_SQLiteSkipsLockClause(t *testing.T) {
	db := newTestDB(t)
	tn := seedTenant(t, db, "Metro", "metro")

	got, err := GetTenantForUpdate(context.Background(), db, tn.ID)
	if err != nil {
		t.Fatalf("get for update: %v", err)
	}
	if got.ID != tn.ID {
		t.Fatalf("wrong row: %+v", got)
	}
	if _, err := GetTenantForUpdate(context.Background(), db, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTenantFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tn := seedTenant(t, db, "Metro", "metro")

	err := UpdateTenantFields(ctx, db, tn.ID, map[string]any{
		"is_active": false,
		"status":    domain.TenantFailed,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := GetTenant(ctx, db, tn.ID)
	if got.IsActive || got.Status != domain.TenantFailed {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := UpdateTenantFields(ctx, db, 9999, map[string]any{"is_active": true}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing row, got %v", err)
	}
}

func TestDeleteTenant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tn := seedTenant(t, db, "Metro", "metro")

	if err := DeleteTenant(ctx, db, tn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := GetTenant(ctx, db, tn.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected row gone, got %v", err)
	}
	if err := DeleteTenant(ctx, db, tn.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListAndCountTenants_Filters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	active := seedTenant(t, db, "Alpha", "alpha")
	inactive := seedTenant(t, db, "Bravo", "bravo")
	deleted := seedTenant(t, db, "Charlie", "charlie")

	if err := UpdateTenantFields(ctx, db, inactive.ID, map[string]any{"is_active": false}); err != nil {
		t.Fatal(err)
	}
	if err := UpdateTenantFields(ctx, db, deleted.ID, map[string]any{"is_deleted": true, "is_active": false}); err != nil {
		t.Fatal(err)
	}

	// Default view: deleted hidden.
	got, err := ListTenants(ctx, db, false, false, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Alpha" || got[1].Name != "Bravo" {
		t.Fatalf("unexpected default list: %+v", got)
	}

	// activeOnly excludes the deactivated tenant too.
	got, _ = ListTenants(ctx, db, true, false, 0, 0)
	if len(got) != 1 || got[0].ID != active.ID {
		t.Fatalf("unexpected active-only list: %+v", got)
	}

	// includeDeleted shows everything.
	if n, _ := CountTenants(ctx, db, false, true); n != 3 {
		t.Fatalf("expected 3 with includeDeleted, got %d", n)
	}
	if n, _ := CountTenants(ctx, db, false, false); n != 2 {
		t.Fatalf("expected 2 by default, got %d", n)
	}

	// Pagination: page 2 of size 1 over the default view.
	got, _ = ListTenants(ctx, db, false, false, 1, 1)
	if len(got) != 1 || got[0].Name != "Bravo" {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestSchemaNames_MatchesBaseAndSuffixesOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedTenant(t, db, "Metro", "metro")
	seedTenant(t, db, "Metro 2", "metro_1")
	seedTenant(t, db, "Metropolis", "metropolis") // must NOT match
	seedTenant(t, db, "Metro East", "metro_east") // suffix form, matches

	names, err := SchemaNames(ctx, db, "metro")
	if err != nil {
		t.Fatalf("schema names: %v", err)
	}
	want := map[string]bool{"metro": true, "metro_1": true, "metro_east": true}
	if len(names) != len(want) {
		t.Fatalf("unexpected names: %v", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected name %q in %v", n, names)
		}
	}
}

func TestTenantsStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	count, maxTS, err := TenantsStats(ctx, db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty stats: count=%d max=%v err=%v", count, maxTS, err)
	}

	seedTenant(t, db, "Alpha", "alpha")
	seedTenant(t, db, "Bravo", "bravo")

	count, maxTS, err = TenantsStats(ctx, db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxTS == nil || maxTS.IsZero() {
		t.Fatalf("expected max updated_on, got %v", maxTS)
	}
}
