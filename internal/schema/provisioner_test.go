package schema

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNoopProvisioner_ValidName(t *testing.T) {
	p := NoopProvisioner{}
	ctx := context.Background()

	if err := p.CreateSchema(ctx, "utility_nairobi"); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	if err := p.MigrateSchema(ctx, "utility_nairobi"); err != nil {
		t.Fatalf("MigrateSchema: %v", err)
	}
	if err := p.DropSchema(ctx, "utility_nairobi"); err != nil {
		t.Fatalf("DropSchema: %v", err)
	}
}

func TestProvisioner_RejectsInvalidIdentifiers(t *testing.T) {
	bad := []string{
		"",
		"1leading_digit",
		"_leading_underscore",
		"Upper",
		"has-hyphen",
		"has space",
		"drop;--",
		strings.Repeat("a", 64), // beyond the Postgres identifier limit
	}

	noop := NoopProvisioner{}
	pg := NewPostgresProvisioner(nil) // validation fires before any DB access

	for _, name := range bad {
		if err := noop.CreateSchema(context.Background(), name); !errors.Is(err, ErrInvalidSchemaName) {
			t.Fatalf("noop CreateSchema(%q): expected ErrInvalidSchemaName, got %v", name, err)
		}
		if err := pg.CreateSchema(context.Background(), name); !errors.Is(err, ErrInvalidSchemaName) {
			t.Fatalf("pg CreateSchema(%q): expected ErrInvalidSchemaName, got %v", name, err)
		}
		if err := pg.MigrateSchema(context.Background(), name); !errors.Is(err, ErrInvalidSchemaName) {
			t.Fatalf("pg MigrateSchema(%q): expected ErrInvalidSchemaName, got %v", name, err)
		}
		if err := pg.DropSchema(context.Background(), name); !errors.Is(err, ErrInvalidSchemaName) {
			t.Fatalf("pg DropSchema(%q): expected ErrInvalidSchemaName, got %v", name, err)
		}
	}
}

func TestProvisioner_AcceptsMaxLengthIdentifier(t *testing.T) {
	name := "a" + strings.Repeat("b", 62) // exactly 63 bytes
	if err := (NoopProvisioner{}).CreateSchema(context.Background(), name); err != nil {
		t.Fatalf("expected 63-byte identifier to pass, got %v", err)
	}
}
