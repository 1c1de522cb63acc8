// Package schema owns everything related to per-tenant isolated database
// schemas: deriving a valid schema identifier from a utility's display name,
// physically provisioning and dropping schemas, and applying the per-tenant
// migration set.
package schema

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPrefix is the namespace token prepended to schema names that would
// otherwise not start with a letter (or normalize to nothing at all).
const DefaultPrefix = "utility"

// foldDiacritics decomposes characters and strips combining marks, so
// "São Paulo Água" folds to "Sao Paulo Agua" before lowercasing.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize derives a schema-identifier candidate from a display name:
// diacritics folded, lowercased, spaces and hyphens mapped to underscores,
// everything outside [a-z0-9_] dropped. The result always starts with a
// letter; names that normalize to something else (or to nothing) are
// prefixed with the namespace token. Prefix defaults to DefaultPrefix when
// empty.
//
// Normalize is pure and runs exactly once per tenant, at creation time.
// It must never be re-applied to an existing tenant's stored schema name.
func Normalize(name, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	s := b.String()

	switch {
	case s == "":
		return prefix
	case s[0] < 'a' || s[0] > 'z':
		return prefix + "_" + s
	default:
		return s
	}
}

// Unique returns base when no existing schema name equals it, otherwise
// "base_<n>" for the minimum unused positive suffix. The existing slice must
// come from a query covering all tenants, soft-deleted included, executed
// inside the same transaction as the tenant insert — otherwise two
// concurrent creations can pick the same name.
func Unique(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
