package domain

import (
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTenantDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(TenantModels()...); err != nil {
		t.Fatalf("migrate tenant models: %v", err)
	}
	return db
}

func TestTicket_BeforeCreate_NumberAndSLA(t *testing.T) {
	db := newTenantDB(t)

	cases := []struct {
		priority string
		want     time.Duration
	}{
		{PriorityCritical, 4 * time.Hour},
		{PriorityHigh, 8 * time.Hour},
		{PriorityMedium, 24 * time.Hour},
		{PriorityLow, 48 * time.Hour},
		{"bogus", 24 * time.Hour}, // unknown falls back to medium
	}

	for _, tc := range cases {
		before := time.Now().UTC()
		tk := Ticket{
			Title:         "No water",
			Description:   "Street dry since morning",
			Category:      "supply",
			Priority:      tc.priority,
			ReporterName:  "A. Resident",
			ReporterPhone: "0700000000",
			TicketNumber:  "TKT-" + tc.priority, // keep unique per case
		}
		if err := db.Create(&tk).Error; err != nil {
			t.Fatalf("create ticket (%s): %v", tc.priority, err)
		}
		if tk.SLADeadline == nil {
			t.Fatalf("expected SLA deadline for priority %s", tc.priority)
		}
		got := tk.SLADeadline.Sub(before)
		if got < tc.want-time.Minute || got > tc.want+time.Minute {
			t.Fatalf("priority %s: SLA window %v, want ~%v", tc.priority, got, tc.want)
		}
	}
}

func TestTicket_BeforeCreate_GeneratedNumber(t *testing.T) {
	db := newTenantDB(t)

	tk := Ticket{
		Title:         "Leak",
		Description:   "Leak at junction",
		Category:      "leak",
		Priority:      PriorityHigh,
		ReporterName:  "B. Resident",
		ReporterPhone: "0700000001",
	}
	if err := db.Create(&tk).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(tk.TicketNumber, "TKT-") {
		t.Fatalf("expected generated TKT- number, got %q", tk.TicketNumber)
	}

	// Explicit numbers are preserved.
	tk2 := Ticket{
		Title: "Burst", Description: "Burst main", Category: "burst",
		Priority: PriorityCritical, ReporterName: "C", ReporterPhone: "0700000002",
		TicketNumber: "TKT-CUSTOM-1",
	}
	if err := db.Create(&tk2).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk2.TicketNumber != "TKT-CUSTOM-1" {
		t.Fatalf("explicit number overwritten: %q", tk2.TicketNumber)
	}
}

func TestAssetAndIssue_GeneratedIdentifiers(t *testing.T) {
	db := newTenantDB(t)

	zone := Zone{Code: "Z1", Name: "North"}
	if err := db.Create(&zone).Error; err != nil {
		t.Fatalf("create zone: %v", err)
	}

	asset := Asset{Name: "Main valve", AssetType: "valve", ZoneID: &zone.ID}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if !strings.HasPrefix(asset.AssetID, "AST-") {
		t.Fatalf("expected generated AST- id, got %q", asset.AssetID)
	}
	var stored Asset
	if err := db.First(&stored, asset.ID).Error; err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	if stored.ConditionScore != 10 || stored.Status != "operational" {
		t.Fatalf("expected defaults applied, got %+v", stored)
	}

	issue := Issue{
		Title: "Leak near school", Description: "Visible pooling",
		IssueType: "leak", AffectedAssetID: &asset.ID,
	}
	if err := db.Create(&issue).Error; err != nil {
		t.Fatalf("create issue: %v", err)
	}
	if !strings.HasPrefix(issue.IssueNumber, "ISS-") {
		t.Fatalf("expected generated ISS- number, got %q", issue.IssueNumber)
	}
	if issue.ReportedAt.IsZero() {
		t.Fatalf("expected ReportedAt stamped")
	}
}

func TestCustomer_UniqueAccountNumber(t *testing.T) {
	db := newTenantDB(t)

	c := Customer{AccountNumber: "ACC-1", FirstName: "Jo", LastName: "W", Phone: "0700", IsActive: true}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}
	dup := Customer{AccountNumber: "ACC-1", FirstName: "Jane", LastName: "W", Phone: "0701", IsActive: true}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatalf("expected unique violation on account number")
	}
}
