// Per-tenant operational models. These types are never migrated into the
// shared control-plane schema; the schema provisioner applies them to each
// utility's isolated schema when the tenant is created (see
// internal/schema.Migrator).
//
// Geometry is stored as plain lat/lng columns; spatial indexing and geometry
// operations are the concern of the underlying spatial database, not of this
// service.
package domain

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Priority levels shared by tickets and field issues.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// slaHours maps a ticket priority to its resolution window.
var slaHours = map[string]int{
	PriorityCritical: 4,
	PriorityHigh:     8,
	PriorityMedium:   24,
	PriorityLow:      48,
}

// Customer is a utility customer account within a tenant schema.
type Customer struct {
	ID            uint      `json:"id"             gorm:"primaryKey"`
	AccountNumber string    `json:"account_number" gorm:"type:varchar(50);not null;uniqueIndex"`
	FirstName     string    `json:"first_name"     gorm:"type:varchar(100);not null"`
	LastName      string    `json:"last_name"      gorm:"type:varchar(100);not null"`
	Phone         string    `json:"phone"          gorm:"type:varchar(15);not null;index"`
	Email         string    `json:"email,omitempty" gorm:"type:varchar(254)"`
	Address       string    `json:"address,omitempty" gorm:"type:text"`
	IsActive      bool      `json:"is_active"      gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Customer.
func (Customer) TableName() string { return "customers" }

// Ticket is a customer support ticket. Ticket numbers and SLA deadlines are
// derived on first insert: the number from a creation timestamp, the deadline
// from the priority's resolution window.
type Ticket struct {
	ID           uint   `json:"id"            gorm:"primaryKey"`
	TicketNumber string `json:"ticket_number" gorm:"type:varchar(50);uniqueIndex"`
	Title        string `json:"title"         gorm:"type:varchar(200);not null"`
	Description  string `json:"description"   gorm:"type:text;not null"`

	Category string `json:"category" gorm:"type:varchar(20);not null"`
	Priority string `json:"priority" gorm:"type:varchar(20);not null;default:'medium';index"`
	Status   string `json:"status"   gorm:"type:varchar(20);not null;default:'open';index"`

	CustomerID    *uint  `json:"customer_id,omitempty" gorm:"index"`
	ReporterName  string `json:"reporter_name"  gorm:"type:varchar(200);not null"`
	ReporterPhone string `json:"reporter_phone" gorm:"type:varchar(15);not null"`

	// Issue location, when the ticket reports a field problem.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty" gorm:"type:text"`

	SLADeadline  *time.Time `json:"sla_deadline,omitempty" gorm:"column:sla_deadline"`
	SLABreached  bool       `json:"sla_breached" gorm:"column:sla_breached;not null;default:false"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes string  `json:"resolution_notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// BeforeCreate assigns the ticket number and SLA deadline when absent.
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().UTC()
	if t.TicketNumber == "" {
		t.TicketNumber = fmt.Sprintf("TKT-%s", now.Format("20060102150405"))
	}
	if t.SLADeadline == nil {
		hours, ok := slaHours[t.Priority]
		if !ok {
			hours = slaHours[PriorityMedium]
		}
		deadline := now.Add(time.Duration(hours) * time.Hour)
		t.SLADeadline = &deadline
	}
	return nil
}

// Zone is a pressure/distribution zone grouping assets within a tenant.
type Zone struct {
	ID          uint      `json:"id"          gorm:"primaryKey"`
	Code        string    `json:"code"        gorm:"type:varchar(20);not null;uniqueIndex"`
	Name        string    `json:"name"        gorm:"type:varchar(200);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for Zone.
func (Zone) TableName() string { return "zones" }

// Asset is a piece of physical infrastructure (pipe, valve, meter, pump).
type Asset struct {
	ID        uint   `json:"id"         gorm:"primaryKey"`
	AssetID   string `json:"asset_id"   gorm:"type:varchar(50);uniqueIndex"`
	Name      string `json:"name"       gorm:"type:varchar(200);not null"`
	AssetType string `json:"asset_type" gorm:"type:varchar(50);not null;index"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty" gorm:"type:text"`
	ZoneID    *uint   `json:"zone_id,omitempty" gorm:"index"`

	// Condition score ranges 1 (poor) to 10 (excellent).
	Status         string `json:"status"          gorm:"type:varchar(20);not null;default:'operational';index"`
	ConditionScore int    `json:"condition_score" gorm:"not null;default:10"`

	InstallationDate *time.Time `json:"installation_date,omitempty"`
	Manufacturer     string     `json:"manufacturer,omitempty" gorm:"type:varchar(100)"`
	SerialNumber     string     `json:"serial_number,omitempty" gorm:"type:varchar(100)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Zone *Zone `json:"-" gorm:"foreignKey:ZoneID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Asset.
func (Asset) TableName() string { return "assets" }

// BeforeCreate assigns an asset identifier when absent.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == "" {
		a.AssetID = fmt.Sprintf("AST-%s", time.Now().UTC().Format("20060102150405.000"))
	}
	return nil
}

// Issue is a field-reported maintenance problem (leak, burst, blockage…)
// optionally linked to the affected asset.
type Issue struct {
	ID          uint   `json:"id"          gorm:"primaryKey"`
	IssueNumber string `json:"issue_number" gorm:"type:varchar(50);uniqueIndex"`
	Title       string `json:"title"       gorm:"type:varchar(200);not null"`
	Description string `json:"description" gorm:"type:text;not null"`

	IssueType string `json:"issue_type" gorm:"type:varchar(20);not null;index"`
	Priority  string `json:"priority"   gorm:"type:varchar(20);not null;default:'medium'"`
	Status    string `json:"status"     gorm:"type:varchar(20);not null;default:'reported';index"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Landmark  string  `json:"landmark,omitempty" gorm:"type:varchar(200)"`

	AffectedAssetID *uint `json:"affected_asset_id,omitempty" gorm:"index"`

	ReportedAt time.Time  `json:"reported_at" gorm:"autoCreateTime"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`

	AffectedAsset *Asset `json:"-" gorm:"foreignKey:AffectedAssetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Issue.
func (Issue) TableName() string { return "issues" }

// BeforeCreate assigns the issue number when absent.
func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.IssueNumber == "" {
		i.IssueNumber = fmt.Sprintf("ISS-%s", time.Now().UTC().Format("20060102150405.000"))
	}
	return nil
}

// TenantModels lists every model migrated into a tenant's isolated schema.
// The order respects foreign-key dependencies.
func TenantModels() []any {
	return []any{
		&Customer{},
		&Ticket{},
		&Zone{},
		&Asset{},
		&Issue{},
	}
}
