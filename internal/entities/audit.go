package entities

import "time"

type AuditEventType string

const (
	AuditEventFixtures AuditEventType = "fixtures"
	AuditEventImport   AuditEventType = "import"
	AuditEventIndex    AuditEventType = "index"
	AuditEventSchema   AuditEventType = "schema"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records one maintenance operation run against the database.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"`              // e.g., "fixtures_records", "records_create"
	Description string         `gorm:"size:500" json:"description"`         // Human-readable summary
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
