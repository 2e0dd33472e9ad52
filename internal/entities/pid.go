package entities

import (
	"time"
)

type PIDStatus string

const (
	PIDStatusNew        PIDStatus = "N"
	PIDStatusReserved   PIDStatus = "K"
	PIDStatusRegistered PIDStatus = "R"
	PIDStatusRedirected PIDStatus = "M"
	PIDStatusDeleted    PIDStatus = "D"
)

// Known PID types and object types.
const (
	PIDTypeRecid     = "recid"
	ObjectTypeRecord = "rec"
)

// PersistentIdentifier maps an external-facing value to an internal object.
type PersistentIdentifier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PIDType     string    `gorm:"column:pid_type;size:6;not null;uniqueIndex:idx_pid_type_value" json:"pid_type"`
	PIDValue    string    `gorm:"column:pid_value;size:255;not null;uniqueIndex:idx_pid_type_value;index" json:"pid_value"`
	PIDProvider string    `gorm:"column:pid_provider;size:8" json:"pid_provider,omitempty"`
	Status      PIDStatus `gorm:"size:1;not null;default:'N'" json:"status"`
	ObjectType  string    `gorm:"size:3" json:"object_type,omitempty"`
	ObjectUUID  string    `gorm:"column:object_uuid;size:36;index" json:"object_uuid,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PersistentIdentifier) TableName() string {
	return "pidstore_pid"
}

// RecordIdentifier is the sequence backing recid allocation.
type RecordIdentifier struct {
	Recid uint `gorm:"primaryKey;autoIncrement"`
}

func (RecordIdentifier) TableName() string {
	return "pidstore_recid"
}
