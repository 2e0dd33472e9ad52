package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RecordJSON is the structured content of a record, stored as a JSON document.
type RecordJSON map[string]any

func (j RecordJSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *RecordJSON) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RecordJSON", value)
	}
	if len(raw) == 0 {
		*j = nil
		return nil
	}

	result := RecordJSON{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("failed to decode record json: %w", err)
	}
	*j = result
	return nil
}

// GormDataType keeps the column portable across sqlite, postgres and mysql.
func (RecordJSON) GormDataType() string {
	return "text"
}

// Bytes returns the encoded document, "{}" for an empty record.
func (j RecordJSON) Bytes() []byte {
	if j == nil {
		return []byte("{}")
	}
	b, err := json.Marshal(j)
	if err != nil {
		return []byte("{}")
	}
	return b
}

type RecordMetadata struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	JSON      RecordJSON `gorm:"column:json" json:"metadata"`
	VersionID int        `gorm:"not null;default:1" json:"version_id"`
	CreatedAt time.Time  `json:"created"`
	UpdatedAt time.Time  `json:"updated"`
}

func (RecordMetadata) TableName() string {
	return "records_metadata"
}

// RecordIndexEntry is the flattened, searchable form of a record.
type RecordIndexEntry struct {
	RecordID  string    `gorm:"primaryKey;size:36" json:"record_id"`
	PIDValue  string    `gorm:"column:pid_value;size:255;index" json:"pid_value,omitempty"`
	Title     string    `gorm:"size:1024" json:"title"`
	Authors   string    `gorm:"size:1024" json:"authors,omitempty"`
	Content   string    `gorm:"type:text" json:"-"`
	IndexedAt time.Time `json:"indexed_at"`
}

func (RecordIndexEntry) TableName() string {
	return "records_index"
}
