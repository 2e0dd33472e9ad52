// Package pids mints and resolves persistent identifiers for records.
package pids

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/mrlokans/marcdemo/internal/database/pidstore"
	"github.com/mrlokans/marcdemo/internal/database/records"
	"github.com/mrlokans/marcdemo/internal/entities"
)

// ControlNumberField is the record field holding the minted recid.
const ControlNumberField = "control_number"

var ErrControlNumberExists = errors.New("record already has a control number")

// Minter creates a persistent identifier for a record. Implementations must
// do all their writes through tx.
type Minter interface {
	Mint(tx *gorm.DB, recordID string, data entities.RecordJSON) (*entities.PersistentIdentifier, error)
}

// MinterFunc adapts a function to the Minter interface.
type MinterFunc func(tx *gorm.DB, recordID string, data entities.RecordJSON) (*entities.PersistentIdentifier, error)

func (f MinterFunc) Mint(tx *gorm.DB, recordID string, data entities.RecordJSON) (*entities.PersistentIdentifier, error) {
	return f(tx, recordID, data)
}

// RecidMinter assigns sequential integer identifiers of type "recid".
type RecidMinter struct {
	start uint
}

func NewRecidMinter(start uint) *RecidMinter {
	if start == 0 {
		start = 1
	}
	return &RecidMinter{start: start}
}

// Mint reserves the next recid, registers it for the record and stores it
// in the record content under control_number.
func (m *RecidMinter) Mint(tx *gorm.DB, recordID string, data entities.RecordJSON) (*entities.PersistentIdentifier, error) {
	if data == nil {
		data = entities.RecordJSON{}
	}
	if _, exists := data[ControlNumberField]; exists {
		return nil, fmt.Errorf("%w: %v", ErrControlNumberExists, data[ControlNumberField])
	}

	repo := pidstore.NewRepository(tx)
	recid, err := repo.NextRecid(m.start)
	if err != nil {
		return nil, err
	}

	pid := &entities.PersistentIdentifier{
		PIDType:    entities.PIDTypeRecid,
		PIDValue:   strconv.FormatUint(uint64(recid), 10),
		Status:     entities.PIDStatusRegistered,
		ObjectType: entities.ObjectTypeRecord,
		ObjectUUID: recordID,
	}
	if err := repo.Create(pid); err != nil {
		return nil, fmt.Errorf("failed to register recid %s: %w", pid.PIDValue, err)
	}

	data[ControlNumberField] = pid.PIDValue
	if err := records.NewRepository(tx).Update(recordID, data); err != nil {
		return nil, fmt.Errorf("failed to store control number: %w", err)
	}

	return pid, nil
}
