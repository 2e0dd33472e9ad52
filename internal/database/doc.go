// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── uri.go           # SQLALCHEMY_DATABASE_URI parsing
//	├── records/         # Record metadata storage
//	├── pidstore/        # Persistent identifiers and the recid sequence
//	└── searchindex/     # Flattened records for search
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("sqlite:///app.db")
//	if err := db.Migrate(); err != nil { ... }
//
//	recordsRepo := records.NewRepository(db.DB)
//	pidsRepo := pidstore.NewRepository(db.DB)
//
//	pid, err := pidsRepo.ResolveOne("1")
//	record, err := recordsRepo.GetByID(pid.ObjectUUID)
//
// Repositories accept a *gorm.DB, so passing a transaction handle scopes
// their writes to that transaction:
//
//	db.DB.Transaction(func(tx *gorm.DB) error {
//		return pidstore.NewRepository(tx).Create(pid)
//	})
package database
