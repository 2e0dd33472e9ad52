package config

const (
	// DefaultDatabaseURI is a local file-based store next to the binary.
	DefaultDatabaseURI = "sqlite:///app.db"

	// DefaultTasksDatabasePath is the SQLite file used by the task queue.
	DefaultTasksDatabasePath = "./app-tasks.db"

	DefaultBaseTemplate = "app/base.html"
	DefaultSiteTitle    = "Demosite Invenio Org"
)
