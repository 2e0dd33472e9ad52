package records

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/marcdemo/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.RecordMetadata{}))
	return db
}

func TestRepository_Create(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	record, err := repo.Create(entities.RecordJSON{"title_statement": map[string]any{"title": "Solaris"}})
	require.NoError(t, err)
	assert.Len(t, record.ID, 36)
	assert.Equal(t, 1, record.VersionID)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	t.Run("returns stored record", func(t *testing.T) {
		created, err := repo.Create(entities.RecordJSON{"summary": []any{map[string]any{"summary": "Ocean"}}})
		require.NoError(t, err)

		found, err := repo.GetByID(created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.Contains(t, found.JSON, "summary")
	})

	t.Run("returns nil without error for unknown id", func(t *testing.T) {
		found, err := repo.GetByID("00000000-0000-0000-0000-000000000000")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRepository_CreateManyAndAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	created, err := repo.CreateMany([]entities.RecordJSON{
		{"title_statement": map[string]any{"title": "One"}},
		{"title_statement": map[string]any{"title": "Two"}},
		nil,
	})
	require.NoError(t, err)
	assert.Len(t, created, 3)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.NotNil(t, all[2].JSON)
}

func TestRepository_Update(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	record, err := repo.Create(entities.RecordJSON{})
	require.NoError(t, err)

	record.JSON["control_number"] = "7"
	require.NoError(t, repo.Update(record.ID, record.JSON))

	found, err := repo.GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, "7", found.JSON["control_number"])
	assert.Equal(t, 2, found.VersionID)

	assert.ErrorIs(t, repo.Update("missing", entities.RecordJSON{}), ErrRecordNotFound)
}

func TestRepository_FindInBatches(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for i := 0; i < 5; i++ {
		_, err := repo.Create(entities.RecordJSON{"n": i})
		require.NoError(t, err)
	}

	var batches, seen int
	err := repo.FindInBatches(2, func(batch []entities.RecordMetadata) error {
		batches++
		seen += len(batch)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, batches)
	assert.Equal(t, 5, seen)
}
