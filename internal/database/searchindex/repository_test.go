package searchindex

import (
	"strings"
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(&entities.RecordIndexEntry{}))
	return db
}

func TestRepository_UpsertAndSearch(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Upsert(&entities.RecordIndexEntry{
		RecordID: "a", Title: "Dune", Authors: "Herbert, Frank", Content: "desert planet spice", IndexedAt: time.Now(),
	}))
	require.NoError(t, repo.Upsert(&entities.RecordIndexEntry{
		RecordID: "b", Title: "Solaris", Authors: "Lem, Stanisław", Content: "ocean planet", IndexedAt: time.Now(),
	}))

	t.Run("matches content case-insensitively", func(t *testing.T) {
		found, err := repo.Search("PLANET", 0)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Dune", found[0].Title)
	})

	t.Run("matches authors", func(t *testing.T) {
		found, err := repo.Search("herbert", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "a", found[0].RecordID)
	})

	t.Run("empty query lists all", func(t *testing.T) {
		found, err := repo.Search("  ", 1)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("upsert replaces existing entry", func(t *testing.T) {
		require.NoError(t, repo.Upsert(&entities.RecordIndexEntry{RecordID: "a", Title: "Dune Messiah", IndexedAt: time.Now()}))

		found, err := repo.Search("messiah", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "a", found[0].RecordID)

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for id, title := range map[string]string{
		"a": "100% Cotton",
		"b": "1000 Cotton Shirts",
		"c": "snake_case names",
		"d": "snakes and cases",
		"e": "Wow! Really",
	} {
		require.NoError(t, repo.Upsert(&entities.RecordIndexEntry{RecordID: id, Title: title, IndexedAt: time.Now()}))
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"100%", []string{"a"}},
		{"%", []string{"a"}},
		{"e_c", []string{"c"}},
		{"_", []string{"c"}},
		{"wow!", []string{"e"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := repo.Search(tt.query, 10)
			require.NoError(t, err)

			ids := make([]string, 0, len(found))
			for _, entry := range found {
				ids = append(ids, entry.RecordID)
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

func TestRepository_DeleteAndClear(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Upsert(&entities.RecordIndexEntry{RecordID: id, Title: id}))
	}

	require.NoError(t, repo.Delete("a"))
	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Clear())
	count, err = repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
