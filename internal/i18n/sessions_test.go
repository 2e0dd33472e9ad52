package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/marcdemo/internal/config"
)

func TestSQLiteBackedSessions(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewSessionManager(sqlDB, config.Session{Lifetime: time.Hour, SecureCookies: true})
	require.NoError(t, err)
	assert.True(t, sm.Cookie.Secure)
	assert.True(t, db.Migrator().HasTable("sessions"))

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.GET("/set", func(c *gin.Context) {
		sm.SetLocale(c.Request, "fr")
		c.Status(http.StatusNoContent)
	})
	router.GET("/get", func(c *gin.Context) {
		c.String(http.StatusOK, sm.GetLocale(c.Request))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/set", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	var count int64
	require.NoError(t, db.Table("sessions").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fr", w.Body.String())
}
