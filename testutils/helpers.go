package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/persistauth/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	if len(models) > 0 {
		err = db.AutoMigrate(models...)
		require.NoError(t, err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *gorm.DB, tables ...string) {
	for _, table := range tables {
		err := db.Exec("DELETE FROM " + table).Error
		require.NoError(t, err)
	}
}

func GetTestConfig() *config.Config {
	return &config.Config{
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		Session: config.SessionConfig{
			Enabled:  true,
			Store:    "memory",
			Name:     "session",
			Path:     "/",
			HttpOnly: true,
			SameSite: "lax",
			MaxAge:   time.Hour,
		},
		RememberMe: config.RememberMeConfig{
			Enabled:        true,
			CookieName:     "remember_me_token",
			CookiePath:     "/",
			CookieSecure:   false,
			CookieSameSite: "strict",
			Expiry:         720 * time.Hour,
			TokenLength:    32,
		},
		CSRF: config.CSRFConfig{
			Enabled:     true,
			TokenLength: 32,
			TokenLookup: "header:X-CSRF-Token",
			ContextKey:  "csrf",
		},
	}
}
