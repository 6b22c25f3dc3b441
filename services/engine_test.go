package services

import (
	"path/filepath"
	"testing"
	"time"
	"trio/database"
	"trio/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "trio.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewEngine(db, Config{
		FeePercent:     decimal.NewFromInt(5),
		StaleTimeout:   10 * time.Minute,
		TwoPlayerGrace: 2 * time.Minute,
	})
}

func seedUser(t *testing.T, e *Engine, code, balance string) *models.User {
	t.Helper()

	u := models.User{
		UserCode: code,
		Balance:  decimal.RequireFromString(balance),
		IsActive: true,
	}
	require.NoError(t, e.DB.Create(&u).Error)
	return &u
}

func balanceOf(t *testing.T, e *Engine, code string) decimal.Decimal {
	t.Helper()

	var u models.User
	require.NoError(t, e.DB.Where("user_code = ?", code).First(&u).Error)
	return u.Balance
}

func reloadUser(t *testing.T, e *Engine, code string) models.User {
	t.Helper()

	var u models.User
	require.NoError(t, e.DB.Where("user_code = ?", code).First(&u).Error)
	return u
}

func ledgerOf(t *testing.T, e *Engine, code string) []models.LedgerEntry {
	t.Helper()

	var entries []models.LedgerEntry
	require.NoError(t, e.DB.Where("user_code = ?", code).Order("id ASC").Find(&entries).Error)
	return entries
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got),
		"want %s, got %s", want, got.String())
}

// backdate shifts a match's creation time so the reaper sees it as aged.
func backdate(t *testing.T, e *Engine, matchID uint, age time.Duration) {
	t.Helper()
	require.NoError(t, e.DB.Model(&models.Match{}).Where("id = ?", matchID).
		UpdateColumn("created_at", time.Now().Add(-age)).Error)
}
