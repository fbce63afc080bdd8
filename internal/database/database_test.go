package database

import (
	"testing"

	"sharehub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Connect must yield a usable handle straight from the sqlite DSN default,
// with no driver registration done by the caller.
func TestConnectSQLiteAndMigrate(t *testing.T) {
	db, err := Connect("file::memory:?cache=shared")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))

	u := domain.User{Email: "first@test.local", Name: "First User", Role: domain.RoleUser}
	require.NoError(t, db.Create(&u).Error)
	assert.NotZero(t, u.ID)

	var got domain.User
	require.NoError(t, db.First(&got, u.ID).Error)
	assert.Equal(t, u.Email, got.Email)
}
