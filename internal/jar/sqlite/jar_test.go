package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"lazycookie/internal/jar"
	"lazycookie/internal/jar/sqlite"

	"github.com/stretchr/testify/require"
)

func TestJar(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.sqlite")
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	clock := jar.WithClock(func() time.Time { return now })

	j, err := sqlite.Open(path, clock)
	require.NoError(t, err)

	t.Run("Empty", func(t *testing.T) {
		require.Equal(t, "", j.Cookie())
	})

	t.Run("SetCookie", func(t *testing.T) {
		j.SetCookie("b=2; max-Age=undefined; expires=undefined")
		j.SetCookie("a=1; max-Age=3600")

		require.Equal(t, "b=2; a=1", j.Cookie())
	})

	t.Run("Overwrite keeps position", func(t *testing.T) {
		j.SetCookie("b=3")

		require.Equal(t, "b=3; a=1", j.Cookie())
	})

	t.Run("Delete", func(t *testing.T) {
		j.SetCookie("b=; max-Age=-1")

		require.Equal(t, "a=1", j.Cookie())
	})

	t.Run("Expiry", func(t *testing.T) {
		j.SetCookie("short=1; max-Age=1")
		require.Equal(t, "a=1; short=1", j.Cookie())

		now = now.Add(time.Minute)

		require.Equal(t, "a=1", j.Cookie())
	})

	t.Run("Reopen", func(t *testing.T) {
		// Arrange
		j.SetCookie("session=1")
		require.NoError(t, j.Close())

		// Act
		j, err = sqlite.Open(path, clock)
		require.NoError(t, err)
		j.SetCookie("c=3")

		// Assert
		require.Equal(t, "a=1; c=3", j.Cookie())
		require.NoError(t, j.Close())
	})
}

func TestJarSubSecondExpiry(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.sqlite")
	now := time.Date(2026, time.October, 16, 12, 0, 0, 500*int(time.Millisecond), time.UTC)
	j, err := sqlite.Open(path, jar.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = j.Close()
	})

	// Arrange
	j.SetCookie("short=1; max-Age=1")

	// Act
	now = now.Add(700 * time.Millisecond)

	// Assert
	require.Equal(t, "short=1", j.Cookie())
	now = now.Add(time.Second)
	require.Equal(t, "", j.Cookie())
}

func TestJarSchema(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookies.sqlite")

	j, err := sqlite.Open(path, jar.WithKeepSession())
	require.NoError(t, err)
	j.SetCookie("a=1")
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var (
		value  string
		expiry int64
	)
	err = db.QueryRow(`SELECT value, expiry FROM cookies WHERE name = ?`, "a").Scan(&value, &expiry)
	require.NoError(t, err)
	require.Equal(t, "1", value)
	require.Zero(t, expiry)
}
