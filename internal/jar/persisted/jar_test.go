package persisted_test

import (
	"testing"
	"time"

	"lazycookie/internal/jar"
	"lazycookie/internal/jar/persisted"

	"github.com/stretchr/testify/require"
)

func TestJar(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	clock := jar.WithClock(func() time.Time { return now })

	j, err := persisted.Open(dir, clock)
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
		require.Equal(t, "a=1; session=1", j.Cookie())
		require.NoError(t, j.Close())

		// Act
		j, err = persisted.Open(dir, clock)
		require.NoError(t, err)
		j.SetCookie("c=3")

		// Assert
		require.Equal(t, "a=1; c=3", j.Cookie())
		require.NoError(t, j.Close())
	})
}

func TestJarKeepSession(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	j, err := persisted.Open(dir)
	require.NoError(t, err)
	j.SetCookie("session=1")
	require.NoError(t, j.Close())

	j, err = persisted.Open(dir, jar.WithKeepSession())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = j.Close()
	})

	require.Equal(t, "session=1", j.Cookie())
}
