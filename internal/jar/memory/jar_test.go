package memory_test

import (
	"testing"
	"time"

	"lazycookie/internal/jar"
	"lazycookie/internal/jar/memory"

	"github.com/stretchr/testify/require"
)

func TestJar(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	j := memory.New(jar.WithClock(func() time.Time { return now }))

	t.Run("Empty", func(t *testing.T) {
		require.Equal(t, "", j.Cookie())
	})

	t.Run("SetCookie", func(t *testing.T) {
		j.SetCookie("a=1; max-Age=undefined; expires=undefined")
		j.SetCookie("b=2")

		require.Equal(t, "a=1; b=2", j.Cookie())
	})

	t.Run("Overwrite keeps position", func(t *testing.T) {
		j.SetCookie("a=3")

		require.Equal(t, "a=3; b=2", j.Cookie())
	})

	t.Run("Delete", func(t *testing.T) {
		j.SetCookie("a=; max-Age=-1")

		require.Equal(t, "b=2", j.Cookie())
	})

	t.Run("Delete missing", func(t *testing.T) {
		j.SetCookie("missing=; max-Age=-1")

		require.Equal(t, "b=2", j.Cookie())
	})

	t.Run("Clear", func(t *testing.T) {
		j.Clear()

		require.Equal(t, "", j.Cookie())
	})
}

func TestJarExpiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	j := memory.New(jar.WithClock(func() time.Time { return now }))

	// Arrange
	j.SetCookie("short=1; max-Age=10")
	j.SetCookie("long=2; max-Age=3600")
	j.SetCookie("session=3")
	require.Equal(t, "short=1; long=2; session=3", j.Cookie())

	// Act
	now = now.Add(time.Minute)

	// Assert
	require.Equal(t, "long=2; session=3", j.Cookie())
}

func TestNewFromString(t *testing.T) {
	t.Parallel()

	j := memory.NewFromString("a=1; b=2; a=3")

	require.Equal(t, "a=3; b=2", j.Cookie())
}
