package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestMaskEmail(t *testing.T) {
	require.Equal(t, "", maskEmail(""))
	require.Equal(t, "***", maskEmail("not-an-email"))
	require.Equal(t, "a***@example.com", maskEmail("ab@example.com"))
	require.Equal(t, "a***e@example.com", maskEmail("alice@example.com"))
}

func TestClampPageSize(t *testing.T) {
	require.Equal(t, 20, clampPageSize(0, 20, 50))
	require.Equal(t, 20, clampPageSize(-3, 20, 50))
	require.Equal(t, 50, clampPageSize(120, 20, 50))
	require.Equal(t, 30, clampPageSize(30, 20, 50))
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, totalPages(0, 20))
	require.Equal(t, 1, totalPages(20, 20))
	require.Equal(t, 2, totalPages(21, 20))
	require.Equal(t, 0, totalPages(10, 0))
}
