package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/specialistvlad/flowpc/internal/fixture"
	"github.com/stretchr/testify/require"
)

// AssertRowCount reopens the database written by a harness run and checks
// the number of rows in table.
func AssertRowCount(t *testing.T, result *HarnessResult, table string, want int) {
	t.Helper()

	ctx := context.Background()
	db, err := fixture.Open(ctx, result.DSN)
	require.NoError(t, err)
	defer db.Close()

	got, err := fixture.CountRows(ctx, db, table)
	require.NoError(t, err)
	require.Equal(t, want, got, "unexpected row count in %s", table)
}

// AssertLogged checks the captured log output for a substring.
func AssertLogged(t *testing.T, result *HarnessResult, substr string) {
	t.Helper()
	require.True(t,
		strings.Contains(result.LogOutput, substr),
		"expected %q in log output", substr,
	)
}
