package sqlpc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/specialistvlad/flowpc/internal/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := fixture.Open(ctx, fixture.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, fixture.Populate(ctx, db))
	return db
}

func countBeans(t *testing.T, db *sql.DB) int {
	t.Helper()
	n, err := fixture.CountRows(context.Background(), db, "T_BEAN")
	require.NoError(t, err)
	return n
}

func TestUnitOfWork_CommitAppliesQueuedWrites(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	pc, err := NewFactory(db).Create(ctx)
	require.NoError(t, err)
	uow := pc.(*UnitOfWork)

	require.NoError(t, uow.Exec("insert into T_BEAN (ID, NAME) values (?, ?)", 1, "Keith Donald"))
	assert.Equal(t, 1, uow.Pending())
	assert.Equal(t, 1, countBeans(t, db), "queued writes must not reach the database")

	require.NoError(t, uow.Commit(ctx))
	assert.Equal(t, 0, uow.Pending())
	assert.Equal(t, 1, uow.Commits())
	assert.Equal(t, 2, countBeans(t, db))

	row, err := uow.QueryRow(ctx, "select NAME from T_BEAN where ID = ?", 1)
	require.NoError(t, err)
	var name string
	require.NoError(t, row.Scan(&name))
	assert.Equal(t, "Keith Donald", name)
}

func TestUnitOfWork_CloseDiscards(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	pc, err := NewFactory(db).Create(ctx)
	require.NoError(t, err)
	uow := pc.(*UnitOfWork)

	require.NoError(t, uow.Exec("insert into T_BEAN (ID, NAME) values (1, 'x')"))
	require.NoError(t, uow.Close())
	assert.True(t, uow.Closed())
	assert.Equal(t, 1, countBeans(t, db))

	assert.ErrorIs(t, uow.Exec("select 1"), ErrClosed)
	assert.ErrorIs(t, uow.Commit(ctx), ErrClosed)
	assert.ErrorIs(t, uow.Close(), ErrClosed)
	_, err = uow.QueryRow(ctx, "select 1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUnitOfWork_CommitFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	pc, err := NewFactory(db).Create(ctx)
	require.NoError(t, err)
	uow := pc.(*UnitOfWork)

	require.NoError(t, uow.Exec("insert into T_BEAN (ID, NAME) values (1, 'ok')"))
	// NAME is not null.
	require.NoError(t, uow.Exec("insert into T_BEAN (ID, NAME) values (2, null)"))

	err = uow.Commit(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, countBeans(t, db), "first insert must be rolled back")
	assert.Equal(t, 2, uow.Pending())
	assert.Equal(t, 0, uow.Commits())
}

func TestFactory_Errors(t *testing.T) {
	_, err := (&Factory{}).Create(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFactory(openDB(t)).Create(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
