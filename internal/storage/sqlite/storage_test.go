package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dotriacontordle/internal/storage"
	"github.com/mcoot/dotriacontordle/internal/storage/storagetest"
	"github.com/mcoot/dotriacontordle/internal/testutil"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "dotri.db"), testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStorageContract(t *testing.T) {
	suite.Run(t, &storagetest.KVSuite{New: func() storage.KV { return openTemp(t) }})
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dotri.db")
	ctx := context.Background()

	st, err := Open(path, testutil.NopLogger())
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "k", "v"))
	require.NoError(t, st.Close())

	st, err = Open(path, testutil.NopLogger())
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMigrationsRecordedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dotri.db")

	for range 2 {
		st, err := Open(path, testutil.NopLogger())
		require.NoError(t, err)
		require.NoError(t, st.Close())
	}

	st, err := Open(path, testutil.NopLogger())
	require.NoError(t, err)
	defer st.Close()

	var n int
	require.NoError(t, st.db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}
