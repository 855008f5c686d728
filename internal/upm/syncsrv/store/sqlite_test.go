package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSqlite(t *testing.T) *Sqlite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syncsrv.db")
	s, err := OpenSqlite(path, "migrations")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSqlite_PutGetRoundTrip(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	revision, err := s.Put(ctx, "mydb", []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), revision)

	blob, rev, err := s.Get(ctx, "mydb")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), blob)
	assert.Equal(t, uint32(1), rev)
}

func TestSqlite_PutIncrementsRevision(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "mydb", []byte("v1"))
	require.NoError(t, err)
	revision, err := s.Put(ctx, "mydb", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), revision)

	blob, _, err := s.Get(ctx, "mydb")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), blob)
}

func TestSqlite_RevisionOfUnknownDatabaseIsZero(t *testing.T) {
	s := newTestSqlite(t)

	revision, err := s.Revision(context.Background(), "neverseen")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), revision)
}

func TestSqlite_GetNotFound(t *testing.T) {
	s := newTestSqlite(t)
	_, _, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSqlite_Delete(t *testing.T) {
	s := newTestSqlite(t)
	ctx := context.Background()

	_, err := s.Put(ctx, "mydb", []byte("v1"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "mydb"))

	_, _, err = s.Get(ctx, "mydb")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "mydb"), ErrNotFound)
}
