package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	rel, err := store.Save(ctx, []byte("%PDF-1.3"), "receipt.pdf", "receipts", "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "receipts/"))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))

	rc, err := store.Open(ctx, rel)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.3", string(data))

	require.NoError(t, store.Delete(ctx, rel))
	_, err = store.Open(ctx, rel)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
