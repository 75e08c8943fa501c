package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalDocumentStore_PutGet(t *testing.T) {
	store, err := NewLocalDocumentStore(t.TempDir())
	assert.NoError(t, err)

	data := []byte("%PDF-1.4 invoice body")
	cid, err := store.Put(data, "pdf")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(cid, "Qm"))

	got, err := store.Get(cid)
	assert.NoError(t, err)
	assert.Equal(t, data, got)
}

// Identical bytes always map to the same identifier, so re-uploads are no-ops
func TestLocalDocumentStore_ContentAddressed(t *testing.T) {
	store, err := NewLocalDocumentStore(t.TempDir())
	assert.NoError(t, err)

	data := []byte("same document")
	first, err := store.Put(data, "pdf")
	assert.NoError(t, err)
	second, err := store.Put(data, "pdf")
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := store.Put([]byte("different document"), "pdf")
	assert.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestLocalDocumentStore_EmptyDocumentRefused(t *testing.T) {
	store, err := NewLocalDocumentStore(t.TempDir())
	assert.NoError(t, err)

	_, err = store.Put(nil, "pdf")
	assert.Error(t, err)
}

func TestLocalDocumentStore_UnknownCid(t *testing.T) {
	store, err := NewLocalDocumentStore(t.TempDir())
	assert.NoError(t, err)

	_, err = store.Get("QmDoesNotExist")
	assert.Error(t, err)

	_, err = store.Get("x")
	assert.Error(t, err)
}
