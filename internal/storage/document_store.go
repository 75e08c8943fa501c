package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// DocumentStore is the content-addressed store for source documents.
// The workflow engine records the returned content identifier and never
// processes the bytes.
type DocumentStore interface {
	Put(data []byte, fileType string) (string, error)
	Get(cid string) ([]byte, error)
}

// LocalDocumentStore keeps documents on the local filesystem, addressed by
// content hash so re-uploading identical bytes yields the same identifier.
type LocalDocumentStore struct {
	basePath string
}

// NewLocalDocumentStore creates a document store rooted at basePath
func NewLocalDocumentStore(basePath string) (*LocalDocumentStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalDocumentStore{basePath: basePath}, nil
}

// Put stores the document and returns its content identifier
func (s *LocalDocumentStore) Put(data []byte, fileType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty document")
	}

	cid := ContentID(data)

	// Shard by the first two characters to keep directories small
	dir := filepath.Join(s.basePath, cid[:2])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, cid)
	if _, err := os.Stat(path); err == nil {
		// Already stored; content addressing makes this a no-op
		return cid, nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	return cid, nil
}

// Get retrieves a document by its content identifier
func (s *LocalDocumentStore) Get(cid string) ([]byte, error) {
	if len(cid) < 2 {
		return nil, fmt.Errorf("invalid content id")
	}
	data, err := os.ReadFile(filepath.Join(s.basePath, cid[:2], cid))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

// ContentID derives the identifier for a document's bytes
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return "Qm" + hex.EncodeToString(sum[:22])
}
