package lsp

import (
	"sync"

	"github.com/Sumatoshi-tech/tsmetrics/pkg/analyzers/maintainability"
	"github.com/Sumatoshi-tech/tsmetrics/pkg/syntax"
)

// Document is an open text document and its latest metrics.
type Document struct {
	URI      string
	Text     string
	Language syntax.Language
	Metrics  *maintainability.Combined
}

// DocumentStore is a thread-safe store of open documents keyed by URI.
type DocumentStore struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[string]*Document)}
}

// Set stores doc, replacing any previous version.
func (ds *DocumentStore) Set(doc *Document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[doc.URI] = doc
}

// Get returns the document stored for uri.
func (ds *DocumentStore) Get(uri string) (*Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Delete forgets uri.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}
