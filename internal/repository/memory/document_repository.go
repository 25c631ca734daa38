package memory

import (
	"sync"

	"ai-concierge-be/pkg/store"
)

// DocumentRepository holds each session's document set. Ingestion can run
// concurrently with an in-flight chat turn, so reads return a copied
// snapshot: the context assembler never observes a partially updated set.
type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[string][]store.Document // sessionID -> ordered documents
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		docs: make(map[string][]store.Document),
	}
}

// Upsert adds a document, replacing any existing one with the same name.
// Documents are immutable once stored; replacement swaps the whole value.
func (r *DocumentRepository) Upsert(sessionID string, doc store.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.docs[sessionID]
	for i := range existing {
		if existing[i].Name == doc.Name {
			existing[i] = doc
			return
		}
	}
	r.docs[sessionID] = append(existing, doc)
}

// Remove deletes a document by name. Returns false when no such document.
func (r *DocumentRepository) Remove(sessionID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.docs[sessionID]
	for i := range existing {
		if existing[i].Name == name {
			r.docs[sessionID] = append(existing[:i], existing[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the session's documents in insertion order.
func (r *DocumentRepository) Snapshot(sessionID string) []store.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := r.docs[sessionID]
	snapshot := make([]store.Document, len(existing))
	copy(snapshot, existing)
	return snapshot
}

// Clear drops all documents owned by a session.
func (r *DocumentRepository) Clear(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, sessionID)
}
