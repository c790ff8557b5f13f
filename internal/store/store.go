// Package store persists the restaurant's shared state (tables, menu, live
// orders, kitchen queue) as a single JSON document on disk.
//
// The document is deliberately small and is rewritten wholesale on every
// mutation. What makes this safe is the access discipline: every mutation
// goes through Update, which holds an exclusive lock across the whole
// read-modify-write-persist cycle, so two concurrent requests can never
// interleave and silently drop each other's changes. Read-only access goes
// through View under a shared lock and always observes a consistent
// snapshot.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorrupt marks a store file whose bytes are not a valid document.
// It is not recoverable by the service; an operator has to inspect or
// restore the file.
var ErrCorrupt = errors.New("store: corrupt document")

// Store is a file-backed document store. The zero value is not usable;
// construct with Open.
type Store struct {
	path string

	mu  sync.RWMutex
	doc *Document
}

// Open loads the document at path, creating it with the default seed
// document if it does not exist yet. Unparseable content fails with an
// error wrapping ErrCorrupt.
func Open(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s := &Store{path: path, doc: defaultDocument()}
		if err := s.persist(s.doc); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCorrupt, path, err)
	}
	if doc.Tables == nil || doc.Menu == nil {
		return nil, fmt.Errorf("%w: %q: missing tables or menu", ErrCorrupt, path)
	}
	return &Store{path: path, doc: &doc}, nil
}

// View calls fn with a read-only view of the document under a shared lock.
// fn must not retain or mutate the document or anything reachable from it.
func (s *Store) View(fn func(doc *Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// Update runs fn against a deep copy of the document and, if fn succeeds,
// persists the copy and installs it as the current document. The exclusive
// lock covers the entire cycle, which is the single-writer discipline that
// keeps concurrent mutators from losing updates. If fn or the disk write
// fails, the in-memory document is left untouched.
func (s *Store) Update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := clone(s.doc)
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// persist writes doc to a sibling temp file and renames it over the store
// path, so a crash mid-write never leaves a torn document behind.
func (s *Store) persist(doc *Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %q: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %q: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replace %q: %w", s.path, err)
	}
	return nil
}

// clone deep-copies a document through its JSON form. The documents are a
// few KB at most, so the round trip is cheaper than it looks.
func clone(doc *Document) (*Document, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("store: clone document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("store: clone document: %w", err)
	}
	return &out, nil
}
