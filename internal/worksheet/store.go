package worksheet

import (
	"errors"
	"fmt"
	"sync"
)

// ErrWorksheetNotFound is returned for unknown worksheet IDs.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// Store keeps worksheets in process memory. Nothing survives a restart.
type Store struct {
	mu         sync.Mutex
	worksheets map[string]*Worksheet
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{worksheets: make(map[string]*Worksheet)}
}

// Create adds a new empty worksheet and returns its ID.
func (s *Store) Create() string {
	ws := New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worksheets[ws.ID] = ws
	return ws.ID
}

// Update runs fn with exclusive access to the worksheet with the given ID.
// Reads go through Update as well so that they never observe a partial change.
func (s *Store) Update(id string, fn func(ws *Worksheet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.worksheets[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWorksheetNotFound, id)
	}
	return fn(ws)
}

// Delete removes the worksheet with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.worksheets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrWorksheetNotFound, id)
	}
	delete(s.worksheets, id)
	return nil
}

// Len returns the number of live worksheets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.worksheets)
}
