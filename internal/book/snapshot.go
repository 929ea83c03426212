package book

import (
	"context"
	"sync"
)

// Snapshot is the in-memory book collection. It is loaded once and patched
// in place after each successful edit; the collection is never re-fetched as
// a side effect of a save.
type Snapshot struct {
	mu    sync.RWMutex
	books []Book
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Load replaces the snapshot with the repository's current state.
func (s *Snapshot) Load(ctx context.Context, repo Repository) error {
	books, err := repo.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.books = books
	s.mu.Unlock()
	return nil
}

// All returns a copy of the collection.
func (s *Snapshot) All() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out
}

// Get returns the book with the given id.
func (s *Snapshot) Get(id int64) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// Patch replaces the stored record for b.ID.
func (s *Snapshot) Patch(b Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == b.ID {
			s.books[i] = b
			return
		}
	}
}

// Add prepends a newly created book.
func (s *Snapshot) Add(b Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append([]Book{b}, s.books...)
}
