// Package memory implements every repository in process memory. It backs
// storage.driver=memory and the application tests.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
	"github.com/khoahotran/cv-studio/internal/domain/user"
)

type selectionKey struct {
	documentID uuid.UUID
	entityID   uuid.UUID
}

// Store holds all state behind one lock so batch writes are atomic.
type Store struct {
	mu sync.RWMutex

	users      map[string]user.User
	profiles   map[uuid.UUID]profile.Profile
	entities   map[uuid.UUID]profile.Record
	entitySeq  []uuid.UUID
	documents  map[uuid.UUID]document.Document
	selections map[selectionKey]document.Selection
	links      map[uuid.UUID]share.Link
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]user.User),
		profiles:   make(map[uuid.UUID]profile.Profile),
		entities:   make(map[uuid.UUID]profile.Record),
		documents:  make(map[uuid.UUID]document.Document),
		selections: make(map[selectionKey]document.Selection),
		links:      make(map[uuid.UUID]share.Link),
	}
}

func (s *Store) Users() user.Repository                   { return &userRepo{s} }
func (s *Store) Profiles() profile.Repository             { return &profileRepo{s} }
func (s *Store) Entities() profile.EntityRepository       { return &entityRepo{s} }
func (s *Store) Documents() document.Repository           { return &documentRepo{s} }
func (s *Store) Selections() document.SelectionRepository { return &selectionRepo{s} }
func (s *Store) Shares() share.Repository                 { return &shareRepo{s} }
