// Package folders implements the folder store: a flat CRUD collection
// conversations reference by id. Folders sort alphabetically by name, not by
// recency, and carry no denormalized state.
package folders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/chatvault/internal/client/events"
	"github.com/dmitrijs2005/chatvault/internal/client/models"
	"github.com/dmitrijs2005/chatvault/internal/client/storage"
	"github.com/dmitrijs2005/chatvault/internal/common"
	"github.com/dmitrijs2005/chatvault/internal/logging"
	"github.com/google/uuid"
)

// IndexKey is the storage key of the folder collection.
const IndexKey = "folders"

// ConversationDetacher clears the folder reference on every conversation
// filed under a folder. The conversation store satisfies this.
type ConversationDetacher interface {
	DetachFolder(ctx context.Context, folderID string) (int, error)
}

// Store owns the folder collection. When a detacher is wired, deleting a
// folder also repairs the conversations that pointed at it; without one the
// dangling references are left alone, matching the historical behavior.
type Store struct {
	kv       storage.Store
	bus      *events.Bus
	log      logging.Logger
	detacher ConversationDetacher

	newID func() string
}

func NewStore(kv storage.Store, bus *events.Bus, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{kv: kv, bus: bus, log: log, newID: uuid.NewString}
}

// WithDetacher wires the repair step run on folder deletion.
func (s *Store) WithDetacher(d ConversationDetacher) *Store {
	s.detacher = d
	return s
}

// List returns every folder sorted by name. Fail-soft like the conversation
// index: corrupt data degrades to an empty list.
func (s *Store) List(ctx context.Context) []models.Folder {
	return s.read(ctx)
}

// Get returns the folder with the given id or common.ErrorNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.Folder, error) {
	for _, f := range s.read(ctx) {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, common.ErrorNotFound
}

// Create adds a folder and publishes FolderCreated.
func (s *Store) Create(ctx context.Context, name string, opts ...func(*models.Folder)) (*models.Folder, error) {
	f := models.Folder{ID: s.newID(), Name: name, IsExpanded: true}
	for _, opt := range opts {
		opt(&f)
	}

	list := append(s.read(ctx), f)
	if err := s.write(ctx, list); err != nil {
		return nil, err
	}

	s.publish(events.Event{Kind: events.FolderCreated, Data: f.ID})
	return &f, nil
}

// Rename changes the folder's name and publishes FolderUpdated.
func (s *Store) Rename(ctx context.Context, id, name string) (*models.Folder, error) {
	return s.updateOne(ctx, id, events.FolderUpdated, func(f *models.Folder) {
		f.Name = name
	})
}

// SetExpanded persists the UI expansion flag and publishes FolderExpanded.
func (s *Store) SetExpanded(ctx context.Context, id string, expanded bool) (*models.Folder, error) {
	return s.updateOne(ctx, id, events.FolderExpanded, func(f *models.Folder) {
		f.IsExpanded = expanded
	})
}

// Delete removes the folder and publishes FolderDeleted. With a detacher
// wired, conversations filed under it are moved back to the root first.
func (s *Store) Delete(ctx context.Context, id string) error {
	list := s.read(ctx)
	remaining := make([]models.Folder, 0, len(list))
	for _, f := range list {
		if f.ID != id {
			remaining = append(remaining, f)
		}
	}

	if s.detacher != nil {
		n, err := s.detacher.DetachFolder(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to detach conversations: %w", err)
		}
		if n > 0 {
			s.log.Info(ctx, "moved conversations to root", "folder_id", id, "count", n)
		}
	}

	if err := s.write(ctx, remaining); err != nil {
		return err
	}

	s.publish(events.Event{Kind: events.FolderDeleted, Data: id})
	return nil
}

func (s *Store) updateOne(ctx context.Context, id string, kind events.Kind, mutate func(*models.Folder)) (*models.Folder, error) {
	list := s.read(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		mutate(&list[i])
		updated := list[i]

		if err := s.write(ctx, list); err != nil {
			return nil, err
		}
		s.publish(events.Event{Kind: kind, Data: id})
		return &updated, nil
	}
	return nil, common.ErrorNotFound
}

func (s *Store) read(ctx context.Context) []models.Folder {
	data, err := s.kv.Get(ctx, IndexKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "failed to read folders", "error", err)
		}
		return nil
	}

	list, err := models.DecodeFolders(data)
	if err != nil {
		s.log.Error(ctx, "corrupt folder collection, treating as empty", "error", err)
		return nil
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (s *Store) write(ctx context.Context, list []models.Folder) error {
	data, err := models.EncodeFolders(list)
	if err != nil {
		return fmt.Errorf("failed to encode folders: %w", err)
	}
	if err := s.kv.Set(ctx, IndexKey, data); err != nil {
		return fmt.Errorf("failed to persist folders: %w", err)
	}
	return nil
}

func (s *Store) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
