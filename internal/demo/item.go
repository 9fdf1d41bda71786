// Package demo is a small item API showing how handlers answer with envelopes
// and abort errors.
package demo

import (
	"sort"
	"sync"

	apperrors "github.com/Aidin1998/connectable/pkg/errors"
	"github.com/Aidin1998/connectable/pkg/responser"
	"github.com/google/uuid"
)

// Item is a stored item.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ToDTO implements responser.Connectable.
func (i Item) ToDTO(opts ...responser.Option) responser.Responser[Item] {
	return responser.New(i, opts...)
}

// ItemList is the payload of the list endpoint.
type ItemList struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// ToDTO implements responser.Connectable.
func (l ItemList) ToDTO(opts ...responser.Option) responser.Responser[ItemList] {
	return responser.New(l, opts...)
}

// CreateItemRequest is the body accepted by the create endpoint.
type CreateItemRequest struct {
	Name     string `json:"name" binding:"required,max=64"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

// Store keeps items in memory.
type Store struct {
	mu    sync.RWMutex
	items map[string]Item
}

func NewStore() *Store {
	return &Store{items: make(map[string]Item)}
}

// Create stores a new item under a fresh id.
func (s *Store) Create(req CreateItemRequest) Item {
	item := Item{ID: uuid.NewString(), Name: req.Name, Quantity: req.Quantity}
	s.mu.Lock()
	s.items[item.ID] = item
	s.mu.Unlock()
	return item
}

func (s *Store) Get(id string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return Item{}, apperrors.NotFound.Explain("item %s not found", id)
	}
	return item, nil
}

// List returns all items ordered by name.
func (s *Store) List() []Item {
	s.mu.RLock()
	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return apperrors.NotFound.Explain("item %s not found", id)
	}
	delete(s.items, id)
	return nil
}
