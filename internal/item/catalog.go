package item

import (
	"strings"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// Catalog is the read-only item lookup shared by all concurrent operations.
// It is built once at startup and never mutated, so no locking is needed.
type Catalog interface {
	// GetItem returns the item for an ID, or nil if unknown.
	GetItem(id int) *domain.Item
	// GetItemByName returns the item for a public name, or nil if unknown.
	GetItemByName(name string) *domain.Item
	// Len returns the number of items in the catalog.
	Len() int
}

// byName is keyed by the lowercased item name, so lookups match the
// config regardless of how the name was capitalized there.
type catalog struct {
	byID   map[int]*domain.Item
	byName map[string]*domain.Item
}

func (c *catalog) GetItem(id int) *domain.Item {
	return c.byID[id]
}

func (c *catalog) GetItemByName(name string) *domain.Item {
	return c.byName[strings.ToLower(name)]
}

func (c *catalog) Len() int {
	return len(c.byID)
}

// NewStaticCatalog builds a catalog directly from items, used by tests and
// by callers that source items from somewhere other than the JSON config.
func NewStaticCatalog(items ...*domain.Item) Catalog {
	byID := make(map[int]*domain.Item, len(items))
	byName := make(map[string]*domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
		byName[strings.ToLower(it.Name)] = it
	}
	return &catalog{byID: byID, byName: byName}
}
