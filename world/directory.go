// Package world is an in-memory directory of named entities and their
// positions. It answers the position lookups made by GetPosition nodes.
package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agenttree/core"
)

var (
	// ErrEntityExists is returned by Add for a name already in use.
	ErrEntityExists = errors.New("entity already exists")
	// ErrEntityNotFound is returned by Move for an unknown name.
	ErrEntityNotFound = errors.New("entity not found")
)

// Directory maps entity names to positions. Safe for concurrent use.
type Directory struct {
	mu       sync.RWMutex
	entities map[string]core.Vec3
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{entities: make(map[string]core.Vec3)}
}

// Add registers a new entity.
func (d *Directory) Add(name string, pos core.Vec3) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entities[name]; ok {
		return fmt.Errorf("%w: %s", ErrEntityExists, name)
	}
	d.entities[name] = pos
	return nil
}

// Move updates the position of an existing entity.
func (d *Directory) Move(name string, pos core.Vec3) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entities[name]; !ok {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, name)
	}
	d.entities[name] = pos
	return nil
}

// Remove drops an entity and reports whether it existed.
func (d *Directory) Remove(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.entities[name]
	delete(d.entities, name)
	return ok
}

// FindPosition returns the position of the named entity.
func (d *Directory) FindPosition(name string) (core.Vec3, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	pos, ok := d.entities[name]
	return pos, ok
}

// Names returns the registered entity names, sorted.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.entities))
	for n := range d.entities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
