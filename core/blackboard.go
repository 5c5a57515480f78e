package core

import (
	"sort"
	"sync"
)

// Blackboard is the key/value store behavior nodes use to communicate. It is
// created once per tree and keeps its values across runs.
//
// Each method is atomic on its own, which keeps the map intact when Parallel
// branches touch it concurrently. Sequences of calls are not atomic: two
// branches doing Get-then-Set on the same key still race and the last write
// wins.
type Blackboard struct {
	mu     sync.RWMutex
	values map[string]Value
}

// NewBlackboard returns an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{values: make(map[string]Value)}
}

// Get returns the value stored under key.
func (b *Blackboard) Get(key string) (Value, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (b *Blackboard) Set(key string, value Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.values == nil {
		b.values = make(map[string]Value)
	}
	b.values[key] = value
}

// Delete removes key and reports whether it was present.
func (b *Blackboard) Delete(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.values[key]; !ok {
		return false
	}
	delete(b.values, key)
	return true
}

// Has reports whether key is present.
func (b *Blackboard) Has(key string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.values[key]
	return ok
}

// Keys returns the present keys in sorted order.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (b *Blackboard) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}

// Snapshot returns a copy of the entries. Values are immutable, so the copy
// can be read freely.
func (b *Blackboard) Snapshot() map[string]Value {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]Value, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}
