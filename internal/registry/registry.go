package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"symbolstats/internal/model"
)

// ErrUnknownSymbol is returned when a symbol name is not registered.
var ErrUnknownSymbol = errors.New("unknown symbol")

// ErrDuplicateSymbol is returned when a name is registered twice.
var ErrDuplicateSymbol = errors.New("duplicate symbol")

type entry struct {
	mu     sync.Mutex
	symbol model.Symbol
}

// Registry holds the known symbols in a fixed order. Lookups share a read
// lock on the index; writes to one symbol only lock that symbol.
type Registry struct {
	mu      sync.RWMutex
	order   []*entry
	byName  map[string]*entry
	nowFunc func() time.Time
}

// New creates a registry from symbol metadata, keeping the given order.
func New(symbols []model.Symbol) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]*entry, len(symbols)),
		nowFunc: time.Now,
	}
	for _, s := range symbols {
		if err := r.add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(s model.Symbol) error {
	if s.Name == "" {
		return fmt.Errorf("register symbol: empty name")
	}
	if _, ok := r.byName[s.Name]; ok {
		return fmt.Errorf("register %s: %w", s.Name, ErrDuplicateSymbol)
	}
	if s.DisplayName == "" {
		s.DisplayName = s.Name
	}
	if s.Type == "" {
		s.Type = DefaultType
	}
	s.Stats = s.Stats.Clone()
	e := &entry{symbol: s}
	r.order = append(r.order, e)
	r.byName[s.Name] = e
	return nil
}

func (r *Registry) lookup(name string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// Get returns a copy of the named symbol.
func (r *Registry) Get(name string) (model.Symbol, bool) {
	e, ok := r.lookup(name)
	if !ok {
		return model.Symbol{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return copySymbol(e.symbol), true
}

// Update applies fn to the named symbol's stats atomically. fn receives a
// private copy and returns the new value. UpdatedAt only moves when the
// value changed.
func (r *Registry) Update(name string, fn func(model.Stats) model.Stats) error {
	e, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("update %s: %w", name, ErrUnknownSymbol)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next := fn(e.symbol.Stats.Clone())
	if next.Equal(e.symbol.Stats) {
		return nil
	}
	next.UpdatedAt = r.nowFunc()
	e.symbol.Stats = next
	return nil
}

// Names returns symbol names in registry order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	for i, e := range r.order {
		names[i] = e.symbol.Name
	}
	return names
}

// Snapshot returns copies of all symbols in registry order.
func (r *Registry) Snapshot() []model.Symbol {
	r.mu.RLock()
	entries := make([]*entry, len(r.order))
	copy(entries, r.order)
	r.mu.RUnlock()

	out := make([]model.Symbol, len(entries))
	for i, e := range entries {
		e.mu.Lock()
		out[i] = copySymbol(e.symbol)
		e.mu.Unlock()
	}
	return out
}

// Len returns the number of registered symbols.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func copySymbol(s model.Symbol) model.Symbol {
	s.Stats = s.Stats.Clone()
	return s
}
