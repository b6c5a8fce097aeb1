// seehuhn.de/go/psprint - a driver core for PostScript page printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package psprint

import "sync"

// Loader loads capability models by model identifier.
type Loader interface {
	LoadModel(id string) (*Model, error)
}

// LoaderFunc adapts a function to the [Loader] interface.
type LoaderFunc func(id string) (*Model, error)

// LoadModel implements [Loader].
func (f LoaderFunc) LoadModel(id string) (*Model, error) {
	return f(id)
}

// Registry maps model identifiers to loaders and caches loaded models.
//
// A Registry is an explicit value owned by the caller; there is no
// process-wide registry.  The zero value is not usable, use
// [NewRegistry].
type Registry struct {
	mu      sync.Mutex
	loaders map[string]Loader
	catch   Loader // fallback for unregistered identifiers
	cache   map[string]*Model
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
		cache:   make(map[string]*Model),
	}
}

// Register installs a loader for one model identifier.  A previous
// registration for the same identifier is replaced, and a previously
// cached model for the identifier is dropped.
func (r *Registry) Register(id string, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[id] = l
	delete(r.cache, id)
}

// SetFallback installs a loader consulted for identifiers with no
// explicit registration.
func (r *Registry) SetFallback(l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catch = l
}

// Load returns the model for the given identifier, loading it on first
// use.  The loaded model has its default choices marked.
func (r *Registry) Load(id string) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.cache[id]; ok {
		return m, nil
	}

	l, ok := r.loaders[id]
	if !ok {
		l = r.catch
	}
	if l == nil {
		return nil, &ModelError{Name: id, Err: ErrUnknownModel}
	}

	m, err := l.LoadModel(id)
	if err != nil {
		return nil, &ModelError{Name: id, Err: err}
	}
	m.MarkDefaults()
	r.cache[id] = m
	return m, nil
}
