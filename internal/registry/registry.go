// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/controlgrid/internal/graph"
)

// ErrUnknownType is returned when a type tag has no registered constructor.
var ErrUnknownType = errors.New("unknown node type")

// Constructor builds a fresh, detached node with its default pins.
type Constructor func() *graph.Node

// Module is the interface that every node package implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Entry describes one registered node type.
type Entry struct {
	Type string
	// Category groups types in the editor palette.
	Category string
	New      Constructor
}

// Registry holds the node constructors for a single application instance.
type Registry struct {
	entries map[string]*Entry
}

// New creates an empty Registry and registers every given module into it.
func New(modules ...Module) *Registry {
	r := &Registry{entries: make(map[string]*Entry)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a constructor under a type tag. Registering the same tag
// twice is a programming error and panics.
func (r *Registry) Register(typeName, category string, ctor Constructor) {
	if _, exists := r.entries[typeName]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", typeName))
	}
	slog.Debug("Registering node type.", "type", typeName, "category", category)
	r.entries[typeName] = &Entry{Type: typeName, Category: category, New: ctor}
}

// NewNode builds a node of the given type.
func (r *Registry) NewNode(typeName string) (*graph.Node, error) {
	e, ok := r.entries[typeName]
	if !ok {
		return nil, fmt.Errorf("%q: %w", typeName, ErrUnknownType)
	}
	return e.New(), nil
}

// Has reports whether a type tag is registered.
func (r *Registry) Has(typeName string) bool {
	_, ok := r.entries[typeName]
	return ok
}

// Types lists the registered type tags in lexical order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Entries lists the registered types ordered by category, then tag.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Type < out[j].Type
	})
	return out
}
