// Package slugs allocates unique, human readable identifiers per namespace.
package slugs

import (
	"strconv"
	"sync"

	"codex-backend/pkg/htmlutil"
	"codex-backend/pkg/textutil"
)

type Namespace string

const (
	NamespaceFaction   Namespace = "faction"
	NamespaceDatasheet Namespace = "datasheet"
)

// Allocator hands out slugs that are unique within their namespace. Each run
// creates its own Allocator, nothing is shared between runs.
//
// Allocation order matters: the first "Captain" gets "captain", the second
// "captain-2", so callers allocate in source table order.
type Allocator struct {
	mutex      sync.Mutex
	registries map[Namespace]map[string]struct{}
}

func NewAllocator() *Allocator {
	return &Allocator{registries: make(map[Namespace]map[string]struct{})}
}

// Base returns the slug name would get in an empty namespace.
func Base(ns Namespace, name string) string {
	base := textutil.Slugify(htmlutil.PlainText(name))
	if base == "" {
		return string(ns)
	}
	return base
}

// Allocate returns a slug for name that has not been handed out in ns yet,
// collisions get a numeric suffix starting at 2.
func (a *Allocator) Allocate(ns Namespace, name string) string {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	registry, ok := a.registries[ns]
	if !ok {
		registry = make(map[string]struct{})
		a.registries[ns] = registry
	}

	base := Base(ns, name)
	slug := base
	for n := 2; ; n++ {
		if _, taken := registry[slug]; !taken {
			break
		}
		slug = base + "-" + strconv.Itoa(n)
	}
	registry[slug] = struct{}{}
	return slug
}

// Taken returns true if slug was handed out in ns.
func (a *Allocator) Taken(ns Namespace, slug string) bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	_, ok := a.registries[ns][slug]
	return ok
}

// Count returns the number of slugs handed out in ns.
func (a *Allocator) Count(ns Namespace) int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return len(a.registries[ns])
}
