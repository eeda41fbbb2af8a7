// Package skills resolves skill references bidirectionally between record
// UUIDs and display names, backed by a lazily initialized in-memory cache.
package skills

import (
	"context"
	"fmt"
	"sync"

	"github.com/jcorreia/practiva/internal/forecast/domain"
	"github.com/jcorreia/practiva/internal/forecast/storage"
)

// Resolution is the outcome of resolving a set of skill references.
type Resolution struct {
	// Valid holds resolved display names, deduplicated, input order kept.
	Valid []string
	// Invalid holds references that looked like UUIDs but matched nothing.
	Invalid []string
	// Changed reports whether any reference was rewritten during resolution.
	Changed bool
}

// Resolver maps skill UUIDs to display names and back. The cache loads from
// the backing store on first use and is read-only afterwards until Clear.
// Concurrent first use performs a single load; later callers block on it.
type Resolver struct {
	store storage.SkillStore

	mu     sync.Mutex
	loaded bool
	byID   map[string]string
	byName map[string]string
}

// NewResolver creates a resolver backed by store.
func NewResolver(store storage.SkillStore) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) ensure(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}
	if r.store == nil {
		return fmt.Errorf("skill store is not configured")
	}
	records, err := r.store.ListSkills(ctx)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	byID := make(map[string]string, len(records))
	byName := make(map[string]string, len(records))
	for _, s := range records {
		byID[s.ID] = s.Name
		byName[s.Name] = s.ID
	}
	r.byID = byID
	r.byName = byName
	r.loaded = true
	return nil
}

// Clear drops the cache; the next call reloads from the store.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.byID = nil
	r.byName = nil
}

// ResolveNames maps each id to its display name. Entries with no match come
// back unchanged, so callers can pass mixed id/name lists safely.
func (r *Resolver) ResolveNames(ctx context.Context, ids []string) ([]string, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := r.byID[id]; ok {
			out[i] = name
		} else {
			out[i] = id
		}
	}
	return out, nil
}

// ResolveID maps a display name back to its skill id.
func (r *Resolver) ResolveID(ctx context.Context, name string) (string, error) {
	if err := r.ensure(ctx); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byName[name]
	if !ok {
		return "", storage.ErrNotFound
	}
	return id, nil
}

// ResolveReferences resolves a mixed list of UUIDs and display names.
// UUID-shaped entries that match nothing are reported invalid; resolution is
// best effort and the caller decides whether to drop the owning task.
func (r *Resolver) ResolveReferences(ctx context.Context, refs []string) (Resolution, error) {
	if err := r.ensure(ctx); err != nil {
		return Resolution{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var res Resolution
	seen := map[string]bool{}
	for _, raw := range refs {
		ref := domain.ParseSkillReference(raw)
		if ref.Kind == domain.SkillRefName {
			if !seen[ref.Value] {
				seen[ref.Value] = true
				res.Valid = append(res.Valid, ref.Value)
			}
			continue
		}
		name, ok := r.byID[ref.Value]
		if !ok {
			res.Invalid = append(res.Invalid, ref.Value)
			res.Changed = true
			continue
		}
		res.Changed = true
		if !seen[name] {
			seen[name] = true
			res.Valid = append(res.Valid, name)
		}
	}
	return res, nil
}
