package service

import (
	"sort"

	"github.com/google/uuid"
)

// PageSize is the fixed page length used by the dashboard tables.
const PageSize = 5

// Selection tracks the notice ids chosen for batch submission. Membership is
// keyed by id, never by page position, so navigating between pages cannot
// drop or corrupt a selection. All operations are idempotent.
type Selection struct {
	ids map[uuid.UUID]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: map[uuid.UUID]struct{}{}}
}

// Select adds the ids to the selection. Already-selected ids are no-ops.
func (s *Selection) Select(ids ...uuid.UUID) {
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Deselect removes the ids from the selection. Unselected ids are no-ops.
func (s *Selection) Deselect(ids ...uuid.UUID) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// Has reports whether the id is selected.
func (s *Selection) Has(id uuid.UUID) bool {
	_, ok := s.ids[id]
	return ok
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = map[uuid.UUID]struct{}{}
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in a deterministic order.
func (s *Selection) IDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Retain drops every selected id not present in keep. Used to shed stale
// selections after a re-fetch.
func (s *Selection) Retain(keep []uuid.UUID) {
	allowed := make(map[uuid.UUID]struct{}, len(keep))
	for _, id := range keep {
		allowed[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := allowed[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// Paginate slices items into the requested page of size PageSize. Out-of-range
// pages clamp to the nearest valid page instead of erroring; the clamped page
// number is returned alongside the slice.
func Paginate[T any](items []T, page int) ([]T, int) {
	total := PageCount(len(items))
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page
}

// PageCount returns the number of pages needed for n items, at least 1.
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}
