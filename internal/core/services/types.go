// internal/core/services/types.go
package services

import "github.com/solesync/solesync/internal/adapters/api"

// PageView is the currently displayed paginated slice for a resource and its
// metadata, independent of the aggregated cache. The metadata always
// describes the most recent successful fetch; writes never speculatively
// mutate it.
type PageView[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
}

// mapWire maps a slice of decoded wire objects through a per-entity mapper
func mapWire[T any](items []api.Wire, from func(api.Wire) T) []T {
	out := make([]T, 0, len(items))
	for _, m := range items {
		out = append(out, from(m))
	}
	return out
}

// clonePage copies a page view so callers can read it without a store lock
func clonePage[T any](view PageView[T]) PageView[T] {
	out := view
	out.Items = make([]T, len(view.Items))
	copy(out.Items, view.Items)
	return out
}
