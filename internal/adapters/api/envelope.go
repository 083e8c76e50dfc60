// internal/adapters/api/envelope.go
package api

import (
	"encoding/json"
	"fmt"
)

// defaultPageSize is assumed when an envelope omits its page size
const defaultPageSize = 10

// Page is the normalized form of a paginated server response
type Page struct {
	Items      []Wire
	TotalCount int
	PageNumber int
	PageSize   int
}

// NormalizePage extracts items and pagination metadata from a server
// response of either known shape. A bare array is treated as a single
// complete page. An envelope is read tolerantly across casing conventions,
// defaulting the total to the item count and the page size to 10.
func NormalizePage(raw json.RawMessage) (Page, error) {
	if len(raw) == 0 {
		return Page{PageNumber: 1}, nil
	}

	var items []Wire
	if err := json.Unmarshal(raw, &items); err == nil {
		return Page{
			Items:      items,
			TotalCount: len(items),
			PageNumber: 1,
			PageSize:   len(items),
		}, nil
	}

	var envelope Wire
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Page{}, fmt.Errorf("unexpected page response shape: %w", err)
	}

	rawItems, _ := pick(envelope, "data", "Data")
	if list, ok := rawItems.([]any); ok {
		for _, entry := range list {
			if m, ok := entry.(Wire); ok {
				items = append(items, m)
			}
		}
	}

	page := Page{
		Items:      items,
		TotalCount: pickInt(envelope, "totalCount", "TotalCount"),
		PageNumber: pickInt(envelope, "pageNumber", "PageNumber"),
		PageSize:   pickInt(envelope, "pageSize", "PageSize"),
	}
	if _, ok := pick(envelope, "totalCount", "TotalCount"); !ok {
		page.TotalCount = len(items)
	}
	if page.PageNumber == 0 {
		page.PageNumber = 1
	}
	if page.PageSize == 0 {
		page.PageSize = defaultPageSize
	}
	return page, nil
}
