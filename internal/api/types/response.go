// internal/api/types/response.go
package types

// PaginatedResponse is one page of a list endpoint.
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	TotalCount int64 `json:"total_count"`
}

// NewPage builds a page. A nil data slice is encoded as an empty array.
func NewPage[T any](data []T, limit, offset int, total int64) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{Data: data, Limit: limit, Offset: offset, TotalCount: total}
}
