package response

// Page is one window of an owner's records, newest first.
type Page[T any] struct {
	Data       []T      `json:"data"`
	Pagination PageMeta `json:"pagination"`
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// NewPage converts each stored record with toResponse and attaches the paging metadata.
func NewPage[E, T any](items []*E, toResponse func(*E) T, page, perPage int, total int64) *Page[T] {
	data := make([]T, 0, len(items))
	for _, item := range items {
		data = append(data, toResponse(item))
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return &Page[T]{
		Data: data,
		Pagination: PageMeta{
			Total:      total,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	}
}
