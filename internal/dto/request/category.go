package request

// CreateCategoryRequest omits the slug to have it derived from the name.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}

type SearchRequest struct {
	PaginatedRequest
	Search string
}
