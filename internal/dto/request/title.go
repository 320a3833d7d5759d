package request

// CreateTitleRequest references its category and genres by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,min=0"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	Genre       []string `json:"genre" validate:"dive,slug"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Year        *int      `json:"year,omitempty" validate:"omitempty,min=0"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,max=50"` // "" clears the category
	Genre       *[]string `json:"genre,omitempty" validate:"omitempty,dive,slug"`
}

type TitleListRequest struct {
	PaginatedRequest
	Name     string
	Year     *int
	Category string
	Genre    string
}
