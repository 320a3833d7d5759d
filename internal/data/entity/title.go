package entity

type Title struct {
	BaseNoDelete
	Name        string   `db:"name"`
	Year        *int     `db:"year"`
	Description *string  `db:"description"`
	CategoryID  *int64   `db:"category_id"`
	Rating      *float64 `db:"rating"` // mean review score, nil without reviews
}
