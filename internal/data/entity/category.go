package entity

// Category is a reference list entry; a title belongs to at most one.
type Category struct {
	BaseSimple
	Name string `db:"name"`
	Slug string `db:"slug"`
}
