package entity

import "time"

const (
	MinScore = 1
	MaxScore = 10
)

type Review struct {
	ID       int64     `db:"id"`
	TitleID  int64     `db:"title_id"`
	AuthorID int64     `db:"author_id"`
	Author   string    `db:"author"` // username, filled by reads
	Text     string    `db:"text"`
	Score    int       `db:"score"`
	PubDate  time.Time `db:"pub_date"`
}
