package response

import (
	"time"

	"github.com/korey-h/api-yamdb/internal/data/entity"
)

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Title   int64     `json:"title"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// Helper converter
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID,
		Title:   review.TitleID,
		Text:    review.Text,
		Author:  review.Author,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
}
