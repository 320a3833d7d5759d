package response

import (
	"time"

	"github.com/korey-h/api-yamdb/internal/data/entity"
)

type CommentResponse struct {
	ID      int64     `json:"id"`
	Review  int64     `json:"review"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func CommentToResponse(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID,
		Review:  comment.ReviewID,
		Text:    comment.Text,
		Author:  comment.Author,
		PubDate: comment.PubDate,
	}
}
