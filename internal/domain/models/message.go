package models

import "time"

// ChatMessage is one message of a rescue conversation.
type ChatMessage struct {
	ID        int64     `json:"id"`
	RescueID  int64     `json:"rescueId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
