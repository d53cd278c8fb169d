package models

import (
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

// Notification is a rescue lifecycle event addressed to one user.
// ID is monotonic so clients can deduplicate redeliveries.
type Notification struct {
	ID        int64                  `json:"id"`
	UserID    int64                  `json:"userId"`
	Type      types.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      NotificationData       `json:"data"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"createdAt"`
}

type NotificationData struct {
	RescueID    int64  `json:"rescueId"`
	TeamID      *int64 `json:"teamId,omitempty"`
	CandidateID *int64 `json:"candidateId,omitempty"`
	MessageID   *int64 `json:"messageId,omitempty"`
}
