package memory

import (
	"context"
	"slices"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

type MessageRepo struct {
	s *Store
}

func NewMessageRepo(s *Store) *MessageRepo {
	return &MessageRepo{s: s}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.ChatMessage) (*models.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.rescues[m.RescueID]; !ok {
		return nil, types.ErrRescueNotFound
	}

	r.s.messageSeq++
	stored := *m
	stored.ID = r.s.messageSeq

	rescueID := m.RescueID
	r.s.messages[rescueID] = append(r.s.messages[rescueID], &stored)
	record(ctx, func() {
		list := r.s.messages[rescueID]
		r.s.messages[rescueID] = list[:len(list)-1]
	})

	out := stored
	return &out, nil
}

// ListByRescue returns the conversation in creation order.
func (r *MessageRepo) ListByRescue(ctx context.Context, rescueID int64) ([]*models.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := r.s.messages[rescueID]
	out := make([]*models.ChatMessage, 0, len(list))
	for _, m := range list {
		cp := *m
		out = append(out, &cp)
	}
	slices.SortStableFunc(out, func(a, b *models.ChatMessage) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}
