// Package memory keeps rescue state in process memory. It backs the standalone mode.
package memory

import (
	"sync"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/pkg/geoindex"
)

// Store is the shared state behind every in-memory repository.
type Store struct {
	mu sync.RWMutex

	rescues       map[int64]*models.Rescue
	candidates    map[int64]*models.Candidate
	messages      map[int64][]*models.ChatMessage // by rescue id, append-only
	notifications map[int64]*models.Notification
	teams         map[int64][]int64 // team id -> member user ids

	geo *geoindex.Index[int64]

	rescueSeq       int64
	candidateSeq    int64
	messageSeq      int64
	notificationSeq int64
}

func NewStore(cellSize float64) *Store {
	return &Store{
		rescues:       make(map[int64]*models.Rescue),
		candidates:    make(map[int64]*models.Candidate),
		messages:      make(map[int64][]*models.ChatMessage),
		notifications: make(map[int64]*models.Notification),
		teams:         make(map[int64][]int64),
		geo:           geoindex.New[int64](cellSize),
	}
}

func cloneRescue(r *models.Rescue) *models.Rescue {
	if r == nil {
		return nil
	}
	c := *r
	c.AssignedRescuerID = clonePtr(r.AssignedRescuerID)
	c.AssignedTeamID = clonePtr(r.AssignedTeamID)
	c.RescuerLatitude = clonePtr(r.RescuerLatitude)
	c.RescuerLongitude = clonePtr(r.RescuerLongitude)
	c.RescuerUpdatedAt = clonePtr(r.RescuerUpdatedAt)
	return &c
}

func cloneCandidate(c *models.Candidate) *models.Candidate {
	if c == nil {
		return nil
	}
	cp := *c
	cp.UserID = clonePtr(c.UserID)
	cp.TeamID = clonePtr(c.TeamID)
	return &cp
}

func cloneNotification(n *models.Notification) *models.Notification {
	cp := *n
	cp.Data.TeamID = clonePtr(n.Data.TeamID)
	cp.Data.CandidateID = clonePtr(n.Data.CandidateID)
	cp.Data.MessageID = clonePtr(n.Data.MessageID)
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
