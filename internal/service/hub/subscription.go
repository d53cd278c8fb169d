package hub

import (
	"sync"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

// Subscription is one live viewport. Events are read from Events until Done is closed.
// The events channel is never closed so publishers can send without coordination.
type Subscription struct {
	id  uint64
	hub *Hub

	mu     sync.RWMutex
	filter models.RescueFilter
	viewer *models.Actor

	events chan models.RescueEvent
	done   chan struct{}
	once   sync.Once
	err    error
}

func (s *Subscription) Events() <-chan models.RescueEvent { return s.events }

// Done is closed when the subscription ends, cleanly or with an error.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err is nil after a clean close and ErrSlowConsumer or ErrConnectionLost otherwise.
func (s *Subscription) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// SetViewport moves the subscription to new bounds and filters without reconnecting.
func (s *Subscription) SetViewport(f models.RescueFilter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.removeViewport(s.id)
	s.finish(nil)
}

func (s *Subscription) finish(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}

// wants decides whether the event is for this subscriber.
// Party-scoped events ignore the viewport. Status events ignore the status and assistance
// filters so clients learn when a record leaves the filtered set.
func (s *Subscription) wants(e models.RescueEvent) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e.Audience != nil {
		return e.Audience.Includes(s.viewer)
	}
	if e.Snapshot == nil {
		return false
	}
	if e.Kind == types.EventStatus {
		return s.filter.Bounds.Contains(e.Snapshot.Latitude, e.Snapshot.Longitude) &&
			s.filter.MatchesIncident(e.Snapshot)
	}
	return s.filter.Matches(e.Snapshot)
}

// UserSubscription is the notification channel of one user.
type UserSubscription struct {
	id     uint64
	userID int64
	hub    *Hub

	notifications chan models.Notification
	done          chan struct{}
	once          sync.Once
	mu            sync.RWMutex
	err           error
}

func (s *UserSubscription) Notifications() <-chan models.Notification { return s.notifications }

func (s *UserSubscription) Done() <-chan struct{} { return s.done }

func (s *UserSubscription) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *UserSubscription) Close() {
	s.hub.removeUser(s.userID, s.id)
	s.finish(nil)
}

func (s *UserSubscription) finish(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}
