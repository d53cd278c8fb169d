// Package hub fans rescue events out to live viewport subscribers and notifications
// out to per-user channels. Delivery is best effort: nothing is buffered for a
// subscriber beyond its channel, and a subscriber that falls behind is dropped.
package hub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/keymutex"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
)

type Config struct {
	// Buffer is the channel capacity of every subscription.
	Buffer int
	// SeqWindow is how many rescues the hub remembers the last published seq for.
	SeqWindow int
	// NotificationTTL is how long delivered notification ids are remembered.
	NotificationTTL time.Duration
}

type Stats struct {
	Viewport     int `json:"viewport"`
	Notification int `json:"notification"`
}

type Hub struct {
	cfg Config
	l   logger.Logger

	mu        sync.RWMutex
	viewports map[uint64]*Subscription
	users     map[int64]map[uint64]*UserSubscription
	closed    bool
	nextID    atomic.Uint64

	order   *keymutex.KeyMutex[int64]
	lastSeq *lru.Cache[int64, int64]

	seenMu sync.Mutex
	seen   *expirable.LRU[int64, struct{}]
}

func New(cfg Config, l logger.Logger) (*Hub, error) {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 64
	}
	if cfg.SeqWindow <= 0 {
		cfg.SeqWindow = 10000
	}
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = 10 * time.Minute
	}

	lastSeq, err := lru.New[int64, int64](cfg.SeqWindow)
	if err != nil {
		return nil, err
	}

	return &Hub{
		cfg:       cfg,
		l:         l,
		viewports: make(map[uint64]*Subscription),
		users:     make(map[int64]map[uint64]*UserSubscription),
		order:     keymutex.New[int64](),
		lastSeq:   lastSeq,
		seen:      expirable.NewLRU[int64, struct{}](cfg.SeqWindow, nil, cfg.NotificationTTL),
	}, nil
}

// Subscribe opens a viewport stream. viewer may be nil for anonymous viewers, who
// never receive party-scoped events.
func (h *Hub) Subscribe(ctx context.Context, filter models.RescueFilter, viewer *models.Actor) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, types.ErrConnectionLost
	}

	s := &Subscription{
		id:     h.nextID.Add(1),
		hub:    h,
		filter: filter,
		viewer: viewer,
		events: make(chan models.RescueEvent, h.cfg.Buffer),
		done:   make(chan struct{}),
	}
	h.viewports[s.id] = s

	return s, nil
}

// SubscribeUser opens the notification channel of a user.
func (h *Hub) SubscribeUser(ctx context.Context, userID int64) (*UserSubscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, types.ErrConnectionLost
	}

	s := &UserSubscription{
		id:            h.nextID.Add(1),
		userID:        userID,
		hub:           h,
		notifications: make(chan models.Notification, h.cfg.Buffer),
		done:          make(chan struct{}),
	}
	if h.users[userID] == nil {
		h.users[userID] = make(map[uint64]*UserSubscription)
	}
	h.users[userID][s.id] = s

	return s, nil
}

// Publish delivers the event to every matching subscriber. Publication is serialized
// per rescue, and an event whose seq is not newer than the last published one for the
// same rescue is dropped, so each subscriber sees one rescue's events in seq order.
// It reports whether the event was fanned out.
func (h *Hub) Publish(ctx context.Context, e models.RescueEvent) bool {
	// the event is committed already; the caller going away must not drop it
	ctx = context.WithoutCancel(ctx)
	unlock, err := h.order.Lock(ctx, e.RescueID)
	if err != nil {
		return false
	}
	defer unlock()

	if last, ok := h.lastSeq.Get(e.RescueID); ok && e.Seq <= last {
		metrics.RecordStreamDelivery("stale")
		return false
	}
	h.lastSeq.Add(e.RescueID, e.Seq)
	metrics.RecordRescueEvent(e.Kind.String())

	h.mu.RLock()
	targets := make([]*Subscription, 0, len(h.viewports))
	for _, s := range h.viewports {
		if s.wants(e) {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	var slow []*Subscription
	for _, s := range targets {
		select {
		case <-s.done:
		case s.events <- e:
			metrics.RecordStreamDelivery("delivered")
		default:
			slow = append(slow, s)
		}
	}

	for _, s := range slow {
		h.removeViewport(s.id)
		s.finish(types.ErrSlowConsumer)
		metrics.RecordStreamDelivery("slow_consumer")
		h.l.Warn(wrap.WithRescueID(ctx, e.RescueID), "viewport subscriber dropped", "subscription_id", s.id)
	}

	return true
}

// Notify pushes a notification to the live channels of its user. A notification id
// seen before is dropped. It reports whether the notification was new.
func (h *Hub) Notify(ctx context.Context, n models.Notification) bool {
	h.seenMu.Lock()
	if h.seen.Contains(n.ID) {
		h.seenMu.Unlock()
		return false
	}
	h.seen.Add(n.ID, struct{}{})
	h.seenMu.Unlock()

	h.mu.RLock()
	targets := make([]*UserSubscription, 0, len(h.users[n.UserID]))
	for _, s := range h.users[n.UserID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		select {
		case <-s.done:
		case s.notifications <- n:
			metrics.RecordStreamDelivery("delivered")
		default:
			h.removeUser(s.userID, s.id)
			s.finish(types.ErrSlowConsumer)
			metrics.RecordStreamDelivery("slow_consumer")
			h.l.Warn(wrap.WithUserID(ctx, n.UserID), "notification subscriber dropped", "subscription_id", s.id)
		}
	}

	return true
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	st := Stats{Viewport: len(h.viewports)}
	for _, subs := range h.users {
		st.Notification += len(subs)
	}
	return st
}

// Close ends every subscription with ErrConnectionLost and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	viewports := h.viewports
	users := h.users
	h.viewports = make(map[uint64]*Subscription)
	h.users = make(map[int64]map[uint64]*UserSubscription)
	h.mu.Unlock()

	for _, s := range viewports {
		s.finish(types.ErrConnectionLost)
	}
	for _, subs := range users {
		for _, s := range subs {
			s.finish(types.ErrConnectionLost)
		}
	}
}

func (h *Hub) removeViewport(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.viewports, id)
}

func (h *Hub) removeUser(userID int64, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.users[userID]
	if _, ok := subs[id]; !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(h.users, userID)
	}
}
