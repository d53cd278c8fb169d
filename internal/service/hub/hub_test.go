package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
)

func newHub(t *testing.T, buffer int) *Hub {
	t.Helper()
	h, err := New(Config{Buffer: buffer, SeqWindow: 100}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(h.Close)
	return h
}

func rescueAt(id int64, lat, lng float64, version int64) *models.Rescue {
	return &models.Rescue{ID: id, UserID: 1, Latitude: lat, Longitude: lng, Status: types.StatusPending, Version: version}
}

func around(lat, lng float64) models.RescueFilter {
	return models.RescueFilter{Bounds: models.Bounds{MinLat: lat - 1, MaxLat: lat + 1, MinLng: lng - 1, MaxLng: lng + 1}}
}

func receive(t *testing.T, s *Subscription) models.RescueEvent {
	t.Helper()
	select {
	case e := <-s.Events():
		return e
	case <-time.After(time.Second):
		t.Fatalf("no event received")
		return models.RescueEvent{}
	}
}

func assertEmpty(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case e := <-s.Events():
		t.Fatalf("unexpected event %s for rescue %d", e.Kind, e.RescueID)
	default:
	}
}

func TestHub_ViewportDelivery(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)

	inside, err := h.Subscribe(ctx, around(-38.0055, -57.5426), nil)
	require.NoError(t, err)
	outside, err := h.Subscribe(ctx, around(10, 10), nil)
	require.NoError(t, err)

	r := rescueAt(1, -38.0055, -57.5426, 1)
	assert.True(t, h.Publish(ctx, models.NewRescueEvent(types.EventCreated, r, models.FullPatch(r))))

	e := receive(t, inside)
	assert.Equal(t, types.EventCreated, e.Kind)
	assert.Equal(t, int64(1), e.RescueID)
	assertEmpty(t, outside)
}

func TestHub_DropsStaleAndDuplicateSeq(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)
	s, err := h.Subscribe(ctx, around(0, 0), nil)
	require.NoError(t, err)

	v2 := rescueAt(1, 0, 0, 2)
	v1 := rescueAt(1, 0, 0, 1)

	assert.True(t, h.Publish(ctx, models.NewRescueEvent(types.EventStatus, v2, models.RescuePatch{})))
	assert.False(t, h.Publish(ctx, models.NewRescueEvent(types.EventStatus, v2, models.RescuePatch{})))
	assert.False(t, h.Publish(ctx, models.NewRescueEvent(types.EventCreated, v1, models.FullPatch(v1))))

	assert.Equal(t, int64(2), receive(t, s).Seq)
	assertEmpty(t, s)
}

func TestHub_PartyScopedEventsIgnoreViewport(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)

	party, err := h.Subscribe(ctx, around(50, 50), &models.Actor{UserID: 7})
	require.NoError(t, err)
	teamMember, err := h.Subscribe(ctx, around(50, 50), &models.Actor{UserID: 8, TeamIDs: []int64{3}})
	require.NoError(t, err)
	stranger, err := h.Subscribe(ctx, around(0, 0), &models.Actor{UserID: 9})
	require.NoError(t, err)

	r := rescueAt(1, 0, 0, 3)
	team := int64(3)
	e := models.NewRescueEvent(types.EventMessage, r, models.RescuePatch{}).
		ForParties(models.Audience{UserIDs: []int64{1, 7}, TeamID: &team})
	h.Publish(ctx, e)

	assert.Equal(t, types.EventMessage, receive(t, party).Kind)
	assert.Equal(t, types.EventMessage, receive(t, teamMember).Kind)
	assertEmpty(t, stranger)
}

func TestHub_StatusEventBypassesStatusFilter(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)

	f := around(0, 0)
	f.Status = types.StatusPending
	s, err := h.Subscribe(ctx, f, nil)
	require.NoError(t, err)

	r := rescueAt(1, 0, 0, 2)
	r.Status = types.StatusResolved
	h.Publish(ctx, models.NewRescueEvent(types.EventStatus, r, models.RescuePatch{Status: &r.Status}))
	assert.Equal(t, types.EventStatus, receive(t, s).Kind)

	r.Version = 3
	h.Publish(ctx, models.NewRescueEvent(types.EventLocation, r, models.RescuePatch{}))
	assertEmpty(t, s)
}

func TestHub_StatusEventBypassesAssistanceFilter(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)

	f := around(0, 0)
	f.AssistanceStatus = types.AssistanceEnRoute
	f.VehicleType = "car"
	s, err := h.Subscribe(ctx, f, nil)
	require.NoError(t, err)

	r := rescueAt(1, 0, 0, 1)
	r.VehicleType = "car"
	r.AssistanceStatus = types.AssistanceEnRoute
	h.Publish(ctx, models.NewRescueEvent(types.EventCreated, r, models.FullPatch(r)))
	assert.Equal(t, types.EventCreated, receive(t, s).Kind)

	resolved := *r
	resolved.Version = 2
	resolved.Status = types.StatusResolved
	resolved.AssistanceStatus = types.AssistanceResolved
	h.Publish(ctx, models.NewRescueEvent(types.EventStatus, &resolved, models.RescuePatch{Status: &resolved.Status}))
	e := receive(t, s)
	assert.Equal(t, types.EventStatus, e.Kind)
	assert.Equal(t, int64(1), e.RescueID)

	// incident criteria still apply
	truck := rescueAt(2, 0, 0, 1)
	truck.VehicleType = "truck"
	truck.Status = types.StatusResolved
	h.Publish(ctx, models.NewRescueEvent(types.EventStatus, truck, models.RescuePatch{Status: &truck.Status}))
	assertEmpty(t, s)
}

func TestHub_PublishWithDoneContextDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	const n = 200
	h := newHub(t, n)
	s, err := h.Subscribe(context.Background(), around(0, 0), nil)
	require.NoError(t, err)

	for id := int64(1); id <= n; id++ {
		r := rescueAt(id, 0, 0, 1)
		assert.True(t, h.Publish(ctx, models.NewRescueEvent(types.EventCreated, r, models.FullPatch(r))), "rescue %d", id)
	}

	for range n {
		assert.Equal(t, types.EventCreated, receive(t, s).Kind)
	}
	assertEmpty(t, s)
}

func TestHub_SetViewport(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)
	s, err := h.Subscribe(ctx, around(0, 0), nil)
	require.NoError(t, err)

	s.SetViewport(around(20, 20))

	r := rescueAt(1, 20, 20, 1)
	h.Publish(ctx, models.NewRescueEvent(types.EventCreated, r, models.FullPatch(r)))
	assert.Equal(t, int64(1), receive(t, s).RescueID)
}

func TestHub_SlowConsumerIsClosed(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 1)
	s, err := h.Subscribe(ctx, around(0, 0), nil)
	require.NoError(t, err)

	for v := int64(1); v <= 2; v++ {
		h.Publish(ctx, models.NewRescueEvent(types.EventStatus, rescueAt(1, 0, 0, v), models.RescuePatch{}))
	}

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("slow subscriber was not closed")
	}
	assert.ErrorIs(t, s.Err(), types.ErrSlowConsumer)
	assert.Equal(t, 0, h.Stats().Viewport)
}

func TestHub_CloseUnsubscribes(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)
	s, err := h.Subscribe(ctx, around(0, 0), nil)
	require.NoError(t, err)
	require.Equal(t, 1, h.Stats().Viewport)

	s.Close()
	s.Close()

	assert.Equal(t, 0, h.Stats().Viewport)
	assert.NoError(t, s.Err())

	r := rescueAt(1, 0, 0, 1)
	h.Publish(ctx, models.NewRescueEvent(types.EventCreated, r, models.FullPatch(r)))
	assertEmpty(t, s)
}

func TestHub_NotifyDeduplicatesByID(t *testing.T) {
	ctx := context.Background()
	h := newHub(t, 8)

	mine, err := h.SubscribeUser(ctx, 5)
	require.NoError(t, err)
	other, err := h.SubscribeUser(ctx, 6)
	require.NoError(t, err)

	n := models.Notification{ID: 11, UserID: 5, Type: types.NotificationAssigned}
	assert.True(t, h.Notify(ctx, n))
	assert.False(t, h.Notify(ctx, n))

	select {
	case got := <-mine.Notifications():
		assert.Equal(t, int64(11), got.ID)
	case <-time.After(time.Second):
		t.Fatalf("notification not delivered")
	}
	assert.Empty(t, mine.Notifications())
	assert.Empty(t, other.Notifications())
	assert.Equal(t, 2, h.Stats().Notification)
}

func TestHub_ClosedHubRejectsSubscribers(t *testing.T) {
	h, err := New(Config{}, logger.Discard())
	require.NoError(t, err)
	s, err := h.Subscribe(context.Background(), around(0, 0), nil)
	require.NoError(t, err)

	h.Close()

	assert.ErrorIs(t, s.Err(), types.ErrConnectionLost)
	_, err = h.Subscribe(context.Background(), around(0, 0), nil)
	assert.ErrorIs(t, err, types.ErrConnectionLost)
}
