package rescue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/memory"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/internal/service/chat"
	"github.com/Temutjin2k/rescue-coordination/internal/service/hub"
	"github.com/Temutjin2k/rescue-coordination/internal/service/notification"
	"github.com/Temutjin2k/rescue-coordination/internal/service/relay"
	"github.com/Temutjin2k/rescue-coordination/internal/service/rescue"
	"github.com/Temutjin2k/rescue-coordination/pkg/keymutex"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
)

type env struct {
	teams         *memory.TeamDirectory
	notifications *memory.NotificationRepo
	candidates    *memory.CandidateRepo
	hub           *hub.Hub
	rescue        *rescue.Service
	relay         *relay.Service
	chat          *chat.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	l := logger.Discard()

	store := memory.NewStore(0.5)
	teams := memory.NewTeamDirectory(store)
	rescues := memory.NewRescueRepo(store)
	candidates := memory.NewCandidateRepo(store)
	notifications := memory.NewNotificationRepo(store)
	tx := memory.NewTxManager(store)
	locks := keymutex.New[int64]()

	h, err := hub.New(hub.Config{Buffer: 256}, l)
	require.NoError(t, err)
	t.Cleanup(h.Close)
	dispatcher := hub.NewDispatcher(h, nil)
	notifier := notification.New(notifications, dispatcher, l)

	return &env{
		teams:         teams,
		notifications: notifications,
		candidates:    candidates,
		hub:           h,
		rescue: rescue.New(rescues, candidates, teams, dispatcher, notifier, locks, tx,
			rescue.Config{DefaultLimit: 500, MaxLimit: 1000, HotspotPrecision: 0.01}, l),
		relay: relay.New(rescues, memory.NewThrottle(time.Minute), dispatcher, locks, tx, 5*time.Second, l),
		chat:  chat.New(rescues, memory.NewMessageRepo(store), teams, dispatcher, notifier, locks, tx, 2000, l),
	}
}

func user(id int64, teams ...int64) *models.Actor {
	return &models.Actor{UserID: id, TeamIDs: teams}
}

func box(lat, lng, d float64) models.Bounds {
	return models.Bounds{MinLat: lat - d, MaxLat: lat + d, MinLng: lng - d, MaxLng: lng + d}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_RetrievableByBounds(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	points := [][2]float64{{-38.0055, -57.5426}, {90, 180}, {-90, -180}, {0, 0}, {51.5, -0.12}}
	for _, p := range points {
		r, err := e.rescue.Create(ctx, user(1), p[0], p[1], models.Metadata{})
		require.NoError(t, err)
		assert.Equal(t, types.StatusPending, r.Status)
		assert.Equal(t, types.StateOpen, r.State())

		inside, err := e.rescue.Query(ctx, models.RescueFilter{Bounds: models.Bounds{
			MinLat: p[0], MaxLat: p[0], MinLng: p[1], MaxLng: p[1],
		}})
		require.NoError(t, err)
		assert.Contains(t, ids(inside), r.ID)

		far := models.Bounds{MinLat: p[0] + 1, MaxLat: p[0] + 1, MinLng: p[1], MaxLng: p[1]}
		if p[0] >= 89 {
			far = models.Bounds{MinLat: p[0] - 2, MaxLat: p[0] - 1, MinLng: p[1], MaxLng: p[1]}
		}
		outside, err := e.rescue.Query(ctx, models.RescueFilter{Bounds: far})
		require.NoError(t, err)
		assert.NotContains(t, ids(outside), r.ID)
	}
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.rescue.Create(ctx, user(1), 91, 0, models.Metadata{})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = e.rescue.Create(ctx, user(1), 0, -181, models.Metadata{})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{VehicleType: "spaceship"})
	var verr *types.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "vehicleType", verr.Field)

	_, err = e.rescue.Create(ctx, nil, 0, 0, models.Metadata{})
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestQuery_FiltersAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	a, err := e.rescue.Create(ctx, user(1), 1, 1, models.Metadata{VehicleType: types.VehicleType("car")})
	require.NoError(t, err)
	b, err := e.rescue.Create(ctx, user(1), 1.1, 1.1, models.Metadata{VehicleType: types.VehicleType("car")})
	require.NoError(t, err)
	_, err = e.rescue.Create(ctx, user(1), 1.2, 1.2, models.Metadata{})
	require.NoError(t, err)

	got, err := e.rescue.Query(ctx, models.RescueFilter{Bounds: box(1, 1, 1), VehicleType: "car"})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, a.ID}, ids(got))

	_, err = e.rescue.Resolve(ctx, a.ID, user(1))
	require.NoError(t, err)

	got, err = e.rescue.Query(ctx, models.RescueFilter{Bounds: box(1, 1, 1), Status: types.StatusPending, Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, a.ID, got[0].ID)
}

func TestResolve_IsTerminal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)

	_, err = e.rescue.Resolve(ctx, r.ID, user(2))
	assert.ErrorIs(t, err, types.ErrForbidden)

	resolved, err := e.rescue.Resolve(ctx, r.ID, user(1))
	require.NoError(t, err)
	assert.Equal(t, types.StatusResolved, resolved.Status)

	_, err = e.rescue.Resolve(ctx, r.ID, user(1))
	assert.ErrorIs(t, err, types.ErrAlreadyResolved)

	got, err := e.rescue.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusResolved, got.Status)
}

func TestAssign_ConcurrentCallsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)

	var candidateIDs []int64
	for uid := int64(10); uid < 20; uid++ {
		c, err := e.rescue.Register(ctx, r.ID, user(uid), nil)
		require.NoError(t, err)
		candidateIDs = append(candidateIDs, c.ID)
	}
	e.teams.AddMember(3, 30)
	teamCandidate, err := e.rescue.Register(ctx, r.ID, user(30, 3), ptr[int64](3))
	require.NoError(t, err)
	candidateIDs = append(candidateIDs, teamCandidate.ID)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
		losers  []error
	)
	for _, id := range candidateIDs {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := e.rescue.Assign(ctx, r.ID, id, user(1))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
				return
			}
			losers = append(losers, err)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	for _, err := range losers {
		assert.ErrorIs(t, err, types.ErrAlreadyAssigned)
	}

	got, err := e.rescue.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, (got.AssignedRescuerID == nil) != (got.AssignedTeamID == nil), "exactly one assignee")

	list, err := e.rescue.ListCandidates(ctx, r.ID, user(1))
	require.NoError(t, err)
	accepted := 0
	for _, c := range list {
		switch c.Status {
		case types.CandidateAccepted:
			accepted++
		case types.CandidatePending:
			t.Fatalf("candidate %d still pending", c.ID)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestAssign_Checks(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)
	other, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)

	c, err := e.rescue.Register(ctx, r.ID, user(7), nil)
	require.NoError(t, err)
	foreign, err := e.rescue.Register(ctx, other.ID, user(7), nil)
	require.NoError(t, err)

	_, err = e.rescue.Assign(ctx, r.ID, c.ID, user(7))
	assert.ErrorIs(t, err, types.ErrForbidden)

	_, err = e.rescue.Assign(ctx, r.ID, foreign.ID, user(1))
	assert.ErrorIs(t, err, types.ErrInvalidCandidate)

	_, err = e.rescue.Assign(ctx, r.ID, 9999, user(1))
	assert.ErrorIs(t, err, types.ErrInvalidCandidate)

	_, err = e.rescue.Reject(ctx, r.ID, c.ID, user(1))
	require.NoError(t, err)
	_, err = e.rescue.Assign(ctx, r.ID, c.ID, user(1))
	assert.ErrorIs(t, err, types.ErrInvalidCandidate)
}

func TestRegister_Uniqueness(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)

	first, err := e.rescue.Register(ctx, r.ID, user(7), nil)
	require.NoError(t, err)
	assert.Equal(t, types.CandidatePending, first.Status)

	_, err = e.rescue.Register(ctx, r.ID, user(7), nil)
	assert.ErrorIs(t, err, types.ErrDuplicateCandidate)

	_, err = e.rescue.Reject(ctx, r.ID, first.ID, user(1))
	require.NoError(t, err)

	_, err = e.rescue.Reject(ctx, r.ID, first.ID, user(1))
	assert.ErrorIs(t, err, types.ErrInvalidState)

	second, err := e.rescue.Register(ctx, r.ID, user(7), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRegister_SelfAndTeamRules(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.teams.AddMember(3, 1)
	e.teams.AddMember(3, 8)

	r, err := e.rescue.Create(ctx, user(1, 3), 0, 0, models.Metadata{})
	require.NoError(t, err)

	_, err = e.rescue.Register(ctx, r.ID, user(1, 3), nil)
	assert.ErrorIs(t, err, types.ErrSelfCandidacy)

	_, err = e.rescue.Register(ctx, r.ID, user(8, 3), ptr[int64](3))
	assert.ErrorIs(t, err, types.ErrSelfCandidacy, "the requester belongs to the team")

	_, err = e.rescue.Register(ctx, r.ID, user(9), ptr[int64](4))
	assert.ErrorIs(t, err, types.ErrForbidden)
}

func TestListCandidates_Visibility(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)
	_, err = e.rescue.Register(ctx, r.ID, user(7), nil)
	require.NoError(t, err)
	_, err = e.rescue.Register(ctx, r.ID, user(8), nil)
	require.NoError(t, err)

	all, err := e.rescue.ListCandidates(ctx, r.ID, user(1))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := e.rescue.ListCandidates(ctx, r.ID, user(7))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, int64(7), *own[0].UserID)
}

func TestUpdateAssistance_ResolvedStatusResolves(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)

	channel := types.AssistanceChannel("community")
	updated, err := e.rescue.UpdateAssistance(ctx, r.ID, user(1), models.AssistanceUpdate{Channel: &channel})
	require.NoError(t, err)
	assert.Equal(t, channel, updated.AssistanceChannel)
	assert.Equal(t, types.StatusPending, updated.Status)

	_, err = e.rescue.UpdateAssistance(ctx, r.ID, user(2), models.AssistanceUpdate{Channel: &channel})
	assert.ErrorIs(t, err, types.ErrForbidden)

	status := types.AssistanceResolved
	updated, err = e.rescue.UpdateAssistance(ctx, r.ID, user(1), models.AssistanceUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, types.StatusResolved, updated.Status)

	_, err = e.rescue.UpdateAssistance(ctx, r.ID, user(1), models.AssistanceUpdate{Channel: &channel})
	assert.ErrorIs(t, err, types.ErrAlreadyResolved)
}

func TestHotspot(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	for _, p := range [][2]float64{{-38.0021, -57.5426}, {-38.0011, -57.5426}, {10, 10}} {
		_, err := e.rescue.Create(ctx, user(1), p[0], p[1], models.Metadata{})
		require.NoError(t, err)
	}

	h, ok, err := e.rescue.Hotspot(ctx, models.RescueFilter{Bounds: models.World})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, h.Count)
	assert.InDelta(t, -38.0, h.Latitude, 0.01)

	_, ok, err = e.rescue.Hotspot(ctx, models.RescueFilter{Bounds: box(50, 50, 1)})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.teams.AddMember(3, 30)

	mine, err := e.rescue.Create(ctx, user(30), 0, 0, models.Metadata{})
	require.NoError(t, err)
	teamRescue, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)
	_, err = e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)

	c, err := e.rescue.Register(ctx, teamRescue.ID, user(31, 3), ptr[int64](3))
	require.NoError(t, err)
	_, err = e.rescue.Assign(ctx, teamRescue.ID, c.ID, user(1))
	require.NoError(t, err)

	got, err := e.rescue.ListMine(ctx, user(30, 3), 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{mine.ID, teamRescue.ID}, ids(got))
}

func ids(rescues []*models.Rescue) []int64 {
	out := make([]int64, 0, len(rescues))
	for _, r := range rescues {
		out = append(out, r.ID)
	}
	return out
}

func TestCommittedChangesSurviveDoneContext(t *testing.T) {
	e := newEnv(t)
	s, err := e.hub.Subscribe(context.Background(), models.RescueFilter{Bounds: box(0, 0, 1)}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	const n = 100
	var last *models.Rescue
	for range n {
		last, err = e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
		require.NoError(t, err)
	}
	_, err = e.rescue.Register(context.Background(), last.ID, user(7), nil)
	require.NoError(t, err)
	_, err = e.rescue.Resolve(ctx, last.ID, user(1))
	require.NoError(t, err)

	created := 0
	for created < n {
		select {
		case ev := <-s.Events():
			require.Equal(t, types.EventCreated, ev.Kind)
			created++
		case <-time.After(time.Second):
			t.Fatalf("got %d of %d created events", created, n)
		}
	}
	select {
	case ev := <-s.Events():
		assert.Equal(t, types.EventStatus, ev.Kind)
		assert.Equal(t, last.ID, ev.RescueID)
	case <-time.After(time.Second):
		t.Fatal("status event was dropped")
	}

	notes, err := e.notifications.ListByUser(context.Background(), 7, false, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, types.NotificationCandidateRejected, notes[0].Type)
}

func TestResolve_RejectsOpenOffers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)
	first, err := e.rescue.Register(ctx, r.ID, user(7), nil)
	require.NoError(t, err)
	_, err = e.rescue.Register(ctx, r.ID, user(8), nil)
	require.NoError(t, err)

	_, err = e.rescue.Resolve(ctx, r.ID, user(1))
	require.NoError(t, err)

	all, err := e.candidates.ListByRescue(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, c := range all {
		assert.Equal(t, types.CandidateRejected, c.Status)
	}

	for _, id := range []int64{7, 8} {
		notes, err := e.notifications.ListByUser(ctx, id, false, 0)
		require.NoError(t, err)
		require.Len(t, notes, 1, "user %d", id)
		assert.Equal(t, types.NotificationCandidateRejected, notes[0].Type)
	}

	_, err = e.rescue.Reject(ctx, r.ID, first.ID, user(1))
	assert.ErrorIs(t, err, types.ErrAlreadyResolved)
}

func TestUpdateAssistance_ResolvingRejectsOpenOffers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{})
	require.NoError(t, err)
	c, err := e.rescue.Register(ctx, r.ID, user(7), nil)
	require.NoError(t, err)

	status := types.AssistanceResolved
	_, err = e.rescue.UpdateAssistance(ctx, r.ID, user(1), models.AssistanceUpdate{Status: &status})
	require.NoError(t, err)

	got, err := e.candidates.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, types.CandidateRejected, got.Status)

	_, err = e.rescue.Reject(ctx, r.ID, c.ID, user(1))
	assert.ErrorIs(t, err, types.ErrAlreadyResolved)
}

func TestResolve_StreamsToAssistanceFilter(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	s, err := e.hub.Subscribe(ctx, models.RescueFilter{Bounds: box(0, 0, 1), AssistanceStatus: types.AssistanceEnRoute}, nil)
	require.NoError(t, err)

	r, err := e.rescue.Create(ctx, user(1), 0, 0, models.Metadata{AssistanceStatus: types.AssistanceEnRoute})
	require.NoError(t, err)
	status := types.AssistanceResolved
	_, err = e.rescue.UpdateAssistance(ctx, r.ID, user(1), models.AssistanceUpdate{Status: &status})
	require.NoError(t, err)

	var kinds []types.EventKind
	for len(kinds) < 2 {
		select {
		case ev := <-s.Events():
			kinds = append(kinds, ev.Kind)
		case <-time.After(time.Second):
			t.Fatalf("expected created and status, got %v", kinds)
		}
	}
	assert.Equal(t, []types.EventKind{types.EventCreated, types.EventStatus}, kinds)
}
