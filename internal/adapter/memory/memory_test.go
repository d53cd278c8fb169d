package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRescue(t *testing.T, repo *RescueRepo, lat, lng float64, createdAt time.Time) *models.Rescue {
	t.Helper()
	r, err := repo.Create(context.Background(), &models.Rescue{
		UserID:    1,
		Latitude:  lat,
		Longitude: lng,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
	require.NoError(t, err)
	return r
}

func ptr[T any](v T) *T { return &v }

func TestRescueRepo_ListByBoundsNewestFirst(t *testing.T) {
	store := NewStore(0.5)
	repo := NewRescueRepo(store)

	older := newRescue(t, repo, -38.0055, -57.5426, t0)
	newer := newRescue(t, repo, -38.1, -57.6, t0.Add(time.Minute))
	newRescue(t, repo, 10, 10, t0)

	got, err := repo.List(context.Background(), models.RescueFilter{
		Bounds: models.Bounds{MinLat: -39, MaxLat: -37, MinLng: -58, MaxLng: -57},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	got, err = repo.List(context.Background(), models.RescueFilter{
		Bounds: models.Bounds{MinLat: -39, MaxLat: -37, MinLng: -58, MaxLng: -57},
		Limit:  1,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, newer.ID, got[0].ID)
}

func TestRescueRepo_ReturnsCopies(t *testing.T) {
	repo := NewRescueRepo(NewStore(0.5))
	r := newRescue(t, repo, 1, 1, t0)

	r.Message = "changed"
	got, err := repo.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Message)
}

func TestRescueRepo_SetAssignment(t *testing.T) {
	ctx := context.Background()
	repo := NewRescueRepo(NewStore(0.5))
	r := newRescue(t, repo, 1, 1, t0)

	_, err := repo.SetAssignment(ctx, r.ID, ptr[int64](7), ptr[int64](3), t0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	got, err := repo.SetAssignment(ctx, r.ID, ptr[int64](7), nil, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), *got.AssignedRescuerID)
	assert.Equal(t, r.Version+1, got.Version)

	_, err = repo.SetAssignment(ctx, r.ID, nil, ptr[int64](3), t0)
	require.ErrorIs(t, err, types.ErrAlreadyAssigned)
}

func TestRescueRepo_StaleLocation(t *testing.T) {
	ctx := context.Background()
	repo := NewRescueRepo(NewStore(0.5))
	r := newRescue(t, repo, 1, 1, t0)

	_, err := repo.UpdateRescuerLocation(ctx, r.ID, 1.1, 1.1, t0.Add(time.Minute))
	require.NoError(t, err)

	_, err = repo.UpdateRescuerLocation(ctx, r.ID, 1.2, 1.2, t0)
	require.ErrorIs(t, err, types.ErrStaleLocation)

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Minute), *got.RescuerUpdatedAt)
}

func TestTxManager_RollbackUndoesWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0.5)
	rescues := NewRescueRepo(store)
	candidates := NewCandidateRepo(store)
	tx := NewTxManager(store)

	r := newRescue(t, rescues, 1, 1, t0)
	c, err := candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr[int64](7), CreatedBy: 7})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.Do(ctx, func(ctx context.Context) error {
		if _, err := candidates.SetStatus(ctx, c.ID, types.CandidatePending, types.CandidateAccepted, t0); err != nil {
			return err
		}
		if _, err := rescues.SetAssignment(ctx, r.ID, ptr[int64](7), nil, t0); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := rescues.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAssigned())
	assert.Equal(t, r.Version, got.Version)

	gotC, err := candidates.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, gotC.IsPending())
}

func TestCandidateRepo_Uniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore(0.5)
	rescues := NewRescueRepo(store)
	candidates := NewCandidateRepo(store)
	r := newRescue(t, rescues, 1, 1, t0)

	first, err := candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr[int64](7), CreatedBy: 7})
	require.NoError(t, err)

	_, err = candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr[int64](7), CreatedBy: 7})
	require.ErrorIs(t, err, types.ErrDuplicateCandidate)

	_, err = candidates.SetStatus(ctx, first.ID, types.CandidatePending, types.CandidateRejected, t0)
	require.NoError(t, err)

	_, err = candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr[int64](7), CreatedBy: 7})
	require.NoError(t, err)

	_, err = candidates.SetStatus(ctx, first.ID, types.CandidatePending, types.CandidateRejected, t0)
	require.ErrorIs(t, err, types.ErrInvalidState)
}

func TestNotificationRepo_MarkReadOwnOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepo(NewStore(0.5))

	n, err := repo.Create(ctx, &models.Notification{UserID: 5, Type: types.NotificationAssigned})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &models.Notification{UserID: 5, Type: types.NotificationResolved})
	require.NoError(t, err)
	assert.Greater(t, second.ID, n.ID)

	_, err = repo.MarkRead(ctx, n.ID, 6)
	require.ErrorIs(t, err, types.ErrNotificationNotFound)

	_, err = repo.MarkRead(ctx, n.ID, 5)
	require.NoError(t, err)

	unread, err := repo.ListByUser(ctx, 5, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)
}

func TestThrottle_Allow(t *testing.T) {
	ctx := context.Background()
	th := NewThrottle(time.Minute)

	ok, err := th.Allow(ctx, "1:7", t0, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = th.Allow(ctx, "1:7", t0.Add(2*time.Second), 5*time.Second)
	assert.False(t, ok)

	ok, _ = th.Allow(ctx, "1:8", t0.Add(2*time.Second), 5*time.Second)
	assert.True(t, ok, "keys are independent")

	ok, _ = th.Allow(ctx, "1:7", t0.Add(5*time.Second), 5*time.Second)
	assert.True(t, ok)
}

func TestTeamDirectory(t *testing.T) {
	d := NewTeamDirectory(NewStore(0.5))
	d.AddMember(3, 7)
	d.AddMember(3, 8)
	d.AddMember(4, 7)
	d.AddMember(3, 7)

	members, err := d.Members(context.Background(), 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{7, 8}, members)

	teams, err := d.TeamsOf(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, teams)
}
