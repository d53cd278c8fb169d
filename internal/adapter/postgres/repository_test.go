//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	"github.com/Temutjin2k/rescue-coordination/pkg/trm"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "rescue"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := Migrate(ctx, testPool, logger.Discard()); err != nil {
		fmt.Println("Migrate:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func truncate(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE rescue_messages, rescue_candidates, rescues, notifications, team_members RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

func createRescue(t *testing.T, repo *RescueRepo, lat, lng float64, at time.Time) *models.Rescue {
	t.Helper()
	r, err := repo.Create(context.Background(), &models.Rescue{
		UserID:    1,
		Latitude:  lat,
		Longitude: lng,
		Status:    types.StatusPending,
		CreatedAt: at,
		UpdatedAt: at,
	})
	if err != nil {
		t.Fatalf("create rescue: %v", err)
	}
	return r
}

func TestMigrate_IsIdempotent(t *testing.T) {
	if err := Migrate(context.Background(), testPool, logger.Discard()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestRescueRepo_CreateAndList(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewRescueRepo(testPool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	older := createRescue(t, repo, -38.0055, -57.5426, now)
	newer := createRescue(t, repo, -38.1, -57.6, now.Add(time.Second))
	createRescue(t, repo, 10, 10, now)

	if older.Version != 1 || older.Status != types.StatusPending {
		t.Fatalf("unexpected defaults: version=%d status=%s", older.Version, older.Status)
	}

	got, err := repo.List(ctx, models.RescueFilter{
		Bounds: models.Bounds{MinLat: -39, MaxLat: -37, MinLng: -58, MaxLng: -57},
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("expected newest first [%d %d], got %v", newer.ID, older.ID, got)
	}
}

func TestRescueRepo_ListAcrossAntimeridian(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewRescueRepo(testPool)
	now := time.Now().UTC()

	east := createRescue(t, repo, 0, 179.5, now)
	west := createRescue(t, repo, 0, -179.5, now)
	createRescue(t, repo, 0, 0, now)

	got, err := repo.List(ctx, models.RescueFilter{
		Bounds: models.Bounds{MinLat: -1, MaxLat: 1, MinLng: 179, MaxLng: -179},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := map[int64]bool{}
	for _, r := range got {
		ids[r.ID] = true
	}
	if len(got) != 2 || !ids[east.ID] || !ids[west.ID] {
		t.Fatalf("expected both sides of the antimeridian, got %d rows", len(got))
	}
}

func TestRescueRepo_AssignmentGuards(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewRescueRepo(testPool)
	r := createRescue(t, repo, 0, 0, time.Now().UTC())

	assigned, err := repo.SetAssignment(ctx, r.ID, ptr[int64](7), nil, time.Now().UTC())
	if err != nil {
		t.Fatalf("set assignment: %v", err)
	}
	if assigned.Version != r.Version+1 {
		t.Fatalf("version not advanced: %d", assigned.Version)
	}

	_, err = repo.SetAssignment(ctx, r.ID, nil, ptr[int64](3), time.Now().UTC())
	if !errors.Is(err, types.ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}

	_, err = repo.SetAssignment(ctx, 999, ptr[int64](7), nil, time.Now().UTC())
	if !errors.Is(err, types.ErrRescueNotFound) {
		t.Fatalf("expected ErrRescueNotFound, got %v", err)
	}

	if _, err := repo.Resolve(ctx, r.ID, time.Now().UTC()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := repo.Resolve(ctx, r.ID, time.Now().UTC()); !errors.Is(err, types.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestRescueRepo_StaleLocationIsRejected(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewRescueRepo(testPool)
	r := createRescue(t, repo, 0, 0, time.Now().UTC())
	later := time.Now().UTC().Add(time.Minute).Truncate(time.Microsecond)

	if _, err := repo.UpdateRescuerLocation(ctx, r.ID, 0.1, 0.1, later); err != nil {
		t.Fatalf("update location: %v", err)
	}
	_, err := repo.UpdateRescuerLocation(ctx, r.ID, 0.2, 0.2, later.Add(-time.Second))
	if !errors.Is(err, types.ErrStaleLocation) {
		t.Fatalf("expected ErrStaleLocation, got %v", err)
	}

	got, err := repo.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.RescuerUpdatedAt.Equal(later) || *got.RescuerLatitude != 0.1 {
		t.Fatalf("stored position moved backwards: %v", got.RescuerUpdatedAt)
	}
}

func TestCandidateRepo_OpenCandidacyIsUnique(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	rescues := NewRescueRepo(testPool)
	candidates := NewCandidateRepo(testPool)
	r := createRescue(t, rescues, 0, 0, time.Now().UTC())
	now := time.Now().UTC()

	first, err := candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr[int64](7), CreatedBy: 7, Status: types.CandidatePending, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr[int64](7), CreatedBy: 7, Status: types.CandidatePending, CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, types.ErrDuplicateCandidate) {
		t.Fatalf("expected ErrDuplicateCandidate, got %v", err)
	}

	if _, err := candidates.SetStatus(ctx, first.ID, types.CandidatePending, types.CandidateRejected, now); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := candidates.SetStatus(ctx, first.ID, types.CandidatePending, types.CandidateRejected, now); !errors.Is(err, types.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	if _, err := candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr[int64](7), CreatedBy: 7, Status: types.CandidatePending, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("re-register after rejection: %v", err)
	}

	_, err = candidates.Create(ctx, &models.Candidate{RescueID: 999, UserID: ptr[int64](8), CreatedBy: 8, Status: types.CandidatePending, CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, types.ErrRescueNotFound) {
		t.Fatalf("expected ErrRescueNotFound, got %v", err)
	}
}

func TestAssignTransaction_ConcurrentAccepts(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	rescues := NewRescueRepo(testPool)
	candidates := NewCandidateRepo(testPool)
	tx := trm.New(testPool)
	r := createRescue(t, rescues, 0, 0, time.Now().UTC())
	now := time.Now().UTC()

	var ids []int64
	for uid := int64(10); uid < 16; uid++ {
		c, err := candidates.Create(ctx, &models.Candidate{RescueID: r.ID, UserID: ptr(uid), CreatedBy: uid, Status: types.CandidatePending, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			t.Fatalf("create candidate: %v", err)
		}
		ids = append(ids, c.ID)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := tx.Do(ctx, func(ctx context.Context) error {
				current, err := rescues.GetForUpdate(ctx, r.ID)
				if err != nil {
					return err
				}
				if current.IsAssigned() {
					return types.ErrAlreadyAssigned
				}
				c, err := candidates.SetStatus(ctx, id, types.CandidatePending, types.CandidateAccepted, now)
				if err != nil {
					return err
				}
				if _, err := candidates.RejectPending(ctx, r.ID, id, now); err != nil {
					return err
				}
				_, err = rescues.SetAssignment(ctx, r.ID, c.UserID, nil, now)
				return err
			})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}

	list, err := candidates.ListByRescue(ctx, r.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	accepted := 0
	for _, c := range list {
		if c.Status == types.CandidateAccepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Fatalf("expected one accepted candidate, got %d", accepted)
	}
}

func TestNotificationRepo(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewNotificationRepo(testPool)

	first, err := repo.Create(ctx, &models.Notification{UserID: 5, Type: types.NotificationAssigned, Title: "t", Message: "m", Data: models.NotificationData{RescueID: 1}, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.Create(ctx, &models.Notification{UserID: 5, Type: types.NotificationResolved, Title: "t", Message: "m", Data: models.NotificationData{RescueID: 1}, CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids are not monotonic: %d then %d", first.ID, second.ID)
	}

	if _, err := repo.MarkRead(ctx, first.ID, 6); !errors.Is(err, types.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if _, err := repo.MarkRead(ctx, first.ID, 5); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := repo.ListByUser(ctx, 5, true, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unread) != 1 || unread[0].ID != second.ID {
		t.Fatalf("expected only the second notification unread, got %d", len(unread))
	}
}

func TestTeamDirectory(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	if _, err := testPool.Exec(ctx, `INSERT INTO team_members (team_id, user_id) VALUES (3, 7), (3, 8), (4, 7)`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	d := NewTeamDirectory(testPool)

	members, err := d.Members(ctx, 3)
	if err != nil || len(members) != 2 {
		t.Fatalf("members: %v %v", members, err)
	}
	teams, err := d.TeamsOf(ctx, 7)
	if err != nil || len(teams) != 2 || teams[0] != 3 || teams[1] != 4 {
		t.Fatalf("teams: %v %v", teams, err)
	}
}
