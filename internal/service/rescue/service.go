package rescue

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/trm"
)

type Config struct {
	DefaultLimit     int
	MaxLimit         int
	HotspotPrecision float64
}

/*
Service owns the rescue lifecycle: the record store, the candidate registry
and the assignment resolver. Every mutation of a rescue runs under the rescue's
lock and inside a transaction, and its event is published before the lock is released.
*/
type Service struct {
	repos     repos
	teams     TeamDirectory
	publisher Publisher
	notifier  Notifier
	locker    Locker
	trm       trm.TxManager
	cfg       Config
	now       func() time.Time
	l         logger.Logger
}

type repos struct {
	rescue    RescueRepo
	candidate CandidateRepo
}

func New(rescueRepo RescueRepo, candidateRepo CandidateRepo, teams TeamDirectory, publisher Publisher, notifier Notifier, locker Locker, trm trm.TxManager, cfg Config, l logger.Logger) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 500
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	return &Service{
		repos: repos{
			rescue:    rescueRepo,
			candidate: candidateRepo,
		},
		teams:     teams,
		publisher: publisher,
		notifier:  notifier,
		locker:    locker,
		trm:       trm,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		l:         l,
	}
}

// locked runs fn while holding the lock of the rescue.
func (s *Service) locked(ctx context.Context, rescueID int64, fn func(ctx context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, rescueID)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to lock rescue: %w", err))
	}
	defer unlock()

	return fn(ctx)
}

// publish hands the event to the stream hub. The mutation is already committed,
// so a failure is logged and not returned.
func (s *Service) publish(ctx context.Context, e models.RescueEvent) {
	ctx = context.WithoutCancel(ctx)
	if err := s.publisher.PublishRescueEvent(ctx, e); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish rescue event", err, "kind", e.Kind, "seq", e.Seq)
	}
}

// notify sends one notification per recipient, skipping the actor who caused it.
func (s *Service) notify(ctx context.Context, recipients []int64, actor *models.Actor, t types.NotificationType, data models.NotificationData) {
	ctx = context.WithoutCancel(ctx)
	for _, userID := range recipients {
		if actor != nil && userID == actor.UserID {
			continue
		}
		if err := s.notifier.Notify(ctx, userID, t, data); err != nil {
			s.l.Error(wrap.ErrorCtx(ctx, err), "failed to send notification", err, "type", t, "recipient", userID)
		}
	}
}

// partyOf lists the users behind a user or team: the user itself or every team member.
func (s *Service) partyOf(ctx context.Context, userID, teamID *int64) []int64 {
	if userID != nil {
		return []int64{*userID}
	}
	if teamID == nil {
		return nil
	}
	// runs after commit to address notifications
	members, err := s.teams.Members(context.WithoutCancel(ctx), *teamID)
	if err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to resolve team members", err, "team_id", *teamID)
		return nil
	}
	return members
}

// parties lists the requester and the assignee of a rescue.
func (s *Service) parties(ctx context.Context, r *models.Rescue) []int64 {
	out := []int64{r.UserID}
	for _, id := range s.partyOf(ctx, r.AssignedRescuerID, r.AssignedTeamID) {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) limit(n int) int {
	switch {
	case n <= 0:
		return s.cfg.DefaultLimit
	case n > s.cfg.MaxLimit:
		return s.cfg.MaxLimit
	default:
		return n
	}
}

func requireActor(ctx context.Context, actor *models.Actor) error {
	if actor == nil {
		return wrap.Error(ctx, types.ErrUnauthorized)
	}
	return nil
}
