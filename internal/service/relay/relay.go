// Package relay accepts live positions from the party en route to a rescue.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/metrics"
	"github.com/Temutjin2k/rescue-coordination/pkg/trm"
)

const DefaultInterval = 5 * time.Second

type Service struct {
	rescues   RescueRepo
	throttle  Throttle
	publisher Publisher
	locker    Locker
	trm       trm.TxManager
	interval  time.Duration
	now       func() time.Time
	l         logger.Logger
}

func New(rescues RescueRepo, throttle Throttle, publisher Publisher, locker Locker, trm trm.TxManager, interval time.Duration, l logger.Logger) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		rescues:   rescues,
		throttle:  throttle,
		publisher: publisher,
		locker:    locker,
		trm:       trm,
		interval:  interval,
		now:       func() time.Time { return time.Now().UTC() },
		l:         l,
	}
}

// Authorize reports whether the actor may report positions for the rescue: it must be
// the assigned rescuer or a member of the assigned team, and the rescue must be open.
func (s *Service) Authorize(ctx context.Context, rescueID int64, actor *models.Actor) (bool, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "authorize_location"), rescueID)

	r, err := s.rescues.Get(ctx, rescueID)
	if err != nil {
		return false, wrap.Error(ctx, err)
	}
	return canReport(r, actor), nil
}

func canReport(r *models.Rescue, actor *models.Actor) bool {
	return r.IsAssigned() && !r.IsResolved() && r.IsAssignee(actor)
}

// Report stores the rescuer position of an assigned rescue. Reports of one actor that
// arrive within the throttle interval, or that are older than the stored position, are
// dropped without error; accepted tells the caller which case happened.
func (s *Service) Report(ctx context.Context, rescueID int64, actor *models.Actor, lat, lng float64) (accepted bool, err error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "report_location"), rescueID)
	if actor == nil {
		return false, wrap.Error(ctx, types.ErrUnauthorized)
	}
	if err := models.ValidateCoordinates(lat, lng); err != nil {
		return false, wrap.Error(ctx, err)
	}

	r, err := s.rescues.Get(ctx, rescueID)
	if err != nil {
		return false, wrap.Error(ctx, err)
	}
	if err := reportError(r, actor); err != nil {
		return false, wrap.Error(ctx, err)
	}

	now := s.now()
	allowed, err := s.throttle.Allow(ctx, throttleKey(rescueID, actor.UserID), now, s.interval)
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("failed to check location throttle: %w", err))
	}
	if !allowed {
		metrics.RecordLocationReport("throttled")
		return false, nil
	}

	unlock, err := s.locker.Lock(ctx, rescueID)
	if err != nil {
		return false, wrap.Error(ctx, fmt.Errorf("failed to lock rescue: %w", err))
	}
	defer unlock()

	var updated *models.Rescue
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		// the assignment may have changed since the first read
		current, err := s.rescues.GetForUpdate(ctx, rescueID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if err := reportError(current, actor); err != nil {
			return wrap.Error(ctx, err)
		}

		updated, err = s.rescues.UpdateRescuerLocation(ctx, rescueID, lat, lng, now)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		return nil
	})
	if errors.Is(err, types.ErrStaleLocation) {
		metrics.RecordLocationReport("stale")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	metrics.RecordLocationReport("accepted")
	e := models.NewRescueEvent(types.EventLocation, updated, models.RescuePatch{
		RescuerLatitude:  updated.RescuerLatitude,
		RescuerLongitude: updated.RescuerLongitude,
		RescuerUpdatedAt: updated.RescuerUpdatedAt,
	})
	if err := s.publisher.PublishRescueEvent(context.WithoutCancel(ctx), e); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish location event", err)
	}

	return true, nil
}

// reportError explains why the actor may not report. Resolved rescues are forbidden
// and say so.
func reportError(r *models.Rescue, actor *models.Actor) error {
	switch {
	case canReport(r, actor):
		return nil
	case r.IsResolved():
		return fmt.Errorf("%w: %w", types.ErrForbidden, types.ErrAlreadyResolved)
	default:
		return types.ErrForbidden
	}
}

// DistanceTo returns the great-circle distance in kilometers between the incident and
// the last known rescuer position, or nil if no position was reported yet.
func (s *Service) DistanceTo(ctx context.Context, rescueID int64) (*float64, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "rescuer_distance"), rescueID)

	r, err := s.rescues.Get(ctx, rescueID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !r.HasRescuerPosition() {
		return nil, nil
	}

	d := models.Haversine(r.Latitude, r.Longitude, *r.RescuerLatitude, *r.RescuerLongitude)
	return &d, nil
}

func throttleKey(rescueID, userID int64) string {
	return "location:" + strconv.FormatInt(rescueID, 10) + ":" + strconv.FormatInt(userID, 10)
}
