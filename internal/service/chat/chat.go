// Package chat scopes rescue conversations to the requester and the assignee.
package chat

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
	"github.com/Temutjin2k/rescue-coordination/pkg/trm"
)

const DefaultMaxLength = 2000

type Service struct {
	rescues   RescueRepo
	messages  MessageRepo
	teams     TeamDirectory
	publisher Publisher
	notifier  Notifier
	locker    Locker
	trm       trm.TxManager
	maxLength int
	now       func() time.Time
	l         logger.Logger
}

func New(rescues RescueRepo, messages MessageRepo, teams TeamDirectory, publisher Publisher, notifier Notifier, locker Locker, trm trm.TxManager, maxLength int, l logger.Logger) *Service {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Service{
		rescues:   rescues,
		messages:  messages,
		teams:     teams,
		publisher: publisher,
		notifier:  notifier,
		locker:    locker,
		trm:       trm,
		maxLength: maxLength,
		now:       func() time.Time { return time.Now().UTC() },
		l:         l,
	}
}

// CanChat reports whether the rescue has an assignee and the actor is the requester,
// the assigned rescuer or a member of the assigned team. Resolution does not revoke it.
func (s *Service) CanChat(ctx context.Context, rescueID int64, actor *models.Actor) (bool, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "can_chat"), rescueID)

	r, err := s.rescues.Get(ctx, rescueID)
	if err != nil {
		return false, wrap.Error(ctx, err)
	}
	return canChat(r, actor), nil
}

func canChat(r *models.Rescue, actor *models.Actor) bool {
	return r.IsAssigned() && r.IsParty(actor)
}

// Post appends a message. Resolved rescues keep their history but take no new messages.
func (s *Service) Post(ctx context.Context, rescueID int64, actor *models.Actor, content string) (*models.ChatMessage, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "post_message"), rescueID)
	if actor == nil {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, wrap.Error(ctx, types.ErrEmptyContent)
	}
	if utf8.RuneCountInString(content) > s.maxLength {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: at most %d characters", types.ErrContentTooLong, s.maxLength))
	}

	unlock, err := s.locker.Lock(ctx, rescueID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to lock rescue: %w", err))
	}
	defer unlock()

	var (
		message *models.ChatMessage
		rescue  *models.Rescue
	)
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		r, err := s.rescues.GetForUpdate(ctx, rescueID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if !canChat(r, actor) {
			return wrap.Error(ctx, types.ErrForbidden)
		}
		if r.IsResolved() {
			return wrap.Error(ctx, types.ErrAlreadyResolved)
		}

		now := s.now()
		message, err = s.messages.Create(ctx, &models.ChatMessage{
			RescueID:  rescueID,
			AuthorID:  actor.UserID,
			Content:   content,
			CreatedAt: now,
		})
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to store message: %w", err))
		}
		if rescue, err = s.rescues.Touch(ctx, rescueID, now); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to advance rescue version: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e := models.NewRescueEvent(types.EventMessage, rescue, models.RescuePatch{ChatMessage: message}).
		ForParties(rescue.Audience())
	// committed: publish and notify even if the caller has gone away
	ctx = context.WithoutCancel(ctx)
	if err := s.publisher.PublishRescueEvent(ctx, e); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to publish message event", err)
	}
	// notifications do not need the rescue lock; the deferred unlock is a no-op now
	unlock()

	s.notifyParties(ctx, rescue, actor, message)
	return message, nil
}

func (s *Service) notifyParties(ctx context.Context, r *models.Rescue, actor *models.Actor, m *models.ChatMessage) {
	recipients := []int64{r.UserID}
	if r.AssignedRescuerID != nil {
		recipients = append(recipients, *r.AssignedRescuerID)
	}
	if r.AssignedTeamID != nil {
		members, err := s.teams.Members(ctx, *r.AssignedTeamID)
		if err != nil {
			s.l.Error(wrap.ErrorCtx(ctx, err), "failed to resolve team members", err, "team_id", *r.AssignedTeamID)
		}
		recipients = append(recipients, members...)
	}

	slices.Sort(recipients)
	for _, userID := range slices.Compact(recipients) {
		if userID == actor.UserID {
			continue
		}
		err := s.notifier.Notify(ctx, userID, types.NotificationMessage, models.NotificationData{
			RescueID:  r.ID,
			TeamID:    r.AssignedTeamID,
			MessageID: &m.ID,
		})
		if err != nil {
			s.l.Error(wrap.ErrorCtx(ctx, err), "failed to send notification", err, "recipient", userID)
		}
	}
}

// List returns the conversation in creation order.
func (s *Service) List(ctx context.Context, rescueID int64, actor *models.Actor) ([]*models.ChatMessage, error) {
	ctx = wrap.WithRescueID(wrap.WithAction(ctx, "list_messages"), rescueID)
	if actor == nil {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	ok, err := s.CanChat(ctx, rescueID, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, wrap.Error(ctx, types.ErrForbidden)
	}

	messages, err := s.messages.ListByRescue(ctx, rescueID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list messages: %w", err))
	}
	return messages, nil
}
