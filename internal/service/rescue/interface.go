package rescue

import (
	"context"
	"time"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

/*=================Rescue Repository======================*/

type RescueRepo interface {
	Create(ctx context.Context, r *models.Rescue) (*models.Rescue, error)
	Get(ctx context.Context, id int64) (*models.Rescue, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Rescue, error)
	List(ctx context.Context, f models.RescueFilter) ([]*models.Rescue, error)
	ListByActor(ctx context.Context, userID int64, teamIDs []int64, limit int) ([]*models.Rescue, error)
	Resolve(ctx context.Context, id int64, at time.Time) (*models.Rescue, error)
	SetAssignment(ctx context.Context, id int64, rescuerID, teamID *int64, at time.Time) (*models.Rescue, error)
	UpdateAssistance(ctx context.Context, id int64, u models.AssistanceUpdate, at time.Time) (*models.Rescue, error)
	Touch(ctx context.Context, id int64, at time.Time) (*models.Rescue, error)
	CountByState(ctx context.Context) (map[types.RescueState]int, error)
}

/*=================Candidate Repository===================*/

type CandidateRepo interface {
	Create(ctx context.Context, c *models.Candidate) (*models.Candidate, error)
	Get(ctx context.Context, id int64) (*models.Candidate, error)
	ListByRescue(ctx context.Context, rescueID int64) ([]*models.Candidate, error)
	FindOpen(ctx context.Context, rescueID int64, userID, teamID *int64) (*models.Candidate, error)
	SetStatus(ctx context.Context, id int64, from, to types.CandidateStatus, at time.Time) (*models.Candidate, error)
	RejectPending(ctx context.Context, rescueID, exceptID int64, at time.Time) ([]*models.Candidate, error)
}

/*=====================Collaborators======================*/

// TeamDirectory is the external team membership lookup.
type TeamDirectory interface {
	Members(ctx context.Context, teamID int64) ([]int64, error)
}

type Publisher interface {
	PublishRescueEvent(ctx context.Context, e models.RescueEvent) error
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, t types.NotificationType, data models.NotificationData) error
}

// Locker serializes mutations of one rescue across services.
type Locker interface {
	Lock(ctx context.Context, key int64) (func(), error)
}
