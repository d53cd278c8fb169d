package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

const notificationColumns = `id, user_id, type, title, message, rescue_id, team_id, candidate_id, message_id, read, created_at`

type NotificationRepo struct {
	db *pgxpool.Pool
}

func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
		&n.Data.RescueID, &n.Data.TeamID, &n.Data.CandidateID, &n.Data.MessageID,
		&n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) (_ *models.Notification, err error) {
	const op = "NotificationRepo.Create"
	defer observe(op, time.Now(), &err)

	query := `
		INSERT INTO notifications (user_id, type, title, message, rescue_id, team_id, candidate_id, message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + notificationColumns

	created, err := scanNotification(TxorDB(ctx, r.db).QueryRow(ctx, query,
		n.UserID, n.Type, n.Title, n.Message,
		n.Data.RescueID, n.Data.TeamID, n.Data.CandidateID, n.Data.MessageID,
		n.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ListByUser returns the newest notifications of the user first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) (_ []*models.Notification, err error) {
	const op = "NotificationRepo.ListByUser"
	defer observe(op, time.Now(), &err)

	query := `
		SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT read)
		ORDER BY id DESC
		LIMIT $3`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// MarkRead flags the notification as read. Notifications of other users are not found.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) (_ *models.Notification, err error) {
	const op = "NotificationRepo.MarkRead"
	defer observe(op, time.Now(), &err)

	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2 RETURNING ` + notificationColumns

	n, err := scanNotification(TxorDB(ctx, r.db).QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
