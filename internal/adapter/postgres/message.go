package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/postgres"
)

type MessageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepo(db *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, m *models.ChatMessage) (_ *models.ChatMessage, err error) {
	const op = "MessageRepo.Create"
	defer observe(op, time.Now(), &err)

	query := `
		INSERT INTO rescue_messages (rescue_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	created := *m
	err = TxorDB(ctx, r.db).QueryRow(ctx, query, m.RescueID, m.AuthorID, m.Content, m.CreatedAt).Scan(&created.ID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return nil, types.ErrRescueNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// ListByRescue returns the conversation in creation order.
func (r *MessageRepo) ListByRescue(ctx context.Context, rescueID int64) (_ []*models.ChatMessage, err error) {
	const op = "MessageRepo.ListByRescue"
	defer observe(op, time.Now(), &err)

	rows, err := TxorDB(ctx, r.db).Query(ctx, `
		SELECT id, rescue_id, author_id, content, created_at
		FROM rescue_messages
		WHERE rescue_id = $1
		ORDER BY created_at, id`, rescueID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.RescueID, &m.AuthorID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
