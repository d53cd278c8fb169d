package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

const rescueColumns = `id, user_id, latitude, longitude, message, status,
	vehicle_type, drivetrain, terrain_type, problem_type,
	assistance_status, assistance_channel, assistance_provider,
	assigned_rescuer_id, assigned_team_id,
	rescuer_latitude, rescuer_longitude, rescuer_updated_at,
	version, created_at, updated_at`

type RescueRepo struct {
	db *pgxpool.Pool
}

func NewRescueRepo(db *pgxpool.Pool) *RescueRepo {
	return &RescueRepo{db: db}
}

func scanRescue(row pgx.Row) (*models.Rescue, error) {
	var r models.Rescue
	err := row.Scan(
		&r.ID, &r.UserID, &r.Latitude, &r.Longitude, &r.Message, &r.Status,
		&r.VehicleType, &r.Drivetrain, &r.TerrainType, &r.ProblemType,
		&r.AssistanceStatus, &r.AssistanceChannel, &r.AssistanceProvider,
		&r.AssignedRescuerID, &r.AssignedTeamID,
		&r.RescuerLatitude, &r.RescuerLongitude, &r.RescuerUpdatedAt,
		&r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RescueRepo) Create(ctx context.Context, rescue *models.Rescue) (_ *models.Rescue, err error) {
	const op = "RescueRepo.Create"
	defer observe(op, time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO rescues (user_id, latitude, longitude, message, status,
			vehicle_type, drivetrain, terrain_type, problem_type,
			assistance_status, assistance_channel, assistance_provider,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + rescueColumns

	created, err := scanRescue(q.QueryRow(ctx, query,
		rescue.UserID, rescue.Latitude, rescue.Longitude, rescue.Message, rescue.Status,
		rescue.VehicleType, rescue.Drivetrain, rescue.TerrainType, rescue.ProblemType,
		rescue.AssistanceStatus, rescue.AssistanceChannel, rescue.AssistanceProvider,
		rescue.CreatedAt, rescue.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (r *RescueRepo) Get(ctx context.Context, id int64) (_ *models.Rescue, err error) {
	const op = "RescueRepo.Get"
	defer observe(op, time.Now(), &err)

	return r.get(ctx, op, `SELECT `+rescueColumns+` FROM rescues WHERE id = $1`, id)
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *RescueRepo) GetForUpdate(ctx context.Context, id int64) (_ *models.Rescue, err error) {
	const op = "RescueRepo.GetForUpdate"
	defer observe(op, time.Now(), &err)

	return r.get(ctx, op, `SELECT `+rescueColumns+` FROM rescues WHERE id = $1 FOR UPDATE`, id)
}

func (r *RescueRepo) get(ctx context.Context, op, query string, id int64) (*models.Rescue, error) {
	rescue, err := scanRescue(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRescueNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rescue, nil
}

// List returns rescues inside the bounds matching the filter, newest first.
func (r *RescueRepo) List(ctx context.Context, f models.RescueFilter) (_ []*models.Rescue, err error) {
	const op = "RescueRepo.List"
	defer observe(op, time.Now(), &err)

	where, args := filterClause(f)
	query := `SELECT ` + rescueColumns + ` FROM rescues WHERE ` + where + ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	return r.list(ctx, op, query, args...)
}

// ListByActor returns rescues requested by the user or assigned to the user or one of the teams.
func (r *RescueRepo) ListByActor(ctx context.Context, userID int64, teamIDs []int64, limit int) (_ []*models.Rescue, err error) {
	const op = "RescueRepo.ListByActor"
	defer observe(op, time.Now(), &err)

	if teamIDs == nil {
		teamIDs = []int64{}
	}
	query := `
		SELECT ` + rescueColumns + ` FROM rescues
		WHERE user_id = $1 OR assigned_rescuer_id = $1 OR assigned_team_id = ANY($2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	return r.list(ctx, op, query, userID, teamIDs, limit)
}

func (r *RescueRepo) list(ctx context.Context, op, query string, args ...any) ([]*models.Rescue, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.Rescue
	for rows.Next() {
		rescue, err := scanRescue(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, rescue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// filterClause renders the filter as a WHERE clause with positional arguments.
func filterClause(f models.RescueFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conds = append(conds, "latitude BETWEEN "+arg(f.Bounds.MinLat)+" AND "+arg(f.Bounds.MaxLat))
	if f.Bounds.CrossesAntimeridian() {
		conds = append(conds, "(longitude >= "+arg(f.Bounds.MinLng)+" OR longitude <= "+arg(f.Bounds.MaxLng)+")")
	} else {
		conds = append(conds, "longitude BETWEEN "+arg(f.Bounds.MinLng)+" AND "+arg(f.Bounds.MaxLng))
	}

	exact := []struct {
		column string
		value  string
	}{
		{"vehicle_type", string(f.VehicleType)},
		{"drivetrain", string(f.Drivetrain)},
		{"terrain_type", string(f.TerrainType)},
		{"problem_type", string(f.ProblemType)},
		{"assistance_status", string(f.AssistanceStatus)},
		{"assistance_channel", string(f.AssistanceChannel)},
		{"status", string(f.Status)},
	}
	for _, e := range exact {
		if e.value != "" {
			conds = append(conds, e.column+" = "+arg(e.value))
		}
	}
	if f.From != nil {
		conds = append(conds, "created_at >= "+arg(*f.From))
	}

	return strings.Join(conds, " AND "), args
}

func (r *RescueRepo) Resolve(ctx context.Context, id int64, at time.Time) (_ *models.Rescue, err error) {
	const op = "RescueRepo.Resolve"
	defer observe(op, time.Now(), &err)

	query := `
		UPDATE rescues
		SET status = 'resolved', assistance_status = 'resolved', version = version + 1, updated_at = $2
		WHERE id = $1 AND status <> 'resolved'
		RETURNING ` + rescueColumns

	return r.update(ctx, op, id, types.ErrAlreadyResolved, query, id, at)
}

// SetAssignment binds the rescue to exactly one of rescuerID or teamID. A rescue that
// already has an assignee is left untouched and ErrAlreadyAssigned is returned.
func (r *RescueRepo) SetAssignment(ctx context.Context, id int64, rescuerID, teamID *int64, at time.Time) (_ *models.Rescue, err error) {
	const op = "RescueRepo.SetAssignment"
	defer observe(op, time.Now(), &err)

	if (rescuerID == nil) == (teamID == nil) {
		return nil, fmt.Errorf("%w: exactly one of rescuer or team must be assigned", types.ErrInvalidState)
	}

	query := `
		UPDATE rescues
		SET assigned_rescuer_id = $2, assigned_team_id = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND assigned_rescuer_id IS NULL AND assigned_team_id IS NULL
		RETURNING ` + rescueColumns

	return r.update(ctx, op, id, types.ErrAlreadyAssigned, query, id, rescuerID, teamID, at)
}

func (r *RescueRepo) UpdateAssistance(ctx context.Context, id int64, u models.AssistanceUpdate, at time.Time) (_ *models.Rescue, err error) {
	const op = "RescueRepo.UpdateAssistance"
	defer observe(op, time.Now(), &err)

	query := `
		UPDATE rescues
		SET assistance_status   = COALESCE($2::text, assistance_status),
		    assistance_channel  = COALESCE($3::text, assistance_channel),
		    assistance_provider = COALESCE($4::text, assistance_provider),
		    version = version + 1, updated_at = $5
		WHERE id = $1
		RETURNING ` + rescueColumns

	return r.update(ctx, op, id, types.ErrRescueNotFound, query, id, u.Status, u.Channel, u.Provider, at)
}

// UpdateRescuerLocation overwrites the rescuer position unless a newer one is stored,
// so rescuer_updated_at never moves backwards.
func (r *RescueRepo) UpdateRescuerLocation(ctx context.Context, id int64, lat, lng float64, at time.Time) (_ *models.Rescue, err error) {
	const op = "RescueRepo.UpdateRescuerLocation"
	defer observe(op, time.Now(), &err)

	query := `
		UPDATE rescues
		SET rescuer_latitude = $2, rescuer_longitude = $3, rescuer_updated_at = $4,
		    version = version + 1, updated_at = $4
		WHERE id = $1 AND (rescuer_updated_at IS NULL OR rescuer_updated_at <= $4)
		RETURNING ` + rescueColumns

	return r.update(ctx, op, id, types.ErrStaleLocation, query, id, lat, lng, at)
}

// Touch advances the version of a rescue whose candidates or messages changed.
func (r *RescueRepo) Touch(ctx context.Context, id int64, at time.Time) (_ *models.Rescue, err error) {
	const op = "RescueRepo.Touch"
	defer observe(op, time.Now(), &err)

	query := `UPDATE rescues SET version = version + 1, updated_at = $2 WHERE id = $1 RETURNING ` + rescueColumns
	return r.update(ctx, op, id, types.ErrRescueNotFound, query, id, at)
}

// update runs a guarded UPDATE ... RETURNING. When no row comes back it tells a missing
// rescue apart from a failed guard, which is reported as guardErr.
func (r *RescueRepo) update(ctx context.Context, op string, id int64, guardErr error, query string, args ...any) (*models.Rescue, error) {
	q := TxorDB(ctx, r.db)

	rescue, err := scanRescue(q.QueryRow(ctx, query, args...))
	if err == nil {
		return rescue, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rescues WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, types.ErrRescueNotFound
	}
	return nil, guardErr
}

func (r *RescueRepo) CountByState(ctx context.Context) (_ map[types.RescueState]int, err error) {
	const op = "RescueRepo.CountByState"
	defer observe(op, time.Now(), &err)

	query := `
		SELECT CASE
			WHEN status = 'resolved' THEN 'resolved'
			WHEN assigned_rescuer_id IS NOT NULL OR assigned_team_id IS NOT NULL THEN 'assigned'
			ELSE 'open'
		END AS state, COUNT(*)
		FROM rescues
		GROUP BY 1`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	counts := make(map[types.RescueState]int, 3)
	for rows.Next() {
		var (
			state string
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		counts[types.RescueState(state)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return counts, nil
}
