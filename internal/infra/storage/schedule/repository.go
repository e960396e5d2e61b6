package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/pkg/dbmetrics"
	"github.com/ev4kov/SBP-BookingEngine/pkg/psqlbuilder"
)

// Repository репозиторий окон доступности и блокировок времени
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWindowsForDate получает окна доступности мастера, действующие на дату:
// повторяющиеся окна совпадают по дню недели, разовые - по точной дате
func (r *Repository) GetWindowsForDate(ctx context.Context, teamMemberID, shopID int64, date time.Time) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"team_member_id",
		"shop_id",
		"weekday",
		"window_date",
		"start_time",
		"end_time",
		"recurring",
	).
		From("availability_windows").
		Where(squirrel.Eq{"team_member_id": teamMemberID, "shop_id": shopID}).
		Where(squirrel.Or{
			squirrel.And{squirrel.Eq{"recurring": true}, squirrel.Eq{"weekday": int(date.Weekday())}},
			squirrel.And{squirrel.Eq{"recurring": false}, squirrel.Eq{"window_date": date}},
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsForDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsForDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// ListWindows получает все окна доступности мастера в салоне
func (r *Repository) ListWindows(ctx context.Context, teamMemberID, shopID int64) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"team_member_id",
		"shop_id",
		"weekday",
		"window_date",
		"start_time",
		"end_time",
		"recurring",
	).
		From("availability_windows").
		Where(squirrel.Eq{"team_member_id": teamMemberID, "shop_id": shopID}).
		OrderBy("recurring DESC, weekday ASC NULLS LAST, window_date ASC NULLS LAST, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWindows - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// ReplaceWindows заменяет все окна доступности мастера в салоне (PUT-семантика).
// Вызывается внутри транзакции из сервиса расписаний.
func (r *Repository) ReplaceWindows(ctx context.Context, teamMemberID, shopID int64, windows []*domain.AvailabilityWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("availability_windows").
		Where(squirrel.Eq{"team_member_id": teamMemberID, "shop_id": shopID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute delete: %w", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("availability_windows").
		Columns("team_member_id", "shop_id", "weekday", "window_date", "start_time", "end_time", "recurring")

	for _, w := range windows {
		var weekday *int
		if w.Weekday != nil {
			wd := int(*w.Weekday)
			weekday = &wd
		}
		insertBuilder = insertBuilder.Values(teamMemberID, shopID, weekday, w.WindowDate, w.StartTime, w.EndTime, w.Recurring)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindows - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWindows - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetBlockedForDate получает блокировки времени мастера на дату
func (r *Repository) GetBlockedForDate(ctx context.Context, teamMemberID, shopID int64, date time.Time) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"team_member_id",
		"shop_id",
		"block_date",
		"start_time",
		"end_time",
		"reason",
	).
		From("blocked_times").
		Where(squirrel.Eq{"team_member_id": teamMemberID, "shop_id": shopID, "block_date": date}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedForDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedForDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlocked(rows)
}

// ListBlocked получает все блокировки времени мастера в салоне
func (r *Repository) ListBlocked(ctx context.Context, teamMemberID, shopID int64) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"team_member_id",
		"shop_id",
		"block_date",
		"start_time",
		"end_time",
		"reason",
	).
		From("blocked_times").
		Where(squirrel.Eq{"team_member_id": teamMemberID, "shop_id": shopID}).
		OrderBy("block_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocked - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlocked(rows)
}

// ReplaceBlocked заменяет все блокировки времени мастера в салоне (PUT-семантика)
func (r *Repository) ReplaceBlocked(ctx context.Context, teamMemberID, shopID int64, blocked []*domain.BlockedTime) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("blocked_times").
		Where(squirrel.Eq{"team_member_id": teamMemberID, "shop_id": shopID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBlocked - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceBlocked - execute delete: %w", ErrExecQuery, err)
	}

	if len(blocked) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("blocked_times").
		Columns("team_member_id", "shop_id", "block_date", "start_time", "end_time", "reason")

	for _, b := range blocked {
		insertBuilder = insertBuilder.Values(teamMemberID, shopID, b.BlockDate, b.StartTime, b.EndTime, b.Reason)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBlocked - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceBlocked - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// scanWindows сканирует результаты запроса в слайс окон доступности
func (r *Repository) scanWindows(rows *sql.Rows) ([]*domain.AvailabilityWindow, error) {
	windows := make([]*domain.AvailabilityWindow, 0)

	for rows.Next() {
		var window domain.AvailabilityWindow
		var weekday sql.NullInt64
		var windowDate sql.NullTime

		err := rows.Scan(
			&window.ID,
			&window.TeamMemberID,
			&window.ShopID,
			&weekday,
			&windowDate,
			&window.StartTime,
			&window.EndTime,
			&window.Recurring,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %w", ErrScanRow, err)
		}

		if weekday.Valid {
			wd := time.Weekday(weekday.Int64)
			window.Weekday = &wd
		}
		if windowDate.Valid {
			d := windowDate.Time
			window.WindowDate = &d
		}

		windows = append(windows, &window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %w", ErrScanRow, err)
	}

	return windows, nil
}

// scanBlocked сканирует результаты запроса в слайс блокировок
func (r *Repository) scanBlocked(rows *sql.Rows) ([]*domain.BlockedTime, error) {
	blocked := make([]*domain.BlockedTime, 0)

	for rows.Next() {
		var block domain.BlockedTime

		err := rows.Scan(
			&block.ID,
			&block.TeamMemberID,
			&block.ShopID,
			&block.BlockDate,
			&block.StartTime,
			&block.EndTime,
			&block.Reason,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBlocked - scan row: %w", ErrScanRow, err)
		}

		blocked = append(blocked, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlocked - rows error: %w", ErrScanRow, err)
	}

	return blocked, nil
}
