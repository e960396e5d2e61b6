package hold

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

// Repository репозиторий холдов.
// session_id - первичный ключ таблицы, поэтому у сессии физически не может
// быть двух холдов: выбор другого слота превращается в UPSERT.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает холд сессии или заменяет существующий (replace-семантика).
// Обязан вызываться внутри сериализуемой транзакции вместе с проверкой
// пересечений - это единственный критичный к гонкам путь движка.
func (r *Repository) Upsert(ctx context.Context, h *domain.Hold) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holds").
		Columns(
			"session_id",
			"team_member_id",
			"shop_id",
			"hold_date",
			"start_time",
			"end_time",
			"expires_at",
		).
		Values(
			h.SessionID,
			h.TeamMemberID,
			h.ShopID,
			h.HoldDate,
			h.StartTime,
			h.EndTime,
			h.ExpiresAt,
		).
		Suffix(`ON CONFLICT (session_id) DO UPDATE SET
			team_member_id = EXCLUDED.team_member_id,
			shop_id = EXCLUDED.shop_id,
			hold_date = EXCLUDED.hold_date,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			expires_at = EXCLUDED.expires_at,
			created_at = NOW()`).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	h.CreatedAt = createdAt.Time

	return h, nil
}

// GetBySession получает холд сессии независимо от срока действия.
// Проверка истечения выполняется вызывающей стороной через Hold.IsExpired.
func (r *Repository) GetBySession(ctx context.Context, sessionID string) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"session_id",
		"team_member_id",
		"shop_id",
		"hold_date",
		"start_time",
		"end_time",
		"expires_at",
		"created_at",
	).
		From("holds").
		Where(squirrel.Eq{"session_id": sessionID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySession - build select query: %w", ErrBuildQuery, err)
	}

	var h domain.Hold
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&h.SessionID,
		&h.TeamMemberID,
		&h.ShopID,
		&h.HoldDate,
		&h.StartTime,
		&h.EndTime,
		&h.ExpiresAt,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySession - scan hold: %w", ErrScanRow, err)
	}

	h.CreatedAt = createdAt.Time

	return &h, nil
}

// GetLiveByMemberAndDate получает живые (не истёкшие к now) холды мастера на дату.
// Истечение ленивое: фильтр по expires_at делает протухшие строки невидимыми
// ещё до того, как их удалит фоновая уборка. Внутри транзакции строки
// блокируются FOR UPDATE.
func (r *Repository) GetLiveByMemberAndDate(ctx context.Context, teamMemberID int64, date time.Time, now time.Time) ([]*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"session_id",
		"team_member_id",
		"shop_id",
		"hold_date",
		"start_time",
		"end_time",
		"expires_at",
		"created_at",
	).
		From("holds").
		Where(squirrel.Eq{"team_member_id": teamMemberID, "hold_date": date}).
		Where(squirrel.Gt{"expires_at": now}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLiveByMemberAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetLiveByMemberAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	holds := make([]*domain.Hold, 0)

	for rows.Next() {
		var h domain.Hold
		var createdAt sql.NullTime

		err := rows.Scan(
			&h.SessionID,
			&h.TeamMemberID,
			&h.ShopID,
			&h.HoldDate,
			&h.StartTime,
			&h.EndTime,
			&h.ExpiresAt,
			&createdAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: GetLiveByMemberAndDate - scan row: %w", ErrScanRow, err)
		}

		h.CreatedAt = createdAt.Time
		holds = append(holds, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetLiveByMemberAndDate - rows error: %w", ErrScanRow, err)
	}

	return holds, nil
}

// DeleteBySession удаляет холд сессии. Идемпотентно: отсутствие холда не ошибка.
func (r *Repository) DeleteBySession(ctx context.Context, sessionID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holds").
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBySession - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteBySession - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// DeleteExpired удаляет истёкшие к now холды и возвращает количество удалённых.
// Вызывается фоновой уборкой; корректность от неё не зависит.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holds").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %w", ErrExecQuery, err)
	}

	return deleted, nil
}
