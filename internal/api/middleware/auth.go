package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ev4kov/SBP-BookingEngine/internal/api/handlers"
)

type contextKey string

const staffIDKey contextKey = "staffID"

// StaffIDHeader заголовок с идентификатором сотрудника салона
const StaffIDHeader = "X-Staff-ID"

// RequireStaff пропускает только запросы с валидным X-Staff-ID.
// Аутентификацию выполняет внешний шлюз, здесь заголовку доверяем.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(StaffIDHeader)
		if raw == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "требуется заголовок X-Staff-ID")
			return
		}

		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || staffID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный X-Staff-ID")
			return
		}

		ctx := context.WithValue(r.Context(), staffIDKey, staffID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalStaff кладёт X-Staff-ID в контекст, если заголовок передан.
// Запросы без заголовка проходят как клиентские, битый заголовок отклоняется,
// чтобы сотрудник не создал бронь молча по клиентскому пути.
func OptionalStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(StaffIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		staffID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || staffID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный X-Staff-ID")
			return
		}

		ctx := context.WithValue(r.Context(), staffIDKey, staffID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffIDFromContext возвращает ID сотрудника из контекста запроса
func StaffIDFromContext(ctx context.Context) (int64, bool) {
	staffID, ok := ctx.Value(staffIDKey).(int64)
	return staffID, ok
}
