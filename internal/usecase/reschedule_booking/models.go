package reschedule_booking

import (
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/service/bookings/models"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Command вид изменения расписания брони
type Command string

const (
	// CommandMove переносит бронь на новое время (и, возможно, дату),
	// сохраняя длительность
	CommandMove Command = "move"

	// CommandResizeStart двигает начало брони, сохраняя конец
	CommandResizeStart Command = "resize_start"

	// CommandResizeEnd двигает конец брони, сохраняя начало
	CommandResizeEnd Command = "resize_end"
)

// Request модель запроса на перенос или изменение длительности брони
type Request struct {
	BookingID int64             // ID брони
	Command   Command           // Вид изменения
	NewDate   *time.Time        // Новая дата (только для move, по умолчанию прежняя)
	NewStart  *types.TimeString // Новое начало (move, resize_start)
	NewEnd    *types.TimeString // Новый конец (resize_end)
	StaffID   *int64            // ID сотрудника: staff-путь не требует рабочего окна
}

// Response модель ответа с обновлённой бронью
type Response struct {
	Booking *models.BookingResponse `json:"booking"`
}
