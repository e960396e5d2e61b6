package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
	"github.com/ev4kov/SBP-BookingEngine/internal/usecase/reschedule_booking"
	"github.com/ev4kov/SBP-BookingEngine/pkg/types"
)

// Rescheduler интерфейс use case переноса брони
type Rescheduler interface {
	Execute(ctx context.Context, req *reschedule_booking.Request) (*reschedule_booking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Proposal предварительное (оптимистичное) положение брони во время drag.
// Отдаётся клиенту для отрисовки до подтверждения сервером.
type Proposal struct {
	Command reschedule_booking.Command
	Date    time.Time
	Start   types.TimeString
	End     types.TimeString
}

// DropResult итог завершения drag: либо бронь зафиксирована в новом месте,
// либо интерфейс обязан откатить её в исходное положение.
type DropResult struct {
	Committed bool
	Reason    string            // Причина отката (пусто при успехе)
	Original  Proposal          // Исходное положение для отката
	Response  *reschedule_booking.Response
}

// dragState состояние одного перетаскивания
type dragState struct {
	bookingID int64
	staffID   *int64
	original  Proposal
	proposal  *Proposal
}

// Controller контроллер drag-and-drop перетаскивания броней в календаре.
// Оптимистичный протокол: Propose мгновенно квантует и возвращает
// предварительное положение без похода в базу, Drop выполняет настоящий
// перенос и либо фиксирует его, либо велит откатиться. На одну бронь
// допускается один drag одновременно.
type Controller struct {
	rescheduler Rescheduler
	logger      Logger
	stepMinutes int

	mu    sync.Mutex
	drags map[int64]*dragState
}

// NewController создает новый контроллер перетаскивания
func NewController(rescheduler Rescheduler, logger Logger, stepMinutes int) *Controller {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}

	return &Controller{
		rescheduler: rescheduler,
		logger:      logger,
		stepMinutes: stepMinutes,
		drags:       make(map[int64]*dragState),
	}
}

// BeginDrag начинает перетаскивание брони. Исходное положение запоминается
// для отката при неудачном Drop.
func (c *Controller) BeginDrag(bookingID int64, staffID *int64, date time.Time, start, end types.TimeString) error {
	if bookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.drags[bookingID]; ok {
		return ErrDragInProgress
	}

	c.drags[bookingID] = &dragState{
		bookingID: bookingID,
		staffID:   staffID,
		original: Proposal{
			Date:  date,
			Start: start,
			End:   end,
		},
	}

	c.logger.Info("BeginDrag: booking id=%d from %s %s-%s", bookingID, date.Format(domain.DateFormat), start, end)
	return nil
}

// Propose квантует целевое положение к сетке шага и запоминает его.
// Чисто вычислительная операция: конфликты проверяет только Drop.
func (c *Controller) Propose(bookingID int64, command reschedule_booking.Command, date time.Time, target types.TimeString) (*Proposal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.drags[bookingID]
	if !ok {
		return nil, ErrNoDrag
	}

	quantized, err := quantize(target, c.stepMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	proposal, err := c.buildProposal(state, command, date, quantized)
	if err != nil {
		return nil, err
	}

	state.proposal = proposal
	return proposal, nil
}

// buildProposal вычисляет предварительное положение по команде.
// Resize не даёт брони стать короче одного шага сетки.
func (c *Controller) buildProposal(state *dragState, command reschedule_booking.Command, date time.Time, quantized types.TimeString) (*Proposal, error) {
	orig := state.original

	durationMin, err := intervalMinutes(orig.Start, orig.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch command {
	case reschedule_booking.CommandMove:
		end, err := quantized.AddMinutes(durationMin)
		if err != nil {
			return nil, fmt.Errorf("%w: move past end of day", ErrInvalidInput)
		}
		return &Proposal{Command: command, Date: date, Start: quantized, End: end}, nil

	case reschedule_booking.CommandResizeStart:
		start := quantized
		if latest, err := orig.End.AddMinutes(-c.stepMinutes); err == nil && start.IsAfter(latest) {
			start = latest
		}
		return &Proposal{Command: command, Date: orig.Date, Start: start, End: orig.End}, nil

	case reschedule_booking.CommandResizeEnd:
		end := quantized
		if earliest, err := orig.Start.AddMinutes(c.stepMinutes); err == nil && end.IsBefore(earliest) {
			end = earliest
		}
		return &Proposal{Command: command, Date: orig.Date, Start: orig.Start, End: end}, nil

	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidInput, command)
	}
}

// Drop завершает перетаскивание: выполняет перенос в базе и возвращает
// итог. При конфликте drag снимается, а интерфейс откатывает бронь в
// исходное положение из DropResult.Original.
func (c *Controller) Drop(ctx context.Context, bookingID int64) (*DropResult, error) {
	c.mu.Lock()
	state, ok := c.drags[bookingID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrNoDrag
	}
	if state.proposal == nil {
		c.mu.Unlock()
		return nil, ErrNoProposal
	}
	// Drag снимается до похода в базу: повторный Drop не должен пройти
	delete(c.drags, bookingID)
	c.mu.Unlock()

	proposal := state.proposal

	req := &reschedule_booking.Request{
		BookingID: bookingID,
		Command:   proposal.Command,
		StaffID:   state.staffID,
	}

	switch proposal.Command {
	case reschedule_booking.CommandMove:
		date := proposal.Date
		req.NewDate = &date
		start := proposal.Start
		req.NewStart = &start
	case reschedule_booking.CommandResizeStart:
		start := proposal.Start
		req.NewStart = &start
	case reschedule_booking.CommandResizeEnd:
		end := proposal.End
		req.NewEnd = &end
	}

	resp, err := c.rescheduler.Execute(ctx, req)
	if err != nil {
		if reason, rollback := rollbackReason(err); rollback {
			c.logger.Warn("Drop: booking id=%d rolled back: %s", bookingID, reason)
			return &DropResult{
				Committed: false,
				Reason:    reason,
				Original:  state.original,
			}, nil
		}
		return nil, err
	}

	c.logger.Info("Drop: booking id=%d committed at %s %s-%s",
		bookingID, proposal.Date.Format(domain.DateFormat), proposal.Start, proposal.End)

	return &DropResult{
		Committed: true,
		Original:  state.original,
		Response:  resp,
	}, nil
}

// Cancel снимает перетаскивание без изменений в базе
func (c *Controller) Cancel(bookingID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.drags[bookingID]; !ok {
		return ErrNoDrag
	}

	delete(c.drags, bookingID)
	c.logger.Info("Cancel: drag for booking id=%d dismissed", bookingID)
	return nil
}

// rollbackReason отличает бизнес-отказы (бронь откатывается в исходное
// положение) от настоящих ошибок
func rollbackReason(err error) (string, bool) {
	switch {
	case errors.Is(err, reschedule_booking.ErrSlotNotAvailable):
		return "slot_not_available", true
	case errors.Is(err, reschedule_booking.ErrSlotHeld):
		return "slot_held", true
	case errors.Is(err, reschedule_booking.ErrNotReschedulable):
		return "not_reschedulable", true
	case errors.Is(err, reschedule_booking.ErrInvalidDate):
		return "invalid_date", true
	default:
		return "", false
	}
}

// quantize округляет время к ближайшему узлу сетки шага
func quantize(t types.TimeString, stepMinutes int) (types.TimeString, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return "", err
	}

	rounded := ((minutes + stepMinutes/2) / stepMinutes) * stepMinutes
	if rounded >= 24*60 {
		rounded = 24*60 - stepMinutes
	}

	return types.NewTimeStringFromMinutes(rounded)
}

// intervalMinutes возвращает длительность интервала в минутах
func intervalMinutes(start, end types.TimeString) (int, error) {
	s, err := start.Minutes()
	if err != nil {
		return 0, err
	}
	e, err := end.Minutes()
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, fmt.Errorf("end %s not after start %s", end, start)
	}
	return e - s, nil
}
