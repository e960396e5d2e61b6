package calendar

import "errors"

var (
	// ErrDragInProgress возвращается при попытке начать второй drag той же брони
	ErrDragInProgress = errors.New("drag already in progress for this booking")

	// ErrNoDrag возвращается, когда drag для брони не начат
	ErrNoDrag = errors.New("no drag in progress for this booking")

	// ErrNoProposal возвращается при Drop без единого Propose
	ErrNoProposal = errors.New("nothing proposed for this drag")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid drag input")
)
