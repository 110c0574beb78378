package domain

import "errors"

var (
	// ErrBoardNotFound indicates the board content could not be loaded.
	ErrBoardNotFound = errors.New("board not found")
	// ErrInvalidBoard is returned when a board has no rounds, topics or questions.
	ErrInvalidBoard = errors.New("invalid board")
	// ErrGameNotFound is returned when no game has been opened for a board.
	ErrGameNotFound = errors.New("game not found")
	// ErrUnknownCommand indicates a host sent an unsupported command type.
	ErrUnknownCommand = errors.New("unknown command")
)
