package storage

import "errors"

var (
	ErrNotFound     = errors.New("appointment not found")
	ErrSlotConflict = errors.New("slot already booked")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrSlotConflict) }
