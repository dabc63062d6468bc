package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInsufficientData = errors.New("insufficient market data")
)
