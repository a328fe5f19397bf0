package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced holding, transaction or record is absent
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input is rejected before any state is touched
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the holding's available gross value
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotRateIndexed is returned when a rate-only computation is asked for a price-quoted holding
	ErrNotRateIndexed = errors.New("holding is not rate-indexed")
)
