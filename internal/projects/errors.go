package projects

import "errors"

var (
	ErrNotFound        = errors.New("project not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrInvalidInput    = errors.New("invalid input")
	// ErrNoLedger means a rewrite was attempted without a usage ledger to debit.
	ErrNoLedger = errors.New("usage ledger not configured")
)

var (
	errScoreNotFound     = errors.New("score not found")
	errJdProfileNotFound = errors.New("jd profile not found")
)
