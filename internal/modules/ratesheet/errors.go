package ratesheet

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptySheet     = errors.New("sheet has no data rows")
	ErrDuplicateName  = errors.New("sheet name already exists")
	ErrNotFound       = errors.New("sheet not found")
)
