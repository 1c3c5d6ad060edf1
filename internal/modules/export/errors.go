package export

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrMissingCustomer = errors.New("customer name is required")
	ErrMissingHeader   = errors.New("header template is required")
	ErrHeaderNotFound  = errors.New("header template not found")
	ErrBadHeaderFile   = errors.New("header file must be a PDF")
)
