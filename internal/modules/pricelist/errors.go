package pricelist

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("price list not found")
	ErrSheetNotFound    = errors.New("rate sheet not found")
	ErrUnknownGroup     = errors.New("unknown group/subsection")
	ErrUnknownItem      = errors.New("item does not belong to this sheet")
	ErrUnknownTransport = errors.New("unknown delivery type")
	ErrFixedTransport   = errors.New("transport charge is not editable")
	ErrSheetMismatch    = errors.New("snapshot was taken against a different sheet")
)
