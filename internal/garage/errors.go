package garage

import "errors"

// Failure modes surfaced by the ledger and settlement logic. The HTTP
// layer maps each to a status code with errors.Is.
var (
	ErrLotFull        = errors.New("lot full")
	ErrLotEmpty       = errors.New("lot is empty")
	ErrTicketNotFound = errors.New("ticket number not found")
	ErrTicketMismatch = errors.New("ticket number does not match payment")
	ErrMissingCard    = errors.New("credit card number is required")
	ErrInvalidCard    = errors.New("credit card could not be verified")
)
