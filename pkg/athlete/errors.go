package athlete

import "errors"

var (
	// ErrValidation covers payloads missing required fields or carrying
	// values outside the accepted bounds.
	ErrValidation = errors.New("invalid athlete data")

	// ErrDuplicateCPF is returned when a create hits the unique constraint
	// on the cpf column. The HTTP layer does not distinguish it from other
	// store failures, existing consumers expect the generic envelope.
	ErrDuplicateCPF = errors.New("cpf already registered")
)
