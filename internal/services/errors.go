package services

import "errors"

// Common service errors. Handlers map these to HTTP status codes; services
// wrap them with context via fmt.Errorf("%w: ...").
var (
	ErrValidation        = errors.New("invalid or incomplete input")
	ErrNotFound          = errors.New("record not found")
	ErrUnauthorized      = errors.New("role not permitted for this action")
	ErrInvalidState      = errors.New("invalid state transition")
	ErrClaimNotSatisfied = errors.New("actual spending data does not satisfy the claim")
	ErrDependency        = errors.New("external collaborator call failed")
)
