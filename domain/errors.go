package domain

import "fmt"

// Error kinds form the stable machine-readable taxonomy the transport layer
// maps to status codes. Messages may change; kinds must not.
const (
	KindValidation     = "VALIDATION"
	KindNotFound       = "NOT_FOUND"
	KindAuthentication = "AUTHENTICATION"
	KindAuthorization  = "AUTHORIZATION"
	KindConflict       = "CONFLICT"
	KindPersistence    = "PERSISTENCE"
)

type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }
func (e ValidationError) Kind() string  { return KindValidation }

type NotFoundError struct {
	Resource string
	Id       string
}

func (e NotFoundError) Error() string {
	if e.Id == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.Id)
}
func (e NotFoundError) Kind() string { return KindNotFound }

type AuthenticationError struct {
	Message string
	// Expired marks tokens that were valid once, so clients can prompt a
	// re-login instead of reporting a bug.
	Expired bool
}

func (e AuthenticationError) Error() string { return e.Message }
func (e AuthenticationError) Kind() string  { return KindAuthentication }

type AuthorizationError struct {
	Message string
}

func (e AuthorizationError) Error() string { return e.Message }
func (e AuthorizationError) Kind() string  { return KindAuthorization }

type ConflictError struct {
	Id string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("task %s was modified concurrently", e.Id)
}
func (e ConflictError) Kind() string { return KindConflict }

type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}
func (e PersistenceError) Kind() string  { return KindPersistence }
func (e PersistenceError) Unwrap() error { return e.Err }

func ErrTaskNotFound(id string) error {
	return NotFoundError{Resource: "task", Id: id}
}

func ErrUserNotFound(id string) error {
	return NotFoundError{Resource: "user", Id: id}
}

func ErrFieldRequired(field string) error {
	return ValidationError{Message: fmt.Sprintf("%s is required", field)}
}

func ErrInvalidStatus(s string) error {
	return ValidationError{Message: fmt.Sprintf("invalid status %q", s)}
}

func ErrInvalidPriority(s string) error {
	return ValidationError{Message: fmt.Sprintf("invalid priority %q", s)}
}

func ErrInvalidRole(s string) error {
	return ValidationError{Message: fmt.Sprintf("invalid role %q", s)}
}

func ErrUserAlreadyExists() error {
	return ValidationError{Message: "User already exists"}
}

func ErrInvalidCredentials() error {
	return AuthenticationError{Message: "incorrect email or password"}
}

func ErrUnauthorized() error {
	return AuthorizationError{Message: "Not authorized as an admin"}
}
