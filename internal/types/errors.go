package types

import "errors"

// Error taxonomy shared by the stores, services and handlers. Stores wrap these
// with context using fmt.Errorf("%w: ...") and callers match with errors.Is.
var (
	// ErrInvalidName is returned when a project name fails the path-safety rule
	ErrInvalidName = errors.New("invalid project name")
	// ErrInvalidInput is returned when a required field is missing or empty
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidEnum is returned when a status or priority is outside its closed set
	ErrInvalidEnum = errors.New("invalid enum value")
	// ErrNotFound is returned when a project, task or todo does not exist
	ErrNotFound = errors.New("not found")
	// ErrNameConflict is returned when a rename target already exists
	ErrNameConflict = errors.New("name conflict")
	// ErrAssetNotFound is returned when HTML references a static file that does not exist
	ErrAssetNotFound = errors.New("asset not found")
)

// IsClientError reports whether err is a deterministic rejection of the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidEnum)
}
