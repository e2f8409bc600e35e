package db

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	_, ok := err.(*DuplicateKeyError)
	return ok
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// OutcomeConflictError is returned when a terminal outcome write finds a
// previously recorded outcome for the same request. Outcomes are immutable
// once written.
type OutcomeConflictError struct {
	Key     string
	Message string
}

func (e *OutcomeConflictError) Error() string {
	return e.Message
}

func IsOutcomeConflictError(err error) bool {
	_, ok := err.(*OutcomeConflictError)
	return ok
}
