package chessdto

// DomainError is a user-facing failure. Code is a stable machine-readable
// identifier (a move rejection reason such as "king_exposed", or
// "conflict"); Message is ready to show. Err keeps the underlying cause for
// errors.Is/As.
type DomainError struct {
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "chess service error"
}

func (e DomainError) Unwrap() error { return e.Err }
