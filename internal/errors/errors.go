package errors

import "fmt"

type DatabaseError struct {
	Operation string
	Err       error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource   string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Identifier)
}

// ValidationError reports a malformed or out-of-range request value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientFundsError reports a purchase or mint the caller cannot afford.
// Currency is "nfts" or "points".
type InsufficientFundsError struct {
	Currency  string
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("not enough %s: need %d, have %d", e.Currency, e.Required, e.Available)
}

type MaxLevelError struct {
	Booster string
}

func (e *MaxLevelError) Error() string {
	return fmt.Sprintf("maximum level reached for booster %s", e.Booster)
}

// QuotaExceededError reports an exhausted daily mint allotment.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily mint quota exhausted (limit %d)", e.Limit)
}

type ChainError struct {
	Operation string
	Err       error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain error during %s: %v", e.Operation, e.Err)
}

type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s - %v", e.StatusCode, e.Message, e.Err)
}

type WebSocketError struct {
	Operation string
	Err       error
}

func (e *WebSocketError) Error() string {
	return fmt.Sprintf("WebSocket error during %s: %v", e.Operation, e.Err)
}
