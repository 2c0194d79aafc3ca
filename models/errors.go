package models

import (
	"fmt"
	"strings"
)

// DataUnavailableError means the price source returned nothing usable.
// The data provider degrades to a synthetic series, so this is never fatal.
type DataUnavailableError struct {
	Symbol string
	Reason string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("market data unavailable for %s: %s", e.Symbol, e.Reason)
}

// ModelInvocationError means the hosted model could not be asked: timeout,
// network or auth failure. Distinct from getting a malformed answer back.
type ModelInvocationError struct {
	Role string
	Err  error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed for %s: %v", e.Role, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// SchemaValidationError means the model answered but the response does not
// match the role's output schema. Fails closed, never coerced.
type SchemaValidationError struct {
	Role   string
	Detail string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation failed for %s: %s", e.Role, e.Detail)
}

// PrerequisiteNotMetError means a pipeline step was attempted before its
// upstream roles completed. Missing holds display names of the absent roles.
type PrerequisiteNotMetError struct {
	Role    string
	Missing []string
}

func (e *PrerequisiteNotMetError) Error() string {
	return fmt.Sprintf("cannot run %s: missing prerequisite agents: %s",
		e.Role, strings.Join(e.Missing, ", "))
}

// StorageError wraps a persistence failure. The pipeline logs these and
// continues; the step result that was already computed stays valid.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
