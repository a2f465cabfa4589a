// Package errors defines the error kinds shared by every vcadm command.
//
// Four kinds exist:
//
//	┌──────────────────────┬────────────────────────────────────────────────┐
//	│ Kind                 │ Meaning                                        │
//	├──────────────────────┼────────────────────────────────────────────────┤
//	│ ResolutionError      │ a name did not resolve to exactly one object   │
//	│ RemoteOperationError │ vCenter rejected or failed a mutation          │
//	│ PreconditionError    │ a check failed before any mutation was issued  │
//	│ NotFoundWarning      │ a query matched nothing (empty result, exit 0) │
//	└──────────────────────┴────────────────────────────────────────────────┘
//
// Query commands either return a full result set or fail with a
// ResolutionError; only the datastore evacuation executor tolerates partial
// failure, attributing each RemoteOperationError to its object.
package errors

import (
	"errors"
	"fmt"
)

// ResolutionError reports a named object that resolved to zero or more than
// one inventory match.
type ResolutionError struct {
	Kind    string
	Name    string
	Matches int
}

func (e *ResolutionError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q is ambiguous: %d matches", e.Kind, e.Name, e.Matches)
}

// NewResolutionError creates a ResolutionError for the given object kind and
// name. matches is the number of inventory objects the name resolved to.
func NewResolutionError(kind, name string, matches int) error {
	return &ResolutionError{Kind: kind, Name: name, Matches: matches}
}

// IsResolutionError reports whether err is a ResolutionError.
func IsResolutionError(err error) bool {
	var e *ResolutionError
	return errors.As(err, &e)
}

// RemoteOperationError attributes a failed vCenter operation to the inventory
// object it was issued against.
type RemoteOperationError struct {
	Object string
	Op     string
	Err    error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Op, e.Object, e.Err)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

// NewRemoteOperationError wraps err as a RemoteOperationError for the given
// operation and object name.
func NewRemoteOperationError(op, object string, err error) error {
	return &RemoteOperationError{Object: object, Op: op, Err: err}
}

// IsRemoteOperationError reports whether err is a RemoteOperationError.
func IsRemoteOperationError(err error) bool {
	var e *RemoteOperationError
	return errors.As(err, &e)
}

// PreconditionError reports a check that failed before any mutation was
// attempted, e.g. copying a role onto a name that already exists.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// NewPreconditionError creates a PreconditionError with a formatted reason.
func NewPreconditionError(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// IsPreconditionError reports whether err is a PreconditionError.
func IsPreconditionError(err error) bool {
	var e *PreconditionError
	return errors.As(err, &e)
}

// NotFoundWarning signals an empty query result. Commands render it as a
// warning and exit successfully with an empty result set.
type NotFoundWarning struct {
	Query string
}

func (e *NotFoundWarning) Error() string {
	return fmt.Sprintf("no objects matched %s", e.Query)
}

// NewNotFoundWarning creates a NotFoundWarning describing the query that
// matched nothing.
func NewNotFoundWarning(query string) error {
	return &NotFoundWarning{Query: query}
}

// IsNotFoundWarning reports whether err is a NotFoundWarning.
func IsNotFoundWarning(err error) bool {
	var e *NotFoundWarning
	return errors.As(err, &e)
}
