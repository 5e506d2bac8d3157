package groupkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for GroupKit operations.
var (
	// ErrInvalidAction is returned when an action is not one of the defined values.
	ErrInvalidAction = errors.New("groupkit: invalid action")

	// ErrInvalidResourceType is returned when a resource type is not defined.
	ErrInvalidResourceType = errors.New("groupkit: invalid resource type")

	// ErrInvalidResource is returned when a resource instance does not match
	// the resource type it is checked against. This is a contract violation,
	// not a denial.
	ErrInvalidResource = errors.New("groupkit: resource does not match resource type")

	// ErrUnauthorized is returned when an actor lacks the capability for an
	// action they attempted through a mutating operation.
	ErrUnauthorized = errors.New("groupkit: unauthorized")

	// ErrGroupNotFound is returned when an operation references a group that
	// does not exist.
	ErrGroupNotFound = errors.New("groupkit: group not found")

	// ErrPostNotFound is returned when an operation references a post that
	// does not exist.
	ErrPostNotFound = errors.New("groupkit: post not found")

	// ErrMembershipNotFound is returned when no membership record exists for
	// a (user, group) pair.
	ErrMembershipNotFound = errors.New("groupkit: membership not found")

	// ErrNotMember is returned when an operation requires an approved
	// membership the actor does not hold.
	ErrNotMember = errors.New("groupkit: not an approved member")

	// ErrNoUserID is returned when a user ID is not found in context.
	ErrNoUserID = errors.New("groupkit: no user ID in context")

	// ErrDatabaseError is returned when a store operation fails.
	ErrDatabaseError = errors.New("groupkit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err      error        // Underlying sentinel error
	Message  string       // Additional context
	GroupID  string       // Group involved (if applicable)
	UserID   string       // User involved (if applicable)
	ActorID  string       // Actor who triggered the error (if applicable)
	Action   Action       // Action involved (if applicable)
	Resource ResourceType // Resource type involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithGroup adds group information to the error.
func (e *Error) WithGroup(groupID string) *Error {
	e.GroupID = groupID
	return e
}

// WithUser adds target user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// WithActor adds acting user information to the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// WithAction adds the attempted action and resource type to the error.
func (e *Error) WithAction(action Action, resource ResourceType) *Error {
	e.Action = action
	e.Resource = resource
	return e
}

// IsUnauthorized checks if an error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound checks if an error is any of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrMembershipNotFound)
}

// IsInvalidResource checks if an error is a resource/type mismatch.
func IsInvalidResource(err error) bool {
	return errors.Is(err, ErrInvalidResource)
}

// IsDatabaseError checks if an error is an infrastructure failure.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabaseError)
}
