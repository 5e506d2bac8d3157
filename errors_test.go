package groupkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrorError tests error message formatting
func TestErrorError(t *testing.T) {
	err := NewError(ErrGroupNotFound, "group abc")
	assert.Equal(t, "groupkit: group not found: group abc", err.Error())

	bare := NewError(ErrUnauthorized, "")
	assert.Equal(t, "groupkit: unauthorized", bare.Error())
}

// TestErrorUnwrap tests unwrapping to the sentinel
func TestErrorUnwrap(t *testing.T) {
	err := NewError(ErrMembershipNotFound, "no record")

	assert.Equal(t, ErrMembershipNotFound, err.Unwrap())
	assert.ErrorIs(t, err, ErrMembershipNotFound)
	assert.NotErrorIs(t, err, ErrGroupNotFound)

	// Works through further wrapping
	wrapped := fmt.Errorf("request failed: %w", err)
	assert.ErrorIs(t, wrapped, ErrMembershipNotFound)
}

// TestErrorWithContext tests the fluent context methods
func TestErrorWithContext(t *testing.T) {
	err := NewError(ErrUnauthorized, "missing capability").
		WithGroup("group1").
		WithUser("user1").
		WithActor("actor1").
		WithAction(ActionManage, ResourceGroup)

	assert.Equal(t, "group1", err.GroupID)
	assert.Equal(t, "user1", err.UserID)
	assert.Equal(t, "actor1", err.ActorID)
	assert.Equal(t, ActionManage, err.Action)
	assert.Equal(t, ResourceGroup, err.Resource)

	// Context survives errors.As
	var gkErr *Error
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &gkErr))
	assert.Equal(t, "group1", gkErr.GroupID)
}

// TestIsUnauthorized tests the unauthorized classifier
func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.True(t, IsUnauthorized(NewError(ErrUnauthorized, "nope")))
	assert.False(t, IsUnauthorized(ErrGroupNotFound))
	assert.False(t, IsUnauthorized(nil))
}

// TestIsNotFound tests the not-found classifier across entity types
func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrGroupNotFound))
	assert.True(t, IsNotFound(ErrPostNotFound))
	assert.True(t, IsNotFound(ErrMembershipNotFound))
	assert.True(t, IsNotFound(NewError(ErrGroupNotFound, "gone")))
	assert.False(t, IsNotFound(ErrUnauthorized))
	assert.False(t, IsNotFound(errors.New("random")))
	assert.False(t, IsNotFound(nil))
}

// TestIsInvalidResource tests the contract violation classifier
func TestIsInvalidResource(t *testing.T) {
	assert.True(t, IsInvalidResource(ErrInvalidResource))
	assert.True(t, IsInvalidResource(NewError(ErrInvalidResource, "got post, want group")))
	assert.False(t, IsInvalidResource(ErrInvalidResourceType))
	assert.False(t, IsInvalidResource(nil))
}

// TestIsDatabaseError tests the infrastructure failure classifier
func TestIsDatabaseError(t *testing.T) {
	assert.True(t, IsDatabaseError(ErrDatabaseError))
	assert.True(t, IsDatabaseError(NewError(ErrDatabaseError, "connection refused")))
	assert.False(t, IsDatabaseError(ErrGroupNotFound))
	assert.False(t, IsDatabaseError(nil))
}
