package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorCarriesEntityDetails(t *testing.T) {
	err := NewReferentialError("posts", "p1", `category "c1" does not exist`)
	assert.Equal(t, ErrorTypeReferential, err.Type)
	assert.Equal(t, "posts", err.Details["kind"])
	assert.Equal(t, "p1", err.Details["key"])
	assert.Contains(t, err.Error(), `posts "p1"`)
}

func TestStatusCodeMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewShapeError("posts", "p1", "x").StatusCode)
	assert.Equal(t, http.StatusBadRequest, NewBoundsError("posts", "p1", "x").StatusCode)
	assert.Equal(t, http.StatusUnprocessableEntity, NewReferentialError("posts", "p1", "x").StatusCode)
	assert.Equal(t, http.StatusConflict, NewIDCollision("posts", "p1").StatusCode)
	assert.Equal(t, http.StatusNotFound, NewUnknownCategory("c1").StatusCode)
	assert.Equal(t, http.StatusBadGateway, NewBackendError("replaceAll", errors.New("x")).StatusCode)
}

func TestPredefinedErrorsMatchWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", ErrSessionNotLoaded)
	assert.True(t, errors.Is(wrapped, ErrSessionNotLoaded))
	assert.False(t, errors.Is(wrapped, ErrSaveInFlight))
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsValidation(NewShapeError("posts", "p1", "x")))
	assert.True(t, IsValidation(NewBoundsError("posts", "p1", "x")))
	assert.True(t, IsValidation(NewReferentialError("posts", "p1", "x")))
	assert.False(t, IsValidation(NewIDCollision("posts", "p1")))

	assert.True(t, IsConflict(ErrSaveInFlight))
	assert.True(t, IsNotFound(NewEntityNotFound("creators", "cr1")))

	backendErr := NewBackendError("fetchAll", errors.New("timeout"))
	assert.True(t, IsBackend(backendErr))
	assert.True(t, backendErr.Retryable)
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewBackendError("replaceAll", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestWrapPreservesDomainError(t *testing.T) {
	inner := NewShapeError("posts", "p1", "bad")
	wrapped := Wrap(inner, "importing document")
	require.NotNil(t, GetDomainError(wrapped))
	assert.Equal(t, ErrorTypeShape, GetDomainError(wrapped).Type)
	assert.Contains(t, wrapped.Error(), "importing document")

	plain := Wrap(errors.New("boom"), "saving")
	assert.Equal(t, ErrorTypeInternal, GetDomainError(plain).Type)
	assert.Nil(t, Wrap(nil, "noop"))
}
