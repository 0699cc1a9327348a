package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMatchesByCode(t *testing.T) {
	err := Conflictf("board %q already exists", "Sprint 1")

	assert.True(t, Is(err, ErrConflict))
	assert.False(t, Is(err, ErrNotFound))
}

func TestIsThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("saving card: %w", NotFoundf("container %d", 9))

	assert.True(t, Is(err, ErrNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestPartialReorderKeepsCause(t *testing.T) {
	cause := NotFoundf("card %d", 4)
	err := PartialReorder(3, []int{1, 2}, cause)

	assert.True(t, Is(err, ErrPartialReorder))
	assert.True(t, Is(err, ErrNotFound), "cause should stay reachable")

	details, ok := err.Details.(PartialReorderDetails)
	require.True(t, ok)
	assert.Equal(t, 3, details.ContainerID)
	assert.Equal(t, []int{1, 2}, details.Updated)
	assert.Contains(t, err.Error(), "stopped after 2 sibling(s)")
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(stderrors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidScope, http.StatusBadRequest},
		{CodePartialReorder, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), "code %s", tt.code)
	}
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	e := ErrValidation.WithDetails(map[string]string{"name": "is required"})

	assert.NotNil(t, e.Details)
	assert.Nil(t, ErrValidation.Details)
}
