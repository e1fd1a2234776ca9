package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "ieutils/pkg/errors"
)

func TestAppError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.NewDatabaseError("get item", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DATABASE")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsType_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", apperrors.NewNotFoundError("object s3://b/k"))

	assert.True(t, apperrors.IsNotFound(err))
	assert.False(t, apperrors.IsValidation(err))
}

func TestIsType_PlainError(t *testing.T) {
	assert.False(t, apperrors.IsNotFound(errors.New("nope")))
}
