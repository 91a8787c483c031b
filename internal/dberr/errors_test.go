package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"dbkeeper/internal/dberr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesSentinelByCode(t *testing.T) {
	err := dberr.NotSupported("surrealdb", "rename column")
	wrapped := fmt.Errorf("alter users: %w", err)

	assert.True(t, errors.Is(wrapped, dberr.ErrNotSupported))
	assert.True(t, dberr.IsNotSupported(wrapped))
	assert.False(t, errors.Is(wrapped, dberr.ErrValidation))
}

func TestErrorFormatIncludesSortedContext(t *testing.T) {
	err := dberr.Validation("column %q needs a data type", "age").
		With("table", "users").
		With("dialect", "postgresql")

	assert.Equal(t, "[E2001] column \"age\" needs a data type\n  dialect: postgresql\n  table: users", err.Error())
}

func TestExecutionUnwrapsCause(t *testing.T) {
	cause := errors.New("syntax error at or near \"ALTR\"")
	err := dberr.Execution("ALTR TABLE x", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, dberr.CodeExecution, err.Code())
	assert.Equal(t, "ALTR TABLE x", err.Context()["sql"])
}
