package apperr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataLoadErrorWrapsCause(t *testing.T) {
	err := NewDataLoadError("input/m49.xlsx", "failed to open workbook", os.ErrNotExist)
	wrapped := fmt.Errorf("loading metadata: %w", err)

	assert.True(t, IsDataLoad(wrapped))
	assert.False(t, IsExport(wrapped))
	assert.ErrorIs(t, wrapped, os.ErrNotExist)
	assert.Contains(t, err.Error(), "input/m49.xlsx")
	assert.Contains(t, err.Error(), string(ErrTypeDataLoad))
}

func TestExportErrorCarriesPath(t *testing.T) {
	cause := errors.New("disk full")
	err := NewExportError("out/full-dataset.csv", cause)

	assert.True(t, IsExport(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[EXPORT] failed to write out/full-dataset.csv: disk full", err.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "year", Input: "abc"}
	assert.Equal(t, `[VALIDATION] invalid year: "abc"`, err.Error())
}
