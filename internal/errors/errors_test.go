package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	e := New(TypeUnknownProduct, "product not defined: Type Z")
	assert.Equal(t, "[UNKNOWN_PRODUCT] product not defined: Type Z", e.Error())

	wrapped := Wrap(TypeParsing, "read rules", stderrors.New("boom"))
	assert.Equal(t, "[PARSING_ERROR] read rules: boom", wrapped.Error())
}

func TestTypeLookupThroughWrapping(t *testing.T) {
	base := Newf(TypeInvalidRules, "%d violations", 2)
	err := fmt.Errorf("load: %w", base)

	assert.True(t, IsType(err, TypeInvalidRules))
	assert.False(t, IsType(err, TypeConfig))
	assert.Equal(t, TypeInvalidRules, TypeOf(err))
	assert.Equal(t, TypeInternal, TypeOf(stderrors.New("plain")))
}

func TestUnwrapReachesSentinel(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := Wrap(TypeInput, "bad door", sentinel).WithContext("door", 2)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, err.Context["door"])
}
