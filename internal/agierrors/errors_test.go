package agierrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesCodeAndFactID(t *testing.T) {
	err := NewContradiction("fact-123", "hasState Door Closed conflicts with hasState Door Open")
	assert.Contains(t, err.Error(), "Contradiction")
	assert.Contains(t, err.Error(), "fact-123")
}

func TestErrorMessageOmitsFactIDWhenAbsent(t *testing.T) {
	err := NewUnknownAtom("Nobody")
	assert.NotContains(t, err.Error(), "conflicting fact")
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("underlying")
	err := NewStrategyMismatch("dense-binary", "sparse-set").WithCause(cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsMatchesSentinelByCode(t *testing.T) {
	err := NewGeometryMismatch(64, 128)
	assert.True(t, errors.Is(err, Sentinel(GeometryMismatch)))
	assert.False(t, errors.Is(err, Sentinel(UnknownAtom)))
}

func TestCodeStringCoversAllConstants(t *testing.T) {
	cases := map[Code]string{
		StrategyMismatch:     "StrategyMismatch",
		UnsupportedExtension: "UnsupportedExtension",
		GeometryMismatch:     "GeometryMismatch",
		UnknownAtom:          "UnknownAtom",
		ContradictionCode:    "Contradiction",
		InvalidArity:         "InvalidArity",
	}
	for code, want := range cases {
		assert.Equal(t, want, code.String())
	}
}
