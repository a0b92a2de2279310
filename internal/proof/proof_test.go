package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStepDefaultsAreNeverNil(t *testing.T) {
	s := NewStep(OpDirect, "isA Dog Animal")
	assert.NotNil(t, s.Premises)
	assert.Empty(t, s.Premises)
	assert.NotNil(t, s.Metadata)
}

func TestWithMetadataChains(t *testing.T) {
	s := NewStep(OpHDCValidate, "x").WithMetadata("similarity", 0.98)
	assert.Equal(t, 0.98, s.Metadata["similarity"])
}

func TestSuccessClampsConfidenceToOne(t *testing.T) {
	obj := Success("direct", 1.5, NewStep(OpDirect, "x"))
	assert.True(t, obj.Valid)
	assert.Equal(t, 1.0, obj.Confidence)
}

func TestSuccessWithNilStepsIsEmptyNotNil(t *testing.T) {
	obj := Success("direct", 1.0)
	assert.NotNil(t, obj.Steps)
	assert.Empty(t, obj.Steps)
}

func TestFailureCarriesReasons(t *testing.T) {
	obj := Failure(FailureReason{Method: OpTransitive, Reason: "no path found"})
	assert.False(t, obj.Valid)
	assert.Equal(t, 0.0, obj.Confidence)
	assert.Len(t, obj.Failures, 1)
	assert.Equal(t, OpTransitive, obj.Failures[0].Method)
}

func TestMaxDepthExceededMessage(t *testing.T) {
	reason := MaxDepthExceeded(OpRuleApplication, 10)
	assert.Equal(t, OpRuleApplication, reason.Method)
	assert.Contains(t, reason.Reason, "10")
}
