// Package proof defines the ProofObject/Step schema returned by every
// prove call (spec.md §4.9) and the small builder helpers used to keep
// the schema total: every step has every field populated, and unknown
// metadata is always the empty map rather than nil. Grounded on the
// teacher lineage's validation.TheoremProof/ProofStep pair, extended
// with the hdc_unbind/hdc_validate/contrapositive step kinds the
// holographic and symbolic engines need that the teacher's free-text
// theorem prover never had to express.
package proof

import "fmt"

// Operation enumerates the kinds of reasoning step a proof may contain.
type Operation string

const (
	OpDirect          Operation = "direct"
	OpTransitive      Operation = "transitive"
	OpInheritance     Operation = "inheritance"
	OpRuleApplication Operation = "rule_application"
	OpHDCUnbind       Operation = "hdc_unbind"
	OpHDCValidate     Operation = "hdc_validate"
	OpContrapositive  Operation = "contrapositive"
)

// Step is one entry in a proof trace. Conclusion and each element of
// Premises are either a fact ID (string) or a literal statement
// description produced by the caller; this package treats both
// uniformly as opaque strings, leaving formatting to the engine that
// knows which it has.
type Step struct {
	Operation  Operation              `json:"operation"`
	Premises   []string               `json:"premises"`
	Conclusion string                 `json:"conclusion"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// NewStep builds a Step with the schema's totality guarantee: Premises
// is never nil (an empty, non-nil slice if none were given) and Metadata
// is never nil.
func NewStep(op Operation, conclusion string, premises ...string) Step {
	if premises == nil {
		premises = []string{}
	}
	return Step{
		Operation:  op,
		Premises:   premises,
		Conclusion: conclusion,
		Metadata:   map[string]interface{}{},
	}
}

// WithMetadata sets a metadata key and returns the step, chainable after
// NewStep. The returned Step shares its Metadata map with the receiver,
// so the key is visible through both.
func (s Step) WithMetadata(key string, value interface{}) Step {
	s.Metadata[key] = value
	return s
}

// FailureReason records why one candidate proof method did not
// establish the goal; it is not an error, just diagnostic trace data
// surfaced on a failed Object (spec.md §4.6 "Failure" and §7's
// MaxDepthExceeded, which is folded into this trace rather than thrown).
type FailureReason struct {
	Method Operation `json:"method"`
	Reason string    `json:"reason"`
}

// Object is the total proof result returned by prove/proveHDC.
type Object struct {
	Valid      bool            `json:"valid"`
	Confidence float64         `json:"confidence"`
	Method     string          `json:"method"`
	Steps      []Step          `json:"steps"`
	Failures   []FailureReason `json:"failures,omitempty"`
}

// Success builds a valid Object from a method name, confidence, and the
// steps that established it.
func Success(method string, confidence float64, steps ...Step) Object {
	if steps == nil {
		steps = []Step{}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return Object{Valid: true, Confidence: confidence, Method: method, Steps: steps}
}

// Failure builds an invalid Object carrying the attempted methods and
// their first failure reason each, per spec.md §4.6's "never throws for
// unprovable goals" contract.
func Failure(failures ...FailureReason) Object {
	if failures == nil {
		failures = []FailureReason{}
	}
	return Object{Valid: false, Confidence: 0, Method: "", Steps: []Step{}, Failures: failures}
}

// MaxDepthExceeded is the canonical FailureReason for a proof search that
// hit maxProofDepth — a normal failure outcome, not a thrown error.
func MaxDepthExceeded(method Operation, depth int) FailureReason {
	return FailureReason{
		Method: method,
		Reason: fmt.Sprintf("proof search exceeded the configured depth limit (%d)", depth),
	}
}
