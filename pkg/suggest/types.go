// Package suggest turns scoring reports into concrete prompt improvement
// suggestions, including a rewritten prompt fragment per suggestion.
package suggest

// Suggestion is one actionable improvement for a prompt.
type Suggestion struct {
	// Title is a short imperative summary.
	Title string `json:"title"`

	// Description explains what is lacking.
	Description string `json:"description"`

	// Example shows the technique applied to a different prompt.
	Example string `json:"example"`

	// Rationale explains why the technique helps.
	Rationale string `json:"rationale"`

	// Implementation is the caller's prompt rewritten with the technique
	// applied. Empty when the rewrite needs information only the caller has.
	Implementation string `json:"implementation,omitempty"`
}
