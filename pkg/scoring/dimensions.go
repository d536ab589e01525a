package scoring

// Dimension describes one quality dimension a prompt is scored against.
type Dimension struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Weight      float64 `json:"weight" yaml:"weight"`
}

// Dimension IDs, in report order.
const (
	DimClarity           = "clarity"
	DimContext           = "context"
	DimTaskDefinition    = "task_definition"
	DimStructure         = "structure"
	DimExamples          = "examples"
	DimConciseness       = "conciseness"
	DimSpecificity       = "specificity"
	DimRoleAssignment    = "role_assignment"
	DimReasoningGuidance = "reasoning_guidance"
	DimConstraints       = "constraints"
)

// defaultDimensions is the built-in dimension set. Weights can be overridden
// by a scoring profile; everything else is fixed.
var defaultDimensions = []Dimension{
	{DimClarity, "Clarity & Specificity", "How clear and unambiguous the instructions are", 1.0},
	{DimContext, "Context Provided", "Adequacy of background information", 0.8},
	{DimTaskDefinition, "Task Definition", "How well the expected task is defined", 1.0},
	{DimStructure, "Structure", "Organization and formatting of the prompt", 0.7},
	{DimExamples, "Examples", "Quality and relevance of examples provided", 0.8},
	{DimConciseness, "Conciseness", "Efficiency of language without unnecessary verbosity", 0.6},
	{DimSpecificity, "Output Specificity", "Clarity about the desired output format or style", 0.9},
	{DimRoleAssignment, "Role Assignment", "Effective use of role prompting", 0.7},
	{DimReasoningGuidance, "Reasoning Guidance", "Instructions for step-by-step thinking", 0.8},
	{DimConstraints, "Constraints & Limitations", "Clear boundaries and constraints", 0.7},
}

// DefaultDimensions returns a copy of the built-in dimension set.
func DefaultDimensions() []Dimension {
	out := make([]Dimension, len(defaultDimensions))
	copy(out, defaultDimensions)
	return out
}
