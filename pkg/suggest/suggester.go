package suggest

import (
	"strings"

	"prismatic-hq/prism/pkg/scoring"
)

// suggestionScoreThreshold is the dimension score below which a
// per-dimension suggestion is emitted.
const suggestionScoreThreshold = 0.5

// minSuggestions triggers general fallback suggestions when fewer specific
// ones were produced.
const minSuggestions = 2

// Suggester generates improvement suggestions from a scoring report.
// It is stateless and safe for concurrent use.
type Suggester struct{}

// NewSuggester creates a suggester.
func NewSuggester() *Suggester {
	return &Suggester{}
}

// Suggest builds the suggestion list for a prompt: one suggestion per
// low-scoring dimension, model-family suggestions for non-general targets,
// and general fallbacks when little else applies.
func (sg *Suggester) Suggest(promptText string, report *scoring.Report, targetModel string) []Suggestion {
	var suggestions []Suggestion

	// Walk dimensions in their canonical order for stable output
	for _, d := range scoring.DefaultDimensions() {
		score, ok := report.DimensionScores[d.ID]
		if !ok || score >= suggestionScoreThreshold {
			continue
		}
		if s, ok := dimensionSuggestion(d.ID, promptText); ok {
			suggestions = append(suggestions, s)
		}
	}

	if targetModel != "" && targetModel != "general" {
		suggestions = append(suggestions, modelSuggestions(promptText, targetModel)...)
	}

	if len(suggestions) < minSuggestions {
		suggestions = append(suggestions, generalSuggestions(promptText)...)
	}

	return suggestions
}

// OptimizedPrompt returns a rewritten prompt seeded from the first
// suggestion that carries an implementation. Returns the original prompt
// when no rewrite applies.
func (sg *Suggester) OptimizedPrompt(promptText string, suggestions []Suggestion) string {
	for _, s := range suggestions {
		if s.Implementation != "" {
			return s.Implementation
		}
	}
	return promptText
}

func dimensionSuggestion(dimension, promptText string) (Suggestion, bool) {
	switch dimension {
	case scoring.DimClarity:
		return Suggestion{
			Title:          "Improve clarity and specificity",
			Description:    "Your prompt could benefit from clearer instructions and more specific language.",
			Example:        "Instead of 'Tell me about AI', try 'Explain how AI is used in healthcare, focusing on diagnostic applications and patient outcomes'.",
			Rationale:      "Clear, specific instructions help the AI understand exactly what you're looking for.",
			Implementation: clarityRewrite(promptText),
		}, true

	case scoring.DimContext:
		return Suggestion{
			Title:          "Add more context or background information",
			Description:    "Providing more context would help the AI understand the situation better.",
			Example:        "Instead of 'How do I fix this?', try 'I'm working with a Python Flask application that's returning a 500 error when accessing the /users endpoint. The error log shows a database connection issue. How can I troubleshoot and fix this?'",
			Rationale:      "Context helps the AI provide more relevant and accurate responses.",
			Implementation: "Context: [Add relevant background information here]\n\n" + promptText,
		}, true

	case scoring.DimTaskDefinition:
		return Suggestion{
			Title:          "Define the task more clearly",
			Description:    "Be more explicit about what you want the AI to do.",
			Example:        "Instead of 'Help with my presentation', try 'Create an outline for a 10-minute presentation on renewable energy sources, including 3 main points with supporting data'.",
			Rationale:      "A well-defined task leads to more focused and useful responses.",
			Implementation: promptText + "\n\nSpecifically, I need you to:\n1. [First specific task]\n2. [Second specific task]\n3. [Third specific task]",
		}, true

	case scoring.DimStructure:
		return Suggestion{
			Title:          "Improve prompt structure",
			Description:    "Organizing your prompt with clear sections or bullet points can make it easier to understand.",
			Example:        "Try structuring your prompt with numbered points or sections with headers.",
			Rationale:      "Well-structured prompts are easier for AI to parse and respond to methodically.",
			Implementation: structureRewrite(promptText),
		}, true

	case scoring.DimExamples:
		return Suggestion{
			Title:          "Include examples",
			Description:    "Adding examples of what you're looking for can improve results.",
			Example:        "For instance, 'Write a product description for a coffee maker. Example tone: Our premium water filter combines elegant design with powerful filtration technology...'",
			Rationale:      "Examples help the AI understand your expectations for style, format, and content.",
			Implementation: promptText + "\n\nFor example:\n```\n[Example of what you're looking for]\n```",
		}, true

	case scoring.DimConciseness:
		return Suggestion{
			Title:          "Make your prompt more concise",
			Description:    "Your prompt contains unnecessary words or repetition that could be removed.",
			Example:        "Try removing filler words and focusing on essential information.",
			Rationale:      "Concise prompts are clearer and help the AI focus on what's important.",
			Implementation: stripFillerWords(promptText),
		}, true

	case scoring.DimSpecificity:
		return Suggestion{
			Title:          "Specify desired output format",
			Description:    "Clearly indicate what format you want the response in.",
			Example:        "Add instructions like 'Format the response as a bulleted list' or 'Provide your answer in a table with columns for Feature, Benefit, and Example'.",
			Rationale:      "Specifying output format ensures you get results in the most useful form for your needs.",
			Implementation: promptText + "\n\nPlease format your response as follows:\n- Use bullet points for key insights\n- Include a summary paragraph at the end\n- Highlight important terms in bold",
		}, true

	case scoring.DimRoleAssignment:
		return Suggestion{
			Title:          "Use role prompting",
			Description:    "Assigning a specific role to the AI can improve responses.",
			Example:        "Start your prompt with 'Act as an experienced data scientist' or 'You are an expert in maritime law'.",
			Rationale:      "Role prompting helps frame the AI's perspective and knowledge base appropriately for your question.",
			Implementation: "You are an expert [relevant field] with extensive experience in [specific area].\n\n" + promptText,
		}, true

	case scoring.DimReasoningGuidance:
		return Suggestion{
			Title:          "Add reasoning guidance",
			Description:    "Instruct the AI to explain its thinking process.",
			Example:        "Add 'Think step by step' or 'Explain your reasoning as you solve this problem'.",
			Rationale:      "Guidance for reasoning leads to more thorough and logical responses.",
			Implementation: promptText + "\n\nThink step by step and explain your reasoning as you develop your response.",
		}, true

	case scoring.DimConstraints:
		return Suggestion{
			Title:          "Add clear constraints",
			Description:    "Specify limitations or boundaries for the response.",
			Example:        "Add constraints like 'Keep the explanation under 200 words' or 'Only include methods that don't require specialized tools'.",
			Rationale:      "Clear constraints help focus the response on what's most useful to you.",
			Implementation: promptText + "\n\nConstraints:\n- Keep your response under 300 words\n- Focus only on [specific aspect]\n- Do not include [what to exclude]",
		}, true
	}

	return Suggestion{}, false
}

// modelSuggestions returns techniques tuned to a model family. The target
// is matched loosely so versioned names like "gpt-4o" or "claude-3" hit.
func modelSuggestions(promptText, targetModel string) []Suggestion {
	model := strings.ToLower(targetModel)

	switch {
	case strings.HasPrefix(model, "gpt"):
		return []Suggestion{{
			Title:          "Optimize for GPT models",
			Description:    "GPT models respond well to clear, structured instructions with specific output formatting.",
			Example:        "Try adding 'I'll tip $XXX for a detailed response that follows ALL instructions carefully' at the beginning of your prompt.",
			Rationale:      "This helps focus the model's attention on following instructions precisely.",
			Implementation: "I'll tip $100 for a detailed response that follows ALL instructions carefully.\n\n" + promptText,
		}}

	case strings.HasPrefix(model, "claude"):
		return []Suggestion{{
			Title:          "Optimize for Claude",
			Description:    "Claude responds well to XML-style tags for different sections of your prompt.",
			Example:        "Try using tags like <context>, <question>, and <format> to structure your prompt.",
			Rationale:      "Claude is trained to recognize and respect these structural elements.",
			Implementation: "<context>\n" + promptText + "\n</context>\n<question>Based on this context, please provide a detailed analysis.</question>\n<format>Use bullet points for key insights and provide a summary paragraph at the end.</format>",
		}}

	case strings.Contains(model, "llama"):
		return []Suggestion{{
			Title:          "Optimize for Llama models",
			Description:    "Llama models benefit from explicit, concise instructions with examples.",
			Example:        "Try adding examples of the expected output format and be very explicit about the task.",
			Rationale:      "Llama models often perform better with few-shot examples and clear guidance.",
			Implementation: promptText + "\n\nExample output format:\n[Example of the kind of response you want]",
		}}
	}

	return nil
}

func generalSuggestions(promptText string) []Suggestion {
	var suggestions []Suggestion

	if len(promptText) < 50 {
		suggestions = append(suggestions, Suggestion{
			Title:       "Expand your prompt",
			Description: "Your prompt is quite brief. Adding more details could lead to better results.",
			Example:     "Instead of 'How to fix a bike?', try 'I have a mountain bike with a chain that keeps slipping off the gears when I shift. What are the most likely causes and how can I fix this issue myself with basic tools?'",
			Rationale:   "More detailed prompts give the AI more information to work with.",
			// No implementation: expanding needs details only the caller has
		})
	}

	requestMarkers := []string{"?", "please", "could you", "can you", "explain", "describe", "list", "analyze"}
	lower := strings.ToLower(promptText)
	hasRequest := false
	for _, marker := range requestMarkers {
		if strings.Contains(lower, marker) {
			hasRequest = true
			break
		}
	}
	if !hasRequest {
		suggestions = append(suggestions, Suggestion{
			Title:          "Add a clear request",
			Description:    "Your prompt doesn't contain a clear question or request.",
			Example:        "End your prompt with a specific question or request like 'Please explain how these factors interact.' or 'What are the three most important considerations?'",
			Rationale:      "A clear request helps the AI understand exactly what you're looking for.",
			Implementation: promptText + "\n\nBased on this information, please provide a detailed analysis with key insights and recommendations.",
		})
	}

	return suggestions
}

// ============================================================================
// Rewrite helpers
// ============================================================================

func clarityRewrite(promptText string) string {
	if !strings.Contains(promptText, "?") {
		return promptText + "\n\nTo be specific, I'm looking for a detailed explanation with concrete examples."
	}
	return strings.ReplaceAll(promptText, "?", "? Please be specific and provide detailed information with concrete examples.")
}

func structureRewrite(promptText string) string {
	lines := strings.Split(promptText, "\n")
	if len(lines) <= 2 {
		return "# Background\n[Your context here]\n\n# Question/Task\n" + promptText + "\n\n# Output Format\n[Describe desired format here]"
	}

	var b strings.Builder
	for i, line := range lines {
		switch {
		case i == 0:
			b.WriteString("# Introduction\n" + line + "\n\n")
		case i == len(lines)-1:
			b.WriteString("# Request\n" + line)
		default:
			if i == 1 {
				b.WriteString("# Details\n")
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func stripFillerWords(promptText string) string {
	fillers := []string{"basically", "actually", "literally", "very", "really", "just", "so", "quite"}
	result := promptText
	for _, word := range fillers {
		result = strings.ReplaceAll(result, " "+word+" ", " ")
	}
	return result
}
