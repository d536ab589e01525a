package analysis

import "fmt"

// systemPrompt frames the enrichment model as a prompt engineering reviewer.
const systemPrompt = `You are a prompt engineering expert tasked with analyzing and improving prompts for AI models.
Evaluate the prompt based on clarity, specificity, context, structure, examples, and other key dimensions.
Provide specific, actionable feedback on how to improve the prompt.
Your analysis should be detailed, constructive, and focused on helping the user create more effective prompts.`

// analysisPromptTemplate asks for a strict JSON review of the prompt.
const analysisPromptTemplate = `Please analyze the following prompt and provide detailed feedback on how to improve it.

PROMPT TO ANALYZE:
` + "```" + `
%s
` + "```" + `

Target AI model: %s

Evaluate the prompt on the following dimensions:
1. Clarity & Specificity
2. Context Provided
3. Task Definition
4. Structure & Organization
5. Examples (if applicable)
6. Conciseness
7. Output Format Specification
8. Role Assignment (if applicable)
9. Reasoning Guidance
10. Constraints & Limitations

For each dimension, provide:
- A score from 1-5
- Specific strengths
- Suggestions for improvement

Then provide 3-5 specific, actionable suggestions to improve the overall effectiveness of the prompt.

Format your response as a JSON object with the following structure:
{
    "dimension_scores": {
        "clarity": 4,
        "context": 3,
        ...
    },
    "strengths": ["strength1", "strength2", ...],
    "weaknesses": ["weakness1", "weakness2", ...],
    "suggestions": [
        {
            "title": "Suggestion title",
            "description": "Detailed description",
            "example": "Example implementation",
            "rationale": "Why this would help"
        },
        ...
    ],
    "improved_prompt": "A revised version of the prompt"
}`

// buildAnalysisPrompt renders the enrichment request for a prompt and target model.
func buildAnalysisPrompt(promptText, targetModel string) string {
	if targetModel == "" {
		targetModel = "general"
	}
	return fmt.Sprintf(analysisPromptTemplate, promptText, targetModel)
}
