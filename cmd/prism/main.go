// Prism is an HTTP service that scores free-text prompts against a set of
// quality dimensions and suggests improvements.
//
// It provides:
//   - Heuristic prompt scoring across weighted quality dimensions
//   - Optional LLM enrichment (OpenAI, Anthropic, OpenRouter)
//   - Per-caller sliding-window admission with queued waiting
//   - Analysis history with retention pruning
//
// Usage:
//
//	# Start server with default configuration
//	prism run
//
//	# Start with custom configuration file
//	prism run --config /path/to/config.yaml
//
//	# Analyze a prompt locally without a server
//	prism analyze "Summarize the attached report in three bullets."
//
//	# Validate a configuration file
//	prism validate
//
//	# Show version information
//	prism version
package main

func main() {
	Execute()
}
