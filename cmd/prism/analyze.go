package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/cli"
	"prismatic-hq/prism/pkg/scoring"
	"prismatic-hq/prism/pkg/suggest"
)

var analyzeFlags struct {
	targetModel string
	profilePath string
	format      string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [prompt]",
	Short: "Analyze a prompt locally",
	Long: `Run a heuristic analysis of a single prompt without starting a server.

The prompt is read from the first argument, or from stdin when no argument
is given. Only the rule-based scorer runs; no provider calls are made.

Examples:
  # Analyze a prompt
  prism analyze "Summarize the attached report in three bullets."

  # Analyze from stdin
  cat prompt.txt | prism analyze

  # JSON output with a custom weight profile
  prism analyze --format json --profile weights.yaml "Explain recursion."`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyzePrompt,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFlags.targetModel, "target-model", "t", "general", "model the prompt is written for")
	analyzeCmd.Flags().StringVar(&analyzeFlags.profilePath, "profile", "", "scoring profile file overriding dimension weights")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.format, "format", "f", "text", "output format: text, json")
}

func analyzePrompt(cmd *cobra.Command, args []string) error {
	promptText, err := readPrompt(args)
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}

	scorer := scoring.NewScorer()
	if analyzeFlags.profilePath != "" {
		profile, err := scoring.LoadProfile(analyzeFlags.profilePath)
		if err != nil {
			return cli.NewConfigError("profile", err.Error())
		}
		profile.Apply(scorer)
	}

	engine := analysis.NewEngine(scorer, suggest.NewSuggester(), analysis.Options{})
	defer engine.Close()

	result, err := engine.Analyze(context.Background(), analysis.Request{
		PromptText:  promptText,
		TargetModel: analyzeFlags.targetModel,
	})
	if err != nil {
		return cli.NewCommandError("analyze", err)
	}

	if analyzeFlags.format == "json" {
		formatter := cli.NewFormatter(cli.OutputFormat(analyzeFlags.format))
		return formatter.FormatTo(os.Stdout, result)
	}

	printResult(result)
	return nil
}

// readPrompt takes the prompt from the argument or stdin.
func readPrompt(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("no prompt given: pass it as an argument or on stdin")
	}
	return prompt, nil
}

func printResult(result *analysis.Result) {
	fmt.Printf("Overall score: %.1f / 5\n\n", result.OverallScore)

	fmt.Println("Dimension scores:")
	for _, dim := range scoring.DefaultDimensions() {
		if score, ok := result.Scores[dim.ID]; ok {
			fmt.Printf("  %-20s %5.1f\n", dim.Name, score)
		}
	}

	if len(result.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, s := range result.Strengths {
			fmt.Printf("  + %s\n", s)
		}
	}

	if len(result.Weaknesses) > 0 {
		fmt.Println("\nWeaknesses:")
		for _, w := range result.Weaknesses {
			fmt.Printf("  - %s\n", w)
		}
	}

	if len(result.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for i, s := range result.Suggestions {
			fmt.Printf("  %d. %s\n     %s\n", i+1, s.Title, s.Description)
		}
	}

	if result.OptimizedPrompt != "" {
		fmt.Println("\nOptimized prompt:")
		fmt.Printf("  %s\n", result.OptimizedPrompt)
	}

	if result.Note != "" {
		fmt.Printf("\nNote: %s\n", result.Note)
	}
}
