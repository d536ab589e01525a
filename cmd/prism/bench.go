package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/cli"
	"prismatic-hq/prism/pkg/scoring"
	"prismatic-hq/prism/pkg/suggest"
)

var benchFlags struct {
	iterations int
	prompt     string
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the heuristic analysis pipeline",
	Long: `Run the heuristic scorer and suggestion engine in a loop and report
throughput and latency percentiles.

No provider calls are made; this measures the local pipeline only.

Examples:
  # Default run
  prism bench

  # More iterations with a custom prompt
  prism bench --iterations 50000 --prompt "Explain how DNS resolution works."`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVarP(&benchFlags.iterations, "iterations", "n", 10000, "number of analyses to run")
	benchCmd.Flags().StringVar(&benchFlags.prompt, "prompt", defaultBenchPrompt, "prompt to analyze")
}

const defaultBenchPrompt = `You are a senior technical writer. Summarize the attached incident report
for an executive audience in three bullet points, each under 20 words.
Include the root cause and the customer impact. Format as markdown.`

func runBench(cmd *cobra.Command, args []string) error {
	engine := analysis.NewEngine(scoring.NewScorer(), suggest.NewSuggester(), analysis.Options{})
	defer engine.Close()

	fmt.Printf("Prism bench: %d iterations\n\n", benchFlags.iterations)

	progress := cli.NewProgressReporter(nil)
	progress.Start(int64(benchFlags.iterations))

	latencies := make([]time.Duration, 0, benchFlags.iterations)
	ctx := context.Background()
	start := time.Now()

	for i := 0; i < benchFlags.iterations; i++ {
		reqStart := time.Now()
		if _, err := engine.Analyze(ctx, analysis.Request{PromptText: benchFlags.prompt}); err != nil {
			progress.Error(err)
			return cli.NewCommandError("bench", err)
		}
		latencies = append(latencies, time.Since(reqStart))

		if (i+1)%100 == 0 || i+1 == benchFlags.iterations {
			progress.Update(int64(i + 1))
		}
	}

	progress.Finish()
	total := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("\nResults:")
	fmt.Printf("  total:      %s\n", total.Round(time.Millisecond))
	fmt.Printf("  throughput: %.0f analyses/sec\n", float64(benchFlags.iterations)/total.Seconds())
	fmt.Printf("  p50:        %s\n", percentile(latencies, 0.50))
	fmt.Printf("  p95:        %s\n", percentile(latencies, 0.95))
	fmt.Printf("  p99:        %s\n", percentile(latencies, 0.99))
	fmt.Printf("  max:        %s\n", latencies[len(latencies)-1])

	return nil
}

// percentile returns the given percentile from sorted latencies.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
