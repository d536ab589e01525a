package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"prismatic-hq/prism/pkg/cli"
	"prismatic-hq/prism/pkg/config"
	"prismatic-hq/prism/pkg/history"
	"prismatic-hq/prism/pkg/history/storage"
)

var historyFlags struct {
	timeRange   string
	identity    string
	targetModel string
	provider    string
	minScore    float64
	maxScore    float64
	limit       int
	offset      int
	format      string
	output      string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the analysis history",
	Long: `Query and export recorded prompt analyses.

The history command reads the history database directly, without a running
server.

Subcommands:
  query - Query analysis records with filters

Examples:
  # Last 20 analyses
  prism history query --limit 20

  # Export a day to CSV
  prism history query --time-range "2026-08-25T00:00:00Z/2026-08-26T00:00:00Z" \
      --format csv --output analyses.csv`,
}

var historyQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query analysis records",
	Long: `Query analysis records with various filters.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-25T00:00:00Z/2026-08-26T00:00:00Z"

Examples:
  # Query a specific time range
  prism history query --time-range "2026-08-25T00:00:00Z/2026-08-26T00:00:00Z"

  # Low-scoring prompts for one model
  prism history query --target-model gpt-4o --max-score 2.5

  # Export to JSON
  prism history query --format json --output analyses.json`,
	RunE: queryHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyQueryCmd)

	historyQueryCmd.Flags().StringVar(&historyFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	historyQueryCmd.Flags().StringVar(&historyFlags.identity, "identity", "", "filter by caller identity")
	historyQueryCmd.Flags().StringVar(&historyFlags.targetModel, "target-model", "", "filter by target model")
	historyQueryCmd.Flags().StringVar(&historyFlags.provider, "provider", "", "filter by enrichment provider")
	historyQueryCmd.Flags().Float64Var(&historyFlags.minScore, "min-score", 0, "minimum overall score")
	historyQueryCmd.Flags().Float64Var(&historyFlags.maxScore, "max-score", 0, "maximum overall score")
	historyQueryCmd.Flags().IntVar(&historyFlags.limit, "limit", 100, "max results")
	historyQueryCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "pagination offset")
	historyQueryCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
	historyQueryCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "", "output file (default: stdout)")
}

func queryHistory(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
		Path:         cfg.History.SQLite.Path,
		MaxOpenConns: cfg.History.SQLite.MaxOpenConns,
		MaxIdleConns: cfg.History.SQLite.MaxIdleConns,
		WALMode:      cfg.History.SQLite.WALMode,
		BusyTimeout:  cfg.History.SQLite.BusyTimeout,
	})
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("failed to open history store: %w", err))
	}
	defer store.Close()

	query, err := buildHistoryQuery()
	if err != nil {
		return err
	}

	records, err := store.Query(context.Background(), query)
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("query failed: %w", err))
	}

	output := os.Stdout
	if historyFlags.output != "" {
		output, err = os.Create(historyFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	switch historyFlags.format {
	case "json":
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(output, records)
	case "csv":
		formatter := &cli.CSVFormatter{
			Headers: []string{"id", "created_at", "target_model", "overall_score", "detailed", "provider", "identity"},
		}
		return formatter.FormatTo(output, historyCSVRows(records))
	default:
		return outputHistoryText(output, records, query)
	}
}

func buildHistoryQuery() (*history.Query, error) {
	query := &history.Query{
		Limit:  historyFlags.limit,
		Offset: historyFlags.offset,
	}

	if historyFlags.timeRange != "" {
		parts := strings.Split(historyFlags.timeRange, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid time range format (expected: start/end)")
		}

		since, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start time: %w", err)
		}
		query.Since = &since

		until, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end time: %w", err)
		}
		query.Until = &until
	}

	query.Identity = historyFlags.identity
	query.TargetModel = historyFlags.targetModel
	query.Provider = historyFlags.provider

	if historyFlags.minScore > 0 {
		query.MinScore = &historyFlags.minScore
	}
	if historyFlags.maxScore > 0 {
		query.MaxScore = &historyFlags.maxScore
	}

	return query, nil
}

func historyCSVRows(records []*history.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Format(time.RFC3339),
			r.TargetModel,
			strconv.FormatFloat(r.OverallScore, 'f', 1, 64),
			strconv.FormatBool(r.Detailed),
			r.Provider,
			r.Identity,
		})
	}
	return rows
}

func outputHistoryText(output *os.File, records []*history.Record, query *history.Query) error {
	if query.Since != nil && query.Until != nil {
		fmt.Fprintf(output, "Time range: %s to %s\n",
			query.Since.Format(time.RFC3339),
			query.Until.Format(time.RFC3339))
	}
	fmt.Fprintf(output, "Total records: %d\n\n", len(records))

	if len(records) == 0 {
		fmt.Fprintln(output, "No records found.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(output, "%s  %s  score %.1f  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.TargetModel,
			r.OverallScore,
			r.PromptPreview,
		)
	}

	return nil
}
