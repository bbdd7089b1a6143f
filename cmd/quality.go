package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"convive/quality"
	"convive/storage"
)

// QualityCmd runs data quality checks
type QualityCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the quality command
func (q *QualityCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	evals, err := store.ListEvaluations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}
	programEvals, err := store.ListProgramEvaluations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list program evaluations: %w", err)
	}

	report := quality.Check(sessions, evals, programEvals, time.Now().UTC(), cli.qualityConfig())

	if q.Format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(report.Issues) == 0 && len(report.Diagnostics) == 0 {
		fmt.Println("✓ No data quality issues found")
		return nil
	}

	if len(report.Issues) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ISSUE\tSESSION\tDATE\tGROUP\tMESSAGE")
		for _, issue := range report.Issues {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				issue.Kind,
				issue.SessionID,
				issue.SessionDate,
				issue.SessionGroup,
				issue.Message)
		}
		w.Flush()
		fmt.Printf("\nTotal: %d issues\n", len(report.Issues))
	}

	if len(report.Diagnostics) > 0 {
		fmt.Println("\nDiagnostics:")
		for _, d := range report.Diagnostics {
			fmt.Printf("  session %s: %s %q (%s)\n", d.SessionID, d.Field, d.Value, d.Message)
		}
	}

	return nil
}
