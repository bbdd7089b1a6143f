package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"convive/application"
	"convive/storage"
)

// StatsCmd shows aggregated statistics
type StatsCmd struct {
	Group  string `help:"Restrict to one participant group" default:"all"`
	Phase  string `help:"Restrict to one phase (initial or followup)" enum:"all,initial,followup" default:"all"`
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the stats command
func (s *StatsCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	reports := application.NewReportService(store, cli.qualityConfig())
	report, err := reports.Overview(context.Background(), s.Group, s.Phase)
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}

	if s.Format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	st := report.Stats
	fmt.Printf("Filter: group=%s phase=%s\n\n", report.Filter.Group, report.Filter.Phase)
	fmt.Printf("Evaluations: %d (initial: %d, followup: %d)\n", st.Total, st.InitialCount, st.FollowupCount)
	fmt.Printf("Mixed interactions mean: initial %.2f, followup %.2f\n", st.InitialMean, st.FollowupMean)
	fmt.Printf("Improvement: %.1f%%\n", st.ImprovementPct)
	fmt.Printf("Avg participation: %.0f\n", st.AvgParticipation)
	fmt.Printf("High respect rate: %.1f%%\n", st.HighRespectRate)
	fmt.Printf("Trend: slope %.2f (R² %.2f)\n", report.Trend.Slope, report.Trend.R2)
	if len(report.Outliers) > 0 {
		fmt.Printf("Outliers: %d unusual mixed-interaction counts\n", len(report.Outliers))
	}
	if report.Orphans > 0 {
		fmt.Printf("Orphaned evaluations excluded: %d\n", report.Orphans)
	}

	if len(report.Groups) > 0 {
		fmt.Println("\nGroups:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  GROUP\tINITIAL MEAN\tFOLLOWUP MEAN\tEVALS")
		for _, g := range report.Groups {
			fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%d\n", g.Group, g.InitialMean, g.FollowupMean, g.Count)
		}
		w.Flush()
	}

	if len(report.Timeline) > 0 {
		fmt.Println("\nActivity:")
		for _, b := range report.Timeline {
			fmt.Printf("  %s: %d\n", b.Day, b.Count)
		}
	}

	if report.LatestImpact != nil {
		li := report.LatestImpact
		fmt.Printf("\nLatest impact: grouping=%s mixed=%d products=%d representation=%d\n",
			li.GroupingAfter, li.MixedInteractionsAfter, li.ProductsCompleted, li.ParticipantRepresentation)
	}

	return nil
}
