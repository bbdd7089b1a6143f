package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"convive/application"
	"convive/domain"
	"convive/storage"
)

// ProgramCmd manages program-wide impact evaluations
type ProgramCmd struct {
	List ProgramListCmd `cmd:"list" help:"List program evaluations" default:"1"`
	Add  ProgramAddCmd  `cmd:"add" help:"Record a final-impact evaluation"`
}

// ProgramListCmd lists program evaluations
type ProgramListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (p *ProgramListCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	evals, err := store.ListProgramEvaluations(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list program evaluations: %w", err)
	}

	if p.Format == "json" {
		data, err := json.MarshalIndent(evals, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	// Table format
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGROUPING AFTER\tMIXED AFTER\tPRODUCTS\tREPRESENTATION\tCREATED")
	for _, e := range evals {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ID,
			e.GroupingAfter,
			e.MixedInteractionsAfter,
			e.ProductsCompleted,
			e.ParticipantRepresentation,
			e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()

	fmt.Printf("\nTotal: %d program evaluations\n", len(evals))
	return nil
}

// ProgramAddCmd records a final-impact evaluation
type ProgramAddCmd struct {
	GroupingAfter             string `help:"Grouping observed after the program" enum:",separated,partial,mixed" default:""`
	MixedInteractionsAfter    int    `help:"Cross-group interactions observed after the program" default:"0"`
	ProductsCompleted         int    `help:"Number of joint products completed" default:"0"`
	ParticipantRepresentation int    `help:"Participants represented in closing activities" default:"0"`
}

// Run executes the add command
func (p *ProgramAddCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	svc := application.NewSessionService(store)
	eval, err := svc.CreateProgramEvaluation(context.Background(), application.CreateProgramEvaluationParams{
		GroupingAfter:             domain.Grouping(p.GroupingAfter),
		MixedInteractionsAfter:    p.MixedInteractionsAfter,
		ProductsCompleted:         p.ProductsCompleted,
		ParticipantRepresentation: p.ParticipantRepresentation,
	})
	if err != nil {
		return fmt.Errorf("failed to add program evaluation: %w", err)
	}

	fmt.Printf("✓ Program evaluation '%s' recorded\n", eval.ID)
	return nil
}
