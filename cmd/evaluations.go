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

// EvaluationsCmd manages session evaluations
type EvaluationsCmd struct {
	List EvaluationsListCmd `cmd:"list" help:"List evaluations" default:"1"`
	Add  EvaluationsAddCmd  `cmd:"add" help:"Add an evaluation to a session"`
	Set  EvaluationsSetCmd  `cmd:"set" help:"Update fields of an evaluation"`
	Del  EvaluationsDelCmd  `cmd:"del" help:"Delete an evaluation"`
}

// EvaluationsListCmd lists evaluations, optionally for a single session
type EvaluationsListCmd struct {
	Session string `help:"Only show evaluations for this session id" default:""`
	Format  string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (e *EvaluationsListCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	var evals []domain.SessionEvaluation
	if e.Session != "" {
		evals, err = store.ListSessionEvaluations(context.Background(), e.Session)
	} else {
		evals, err = store.ListEvaluations(context.Background())
	}
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}

	if e.Format == "json" {
		data, err := json.MarshalIndent(evals, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	// Table format
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSESSION\tPHASE\tGROUPING\tTENSIONS\tPARTICIPATION\tRESPECT\tMIXED")
	for _, ev := range evals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			ev.ID,
			ev.SessionID,
			ev.Phase,
			ev.Grouping,
			ev.Tensions,
			ev.Participation,
			ev.Respect,
			ev.MixedInteractions)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d evaluations\n", len(evals))
	return nil
}

// EvaluationsAddCmd adds an evaluation to a session
type EvaluationsAddCmd struct {
	Session           string `arg:"" help:"ID of the session being evaluated"`
	Phase             string `help:"Observation phase" enum:"initial,followup" required:""`
	Grouping          string `help:"How mixed the participant grouping was" enum:",separated,partial,mixed" default:""`
	Discomfort        string `help:"Discomfort/isolation level" enum:",low,medium,high" default:""`
	Tensions          string `help:"Tension level" enum:",low,medium,high" default:""`
	Communication     string `help:"Communication level" enum:",low,medium,high" default:""`
	Participation     string `help:"Participation band" enum:",100,80-99,50-79,<50" default:""`
	Respect           string `help:"Respect level" enum:",low,medium,high" default:""`
	Openness          string `help:"Openness level" enum:",low,medium,high" default:""`
	Laughter          string `help:"Shared laughter level" enum:",low,medium,high" default:""`
	MixedInteractions int    `help:"Count of cross-group interactions observed" default:"0"`
	MixedObserved     string `help:"Free-text description of mixed interactions" default:""`
}

// Run executes the add command
func (e *EvaluationsAddCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	svc := application.NewSessionService(store)
	eval, err := svc.CreateEvaluation(context.Background(), application.CreateEvaluationParams{
		SessionID:         e.Session,
		Phase:             domain.Phase(e.Phase),
		Grouping:          domain.Grouping(e.Grouping),
		Discomfort:        domain.Level(e.Discomfort),
		Tensions:          domain.Level(e.Tensions),
		Communication:     domain.Level(e.Communication),
		Participation:     domain.Participation(e.Participation),
		Respect:           domain.Level(e.Respect),
		Openness:          domain.Level(e.Openness),
		Laughter:          domain.Level(e.Laughter),
		MixedInteractions: e.MixedInteractions,
		MixedObserved:     e.MixedObserved,
	})
	if err != nil {
		return fmt.Errorf("failed to add evaluation: %w", err)
	}

	fmt.Printf("✓ Evaluation '%s' added to session '%s'\n", eval.ID, e.Session)
	return nil
}

// EvaluationsSetCmd updates fields of an evaluation
type EvaluationsSetCmd struct {
	ID                string  `arg:"" help:"ID of the evaluation to update"`
	Phase             *string `help:"New phase (initial or followup)"`
	Grouping          *string `help:"New grouping value"`
	Discomfort        *string `help:"New discomfort level"`
	Tensions          *string `help:"New tension level"`
	Communication     *string `help:"New communication level"`
	Participation     *string `help:"New participation band"`
	Respect           *string `help:"New respect level"`
	Openness          *string `help:"New openness level"`
	Laughter          *string `help:"New laughter level"`
	MixedInteractions *int    `help:"New cross-group interaction count"`
	MixedObserved     *string `help:"New mixed interactions description"`
}

// Run executes the set command
func (e *EvaluationsSetCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	patch := domain.EvaluationPatch{
		MixedInteractions: e.MixedInteractions,
		MixedObserved:     e.MixedObserved,
	}
	if e.Phase != nil {
		p := domain.Phase(*e.Phase)
		patch.Phase = &p
	}
	if e.Grouping != nil {
		g := domain.Grouping(*e.Grouping)
		patch.Grouping = &g
	}
	if e.Participation != nil {
		p := domain.Participation(*e.Participation)
		patch.Participation = &p
	}
	for _, f := range []struct {
		src *string
		dst **domain.Level
	}{
		{e.Discomfort, &patch.Discomfort},
		{e.Tensions, &patch.Tensions},
		{e.Communication, &patch.Communication},
		{e.Respect, &patch.Respect},
		{e.Openness, &patch.Openness},
		{e.Laughter, &patch.Laughter},
	} {
		if f.src != nil {
			l := domain.Level(*f.src)
			*f.dst = &l
		}
	}

	svc := application.NewSessionService(store)
	if err := svc.UpdateEvaluation(context.Background(), e.ID, patch); err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}

	fmt.Printf("✓ Evaluation '%s' updated successfully\n", e.ID)
	return nil
}

// EvaluationsDelCmd deletes an evaluation
type EvaluationsDelCmd struct {
	ID    string `arg:"" help:"ID of the evaluation to delete"`
	Force bool   `help:"Force deletion without confirmation" short:"f"`
}

// Run executes the del command
func (e *EvaluationsDelCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if !e.Force {
		fmt.Printf("Are you sure you want to delete evaluation '%s'? (y/N): ", e.ID)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	svc := application.NewSessionService(store)
	if err := svc.DeleteEvaluation(context.Background(), e.ID); err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}

	fmt.Printf("✓ Evaluation '%s' deleted successfully\n", e.ID)
	return nil
}
