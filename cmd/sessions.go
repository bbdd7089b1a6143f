package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"convive/application"
	"convive/domain"
	"convive/logging"
	"convive/storage"
)

// SessionsCmd manages sessions
type SessionsCmd struct {
	List SessionsListCmd `cmd:"list" help:"List all sessions" default:"1"`
	View SessionsViewCmd `cmd:"view" help:"View a specific session with its evaluations"`
	Add  SessionsAddCmd  `cmd:"add" help:"Add a new session"`
	Set  SessionsSetCmd  `cmd:"set" help:"Update fields of a session"`
	Del  SessionsDelCmd  `cmd:"del" help:"Delete a session and its evaluations"`
}

// SessionsListCmd lists all sessions
type SessionsListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (s *SessionsListCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	sessions, err := store.ListSessions(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if s.Format == "json" {
		data, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	// Table format
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tGROUP\tFACILITATOR\tNOTES")
	for _, sess := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			sess.ID,
			sess.Date,
			sess.Group,
			sess.Facilitator,
			sess.Notes)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d sessions\n", len(sessions))
	return nil
}

// SessionsViewCmd views a specific session
type SessionsViewCmd struct {
	ID     string `arg:"" help:"ID of the session to view"`
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the view command
func (s *SessionsViewCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	session, err := store.GetSession(context.Background(), s.ID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	evals, err := store.ListSessionEvaluations(context.Background(), s.ID)
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}

	if s.Format == "json" {
		data, err := json.MarshalIndent(map[string]interface{}{
			"session":     session,
			"evaluations": evals,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	// Table format
	fmt.Printf("Session: %s\n", session.ID)
	fmt.Printf("Date: %s\n", session.Date)
	fmt.Printf("Group: %s\n", session.Group)
	fmt.Printf("Facilitator: %s\n", session.Facilitator)
	fmt.Printf("Notes: %s\n", session.Notes)
	fmt.Printf("Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(evals) > 0 {
		fmt.Printf("\nEvaluations (%d):\n", len(evals))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tPHASE\tGROUPING\tPARTICIPATION\tRESPECT\tMIXED")
		for _, e := range evals {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%d\n",
				e.ID, e.Phase, e.Grouping, e.Participation, e.Respect, e.MixedInteractions)
		}
		w.Flush()
	}

	return nil
}

// SessionsAddCmd adds a new session
type SessionsAddCmd struct {
	Date        string `arg:"" help:"Session date (YYYY-MM-DD)"`
	Group       string `help:"Participant group" default:""`
	Facilitator string `help:"Facilitator name" default:""`
	Notes       string `help:"Free-text notes" default:""`
}

// Run executes the add command
func (s *SessionsAddCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	svc := application.NewSessionService(store)
	session, err := svc.CreateSession(context.Background(), application.CreateSessionParams{
		Date:        s.Date,
		Facilitator: s.Facilitator,
		Group:       s.Group,
		Notes:       s.Notes,
	})
	if err != nil {
		return fmt.Errorf("failed to add session: %w", err)
	}

	fmt.Printf("✓ Session '%s' added successfully\n", session.ID)
	return nil
}

// SessionsSetCmd updates fields of a session
type SessionsSetCmd struct {
	ID          string  `arg:"" help:"ID of the session to update"`
	Date        *string `help:"New session date (YYYY-MM-DD)"`
	Group       *string `help:"New participant group"`
	Facilitator *string `help:"New facilitator name"`
	Notes       *string `help:"New notes"`
}

// Run executes the set command
func (s *SessionsSetCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	patch := domain.SessionPatch{
		Date:        s.Date,
		Facilitator: s.Facilitator,
		Group:       s.Group,
		Notes:       s.Notes,
	}
	if patch.Date == nil && patch.Facilitator == nil && patch.Group == nil && patch.Notes == nil {
		fmt.Println("Nothing to update")
		return nil
	}

	svc := application.NewSessionService(store)
	if err := svc.UpdateSession(context.Background(), s.ID, patch); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	fmt.Printf("✓ Session '%s' updated successfully\n", s.ID)
	return nil
}

// SessionsDelCmd deletes a session and its evaluations
type SessionsDelCmd struct {
	ID    string `arg:"" help:"ID of the session to delete"`
	Force bool   `help:"Force deletion without confirmation" short:"f"`
}

// Run executes the del command
func (s *SessionsDelCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Check if session exists
	_, err = store.GetSession(ctx, s.ID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	evals, err := store.ListSessionEvaluations(ctx, s.ID)
	if err != nil {
		logging.Logger.Warn("Could not count evaluations before delete", "id", s.ID, "error", err)
	}

	// Ask for confirmation unless --force is used
	if !s.Force {
		if len(evals) > 0 {
			fmt.Printf("WARNING: This will also delete %d evaluation(s)\n", len(evals))
		}
		fmt.Printf("Are you sure you want to delete session '%s'? (y/N): ", s.ID)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	svc := application.NewSessionService(store)
	if err := svc.DeleteSession(ctx, s.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Printf("✓ Session '%s' deleted successfully\n", s.ID)
	return nil
}
