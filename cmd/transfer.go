package cmd

import (
	"context"
	"fmt"
	"os"

	"convive/application"
	"convive/storage"
)

// ExportCmd exports the dataset as JSON or CSV
type ExportCmd struct {
	Format string `help:"Output format: json or csv" enum:"json,csv" default:"json"`
	Output string `help:"Write to file instead of stdout" short:"o" default:""`
}

// Run executes the export command
func (e *ExportCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	out := os.Stdout
	if e.Output != "" {
		f, err := os.Create(expandPath(e.Output))
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	svc := application.NewTransferService(store)
	switch e.Format {
	case "csv":
		err = svc.ExportCSV(context.Background(), out)
	default:
		err = svc.ExportJSON(context.Background(), out)
	}
	if err != nil {
		return fmt.Errorf("failed to export dataset: %w", err)
	}

	if e.Output != "" {
		fmt.Printf("✓ Dataset exported to '%s'\n", e.Output)
	}
	return nil
}

// ImportCmd imports a dataset from a JSON file, replacing existing data
type ImportCmd struct {
	File  string `arg:"" help:"Path to the JSON file to import"`
	Force bool   `help:"Skip confirmation prompt" short:"f"`
}

// Run executes the import command
func (i *ImportCmd) Run(cli *CLI) error {
	f, err := os.Open(expandPath(i.File))
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	if !i.Force {
		fmt.Print("Importing replaces ALL existing data. Continue? (y/N): ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	store, err := storage.NewStore(expandPath(cli.DBPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	svc := application.NewTransferService(store)
	result, err := svc.ImportJSON(context.Background(), f)
	if err != nil {
		return fmt.Errorf("failed to import dataset: %w", err)
	}

	if !result.Success {
		fmt.Printf("Import rejected: %s\n", result.Message)
		return fmt.Errorf("import rejected")
	}

	fmt.Printf("✓ Imported %d sessions, %d evaluations, %d program evaluations\n",
		result.Sessions, result.SessionEvaluations, result.ProgramEvaluations)
	return nil
}
