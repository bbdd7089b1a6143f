package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"convive/config"
	"convive/logging"
	"convive/paths"
	"convive/quality"

	"github.com/alecthomas/kong"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	DBPath      string           `help:"Path to SQLite database" type:"path" default:"~/.convive/data.db" env:"CONVIVE_DB_PATH"`

	Serve       ServeCmd       `cmd:"serve" help:"Start the HTTP data API server"`
	Sessions    SessionsCmd    `cmd:"sessions" help:"Manage sessions (list, view, add, set, del)"`
	Evaluations EvaluationsCmd `cmd:"evaluations" help:"Manage session evaluations (list, add, set, del)"`
	Program     ProgramCmd     `cmd:"program" help:"Manage program-wide impact evaluations (list, add)"`
	Stats       StatsCmd       `cmd:"stats" help:"Show aggregated statistics"`
	Quality     QualityCmd     `cmd:"quality" help:"Run data quality checks"`
	Export      ExportCmd      `cmd:"export" help:"Export the dataset as JSON or CSV"`
	Import      ImportCmd      `cmd:"import" help:"Import a dataset from a JSON file (replaces existing data)"`

	// Internal field for settings (not a flag)
	settings *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set

	if c.settings != nil {
		// Apply DBPath setting; CONVIVE_HOME moves the default location
		if c.DBPath == "~/.convive/data.db" || c.DBPath == expandPath("~/.convive/data.db") {
			if _, hasEnv := os.LookupEnv("CONVIVE_DB_PATH"); !hasEnv {
				if c.settings.DBPath != "" {
					c.DBPath = c.settings.DBPath
				} else if os.Getenv("CONVIVE_HOME") != "" {
					c.DBPath = paths.GetDBPath()
				}
			}
		}

		// Apply MaxLogFiles setting
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("CONVIVE_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		// Apply Debug setting
		if !c.Debug {
			if _, hasEnv := os.LookupEnv("CONVIVE_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	// Initialize logging first and get the log file path
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Set environment variables AFTER initialization so child processes inherit debug settings
	// and use the SAME log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("CONVIVE_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("CONVIVE_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("CONVIVE_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	return nil
}

// qualityConfig builds the checker thresholds from settings, falling back
// to the defaults where unset
func (c *CLI) qualityConfig() quality.Config {
	cfg := quality.DefaultConfig()
	if c.settings != nil {
		if c.settings.StaleAfterDays != nil && *c.settings.StaleAfterDays > 0 {
			cfg.StaleAfter = time.Duration(*c.settings.StaleAfterDays) * 24 * time.Hour
		}
		if c.settings.ImpactDueMonths != nil && *c.settings.ImpactDueMonths > 0 {
			cfg.ImpactDueMonths = *c.settings.ImpactDueMonths
		}
	}
	return cfg
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
