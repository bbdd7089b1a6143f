package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"convive/paths"
)

// Settings represents the structure of ~/.convive/settings.json
type Settings struct {
	DBPath               string      `json:"db_path,omitempty"`
	Debug                *bool       `json:"debug,omitempty"`
	Groups               StringArray `json:"groups,omitempty"`
	ImpactDueMonths      *int        `json:"impact_due_months,omitempty"`
	ListenAddr           string      `json:"listen_addr,omitempty"`
	MaxLogFiles          *int        `json:"max_log_files,omitempty"`
	ParticipantsPerGroup *int        `json:"participants_per_group,omitempty"`
	StaleAfterDays       *int        `json:"stale_after_days,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from ~/.convive/settings.json
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	data, err := os.ReadFile(paths.GetSettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = paths.ExpandPath(settings.DBPath)
	}

	return &settings, nil
}
